package domain

// EscalationLevel is the ordinal authority tier an issue currently sits at.
type EscalationLevel string

const (
	EscalationWard     EscalationLevel = "L1"
	EscalationDistrict EscalationLevel = "L2"
	EscalationTown     EscalationLevel = "L3"
	EscalationMinistry EscalationLevel = "L4"
)

// StaffRole enumerates operator authority classes. Roles are distinct from
// escalation levels: a role bounds which operations a principal may invoke,
// a level bounds which issues they may touch.
type StaffRole string

const (
	RoleOfficer    StaffRole = "officer"
	RoleManager    StaffRole = "manager"
	RoleAdmin      StaffRole = "admin"
	RoleSuperAdmin StaffRole = "super_admin"
)
