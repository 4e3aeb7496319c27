package domain

// Principal is the acting party for a core operation, passed explicitly into
// every service call rather than read from ambient session state.
type Principal struct {
	SubjectType  SubjectType
	CitizenID    *string
	OfficerID    *string
	Name         string
	Role         StaffRole       // empty for citizens
	Escalation   EscalationLevel // empty for citizens
	DepartmentID *string
}

// IsStaff reports whether the principal acts with staff authority.
func (p *Principal) IsStaff() bool {
	return p != nil && p.SubjectType == SubjectTypeStaff
}

// IsSuperAdmin reports whether level checks are bypassed for this principal.
func (p *Principal) IsSuperAdmin() bool {
	return p.IsStaff() && p.Role == RoleSuperAdmin
}

// Label renders the actor string recorded on timeline entries.
func (p *Principal) Label() string {
	if p == nil {
		return "anonymous"
	}
	if p.Name != "" {
		return p.Name
	}
	switch p.SubjectType {
	case SubjectTypeStaff:
		return string(p.Role)
	case SubjectTypeCitizen:
		return "citizen"
	default:
		return "anonymous"
	}
}
