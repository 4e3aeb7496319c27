package domain

import "time"

// JurisdictionKind enumerates administrative node types.
type JurisdictionKind string

const (
	JurisdictionWard     JurisdictionKind = "ward"
	JurisdictionSuburb   JurisdictionKind = "suburb"
	JurisdictionDistrict JurisdictionKind = "district"
	JurisdictionTown     JurisdictionKind = "town"
)

// Jurisdiction is a hierarchical administrative node with a center point.
// Read-mostly reference data; the core never mutates it. An issue resolves
// to the jurisdiction whose center lies nearest to the report coordinates,
// a deliberate approximation of polygon containment.
type Jurisdiction struct {
	ID        string
	Name      string
	Kind      JurisdictionKind
	ParentID  *string
	Center    Coordinates
	CreatedAt time.Time
}
