package domain

import "time"

// Department is a resolution target for assigned issues. It declares the
// category codes it handles and its SLA target in hours.
type Department struct {
	ID         string
	Name       string
	Categories []string
	SLAHours   int
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Handles reports whether the department covers the given category code.
func (d *Department) Handles(category string) bool {
	for _, c := range d.Categories {
		if c == category {
			return true
		}
	}
	return false
}
