package holiday

import (
	"slices"
	"time"
)

type Holiday struct {
	ID                    string
	Name                  string
	Date                  time.Time
	IsCompanyWide         bool
	ApplicableDepartments []string
	Description           *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// AppliesTo reports whether h makes departmentID's day a holiday. An empty
// departmentID only matches company-wide entries.
func (h *Holiday) AppliesTo(departmentID string) bool {
	if h.IsCompanyWide {
		return true
	}
	if departmentID == "" {
		return false
	}
	return slices.Contains(h.ApplicableDepartments, departmentID)
}

// Overlaps reports whether h and other target intersecting department sets.
// Callers compare dates separately.
func (h *Holiday) Overlaps(other Holiday) bool {
	if h.IsCompanyWide || other.IsCompanyWide {
		return true
	}
	for _, d := range h.ApplicableDepartments {
		if slices.Contains(other.ApplicableDepartments, d) {
			return true
		}
	}
	return false
}
