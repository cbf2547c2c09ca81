// README: Employee-to-package assignment link.
package catalog

import (
	"time"

	"commutebill/internal/types"
)

// PackageAssignment links an employee to a billing model for a validity
// window. PackageID references a BillingModel of type PACKAGE or HYBRID.
type PackageAssignment struct {
	ID         types.ID   `json:"id"`
	EmployeeID types.ID   `json:"employeeId"`
	ClientID   types.ID   `json:"clientId"`
	VendorID   types.ID   `json:"vendorId"`
	PackageID  types.ID   `json:"packageId"`
	ValidFrom  time.Time  `json:"validFrom"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
}

func (a *PackageAssignment) Validate() error {
	if a.EmployeeID == "" {
		return &ValidationError{Field: "employeeId", Reason: "is required"}
	}
	if a.ClientID == "" {
		return &ValidationError{Field: "clientId", Reason: "is required"}
	}
	if a.VendorID == "" {
		return &ValidationError{Field: "vendorId", Reason: "is required"}
	}
	if a.PackageID == "" {
		return &ValidationError{Field: "packageId", Reason: "is required"}
	}
	if a.ValidFrom.IsZero() {
		return &ValidationError{Field: "validFrom", Reason: "is required"}
	}
	if a.ValidUntil != nil && !a.ValidFrom.Before(*a.ValidUntil) {
		return &ValidationError{Field: "validUntil", Reason: "must be after validFrom"}
	}
	return nil
}

// ValidAt reports whether the assignment covers the given instant.
func (a *PackageAssignment) ValidAt(at time.Time) bool {
	if at.Before(a.ValidFrom) {
		return false
	}
	return a.ValidUntil == nil || at.Before(*a.ValidUntil)
}
