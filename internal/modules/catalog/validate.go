// README: Per-type validation of billing-model configurations.
package catalog

import "github.com/shopspring/decimal"

// Validate checks required-field presence and sign per the declared model
// type. Rates must be strictly positive; bundle limits may be zero (a
// package with no included trips is unusual but legal).
func (m *BillingModel) Validate() error {
	switch m.Type {
	case ModelTrip, ModelPackage, ModelHybrid:
	default:
		return &ValidationError{Field: "modelType", Reason: "must be TRIP, PACKAGE, or HYBRID"}
	}
	if m.ClientID == "" {
		return &ValidationError{Field: "clientId", Reason: "is required"}
	}
	if m.VendorID == "" {
		return &ValidationError{Field: "vendorId", Reason: "is required"}
	}
	if m.EffectiveFrom.IsZero() {
		return &ValidationError{Field: "effectiveFrom", Reason: "is required"}
	}
	if m.EffectiveUntil != nil && !m.EffectiveFrom.Before(*m.EffectiveUntil) {
		return &ValidationError{Field: "effectiveUntil", Reason: "must be after effectiveFrom"}
	}

	if m.Type == ModelTrip || m.Type == ModelHybrid {
		if m.Trip == nil {
			return &ValidationError{Field: "trip", Reason: "pricing is required for this model type"}
		}
		if err := requirePositive("ratePerTrip", m.Trip.RatePerTrip); err != nil {
			return err
		}
		if err := requirePositive("ratePerKm", m.Trip.RatePerKm); err != nil {
			return err
		}
	}

	if m.Type == ModelPackage || m.Type == ModelHybrid {
		if m.Package == nil {
			return &ValidationError{Field: "package", Reason: "pricing is required for this model type"}
		}
		if err := requirePositive("packageMonthlyRate", m.Package.MonthlyRate); err != nil {
			return err
		}
		if m.Package.TripsIncluded < 0 {
			return &ValidationError{Field: "packageTripsIncluded", Reason: "must be >= 0"}
		}
		if m.Package.KmsIncluded.IsNegative() {
			return &ValidationError{Field: "packageKmsIncluded", Reason: "must be >= 0"}
		}
	}

	if err := requirePositive("extraTripRate", m.Overage.ExtraTripRate); err != nil {
		return err
	}
	if err := requirePositive("extraKmRate", m.Overage.ExtraKmRate); err != nil {
		return err
	}
	if err := requirePositive("extraHourRate", m.Overage.ExtraHourRate); err != nil {
		return err
	}
	if err := requirePositive("overtimeRate", m.Overage.OvertimeRate); err != nil {
		return err
	}
	if err := requirePositive("standardTripKm", m.Standard.TripKm); err != nil {
		return err
	}
	if err := requirePositive("standardTripHours", m.Standard.TripHours); err != nil {
		return err
	}
	return nil
}

func requirePositive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return &ValidationError{Field: field, Reason: "must be > 0"}
	}
	return nil
}
