// README: Deterministic charge computation for the three billing models.
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"commutebill/internal/config"
	"commutebill/internal/modules/catalog"
	"commutebill/internal/modules/usage"
	"commutebill/internal/types"
)

// Calculator prices aggregated usage under a billing model. It holds only
// platform constants, so one instance may be shared by concurrent callers.
type Calculator struct {
	cfg config.BillingConfig
}

func NewCalculator(cfg config.BillingConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Calculate is a pure function of (model, totals): identical inputs yield
// identical results. All charges clamp at zero and fractional extra hours
// always round up to the next whole hour before the rate applies.
func (c *Calculator) Calculate(model *catalog.BillingModel, totals usage.PeriodTotals) (*ChargeResult, error) {
	var r *ChargeResult
	switch model.Type {
	case catalog.ModelTrip:
		r = c.calculateTrip(model, totals)
	case catalog.ModelPackage:
		r = c.calculatePackage(model, totals)
	case catalog.ModelHybrid:
		r = c.calculateHybrid(model, totals)
	default:
		return nil, &UnsupportedModelTypeError{Type: model.Type}
	}

	r.OverageCharge = r.ExtraTripCharge.Add(r.ExtraKmCharge).Add(r.ExtraHourCharge)
	r.EmployeeIncentive = types.BillableHours(r.ExtraMinutes).Mul(c.cfg.IncentiveRatePerHour)
	r.TaxAmount = types.RoundMoney(r.TotalCharge.Mul(c.cfg.TaxRate))
	r.GrandTotal = types.RoundMoney(r.TotalCharge.Add(r.TaxAmount))
	return r, nil
}

// calculateTrip bills every trip at the per-trip rate; km and time beyond
// the standard per-trip allowance (scaled by trip count, since totals are
// aggregated) are billed at ratePerKm and overtimeRate respectively.
func (c *Calculator) calculateTrip(model *catalog.BillingModel, totals usage.PeriodTotals) *ChargeResult {
	trips := decimal.NewFromInt(totals.TripCount)

	base := trips.Mul(model.Trip.RatePerTrip)

	extraKm := clampZero(totals.TotalKm.Sub(trips.Mul(model.Standard.TripKm)))
	extraKmCharge := extraKm.Mul(model.Trip.RatePerKm)

	extraMinutes := extraMinutes(model, totals)
	extraHourCharge := types.BillableHours(extraMinutes).Mul(model.Overage.OvertimeRate)

	return &ChargeResult{
		ModelType:       catalog.ModelTrip,
		BaseCharge:      base,
		ExtraKm:         extraKm,
		ExtraMinutes:    extraMinutes,
		ExtraKmCharge:   extraKmCharge,
		ExtraHourCharge: extraHourCharge,
		TotalCharge:     base.Add(extraKmCharge).Add(extraHourCharge),
		Notes: fmt.Sprintf("TRIP: %d trips x %s + %s extra km x %s + overtime",
			totals.TripCount, model.Trip.RatePerTrip, extraKm, model.Trip.RatePerKm),
	}
}

// calculatePackage bills the flat monthly rate plus overage beyond the
// bundled trip and km allowances. Time overage never feeds the vendor
// charge under PACKAGE, but extra minutes are still computed for the
// employee incentive.
func (c *Calculator) calculatePackage(model *catalog.BillingModel, totals usage.PeriodTotals) *ChargeResult {
	base := model.Package.MonthlyRate

	extraTrips := totals.TripCount - model.Package.TripsIncluded
	if extraTrips < 0 {
		extraTrips = 0
	}
	extraTripCharge := decimal.NewFromInt(extraTrips).Mul(model.Overage.ExtraTripRate)

	extraKm := clampZero(totals.TotalKm.Sub(model.Package.KmsIncluded))
	extraKmCharge := extraKm.Mul(model.Overage.ExtraKmRate)

	return &ChargeResult{
		ModelType:       catalog.ModelPackage,
		BaseCharge:      base,
		ExtraTrips:      extraTrips,
		ExtraKm:         extraKm,
		ExtraMinutes:    extraMinutes(model, totals),
		ExtraTripCharge: extraTripCharge,
		ExtraKmCharge:   extraKmCharge,
		TotalCharge:     base.Add(extraTripCharge).Add(extraKmCharge),
		Notes: fmt.Sprintf("PACKAGE: base %s (%d trips, %s km included) + %d extra trips + %s extra km",
			base, model.Package.TripsIncluded, model.Package.KmsIncluded, extraTrips, extraKm),
	}
}

// calculateHybrid bills the flat monthly rate, prices trip overflow at the
// per-trip rate (not the dedicated extra-trip rate), and prices km overage
// the same way PACKAGE does.
func (c *Calculator) calculateHybrid(model *catalog.BillingModel, totals usage.PeriodTotals) *ChargeResult {
	base := model.Package.MonthlyRate

	extraTrips := totals.TripCount - model.Package.TripsIncluded
	if extraTrips < 0 {
		extraTrips = 0
	}
	extraTripCharge := decimal.NewFromInt(extraTrips).Mul(model.Trip.RatePerTrip)

	extraKm := clampZero(totals.TotalKm.Sub(model.Package.KmsIncluded))
	extraKmCharge := extraKm.Mul(model.Overage.ExtraKmRate)

	return &ChargeResult{
		ModelType:       catalog.ModelHybrid,
		BaseCharge:      base,
		ExtraTrips:      extraTrips,
		ExtraKm:         extraKm,
		ExtraMinutes:    extraMinutes(model, totals),
		ExtraTripCharge: extraTripCharge,
		ExtraKmCharge:   extraKmCharge,
		TotalCharge:     base.Add(extraTripCharge).Add(extraKmCharge),
		Notes: fmt.Sprintf("HYBRID: base %s + %d overflow trips x %s + %s extra km",
			base, extraTrips, model.Trip.RatePerTrip, extraKm),
	}
}

// extraMinutes is the aggregate time beyond tripCount standard trips,
// clamped at zero. Every model type computes it the same way; only TRIP
// feeds it into the vendor charge.
func extraMinutes(model *catalog.BillingModel, totals usage.PeriodTotals) decimal.Decimal {
	allowance := decimal.NewFromInt(totals.TripCount).
		Mul(model.Standard.TripHours).
		Mul(decimal.NewFromInt(60))
	return clampZero(decimal.NewFromInt(totals.TotalMinutes).Sub(allowance))
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
