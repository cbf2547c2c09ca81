// README: Billing-model configuration variants and catalog errors.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"commutebill/internal/types"
)

type ModelType string

const (
	ModelTrip    ModelType = "TRIP"
	ModelPackage ModelType = "PACKAGE"
	ModelHybrid  ModelType = "HYBRID"
)

var (
	ErrNotFound = errors.New("no effective billing model")
	ErrOverlap  = errors.New("effective range overlaps an existing model")
)

// ValidationError names the config field that failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("billing model config: %s %s", e.Field, e.Reason)
}

// TripPricing carries the per-trip rates. Present for TRIP and HYBRID.
type TripPricing struct {
	RatePerTrip decimal.Decimal `json:"ratePerTrip"`
	RatePerKm   decimal.Decimal `json:"ratePerKm"`
}

// PackagePricing carries the flat-rate bundle. Present for PACKAGE and HYBRID.
type PackagePricing struct {
	MonthlyRate   decimal.Decimal `json:"packageMonthlyRate"`
	TripsIncluded int64           `json:"packageTripsIncluded"`
	KmsIncluded   decimal.Decimal `json:"packageKmsIncluded"`
}

// OverageRates are present on every model. OvertimeRate prices time beyond a
// standard trip's allotted hours; ExtraHourRate is the post-allowance rate
// and is a distinct concept even though both derive from the same raw extra
// hours.
type OverageRates struct {
	ExtraTripRate decimal.Decimal `json:"extraTripRate"`
	ExtraKmRate   decimal.Decimal `json:"extraKmRate"`
	ExtraHourRate decimal.Decimal `json:"extraHourRate"`
	OvertimeRate  decimal.Decimal `json:"overtimeRate"`
}

// StandardAllowance is the per-trip km/hour allotment. Required for every
// model type: incentive computation needs it even under PACKAGE pricing.
type StandardAllowance struct {
	TripKm    decimal.Decimal `json:"standardTripKm"`
	TripHours decimal.Decimal `json:"standardTripHours"`
}

// BillingModel is effective for exactly one (client, vendor) pair at a time.
// The Trip and Package sections are tagged variants: only the sections the
// ModelType requires are set, everything else is nil.
type BillingModel struct {
	ID       types.ID  `json:"id"`
	ClientID types.ID  `json:"clientId"`
	VendorID types.ID  `json:"vendorId"`
	Type     ModelType `json:"modelType"`

	Trip    *TripPricing    `json:"trip,omitempty"`
	Package *PackagePricing `json:"package,omitempty"`

	Overage  OverageRates      `json:"overage"`
	Standard StandardAllowance `json:"standard"`

	EffectiveFrom  time.Time  `json:"effectiveFrom"`
	EffectiveUntil *time.Time `json:"effectiveUntil,omitempty"` // nil = open-ended
}

// EffectiveAt reports whether the model covers the given instant. The range
// is half-open: effective on From, no longer effective on Until.
func (m *BillingModel) EffectiveAt(at time.Time) bool {
	if at.Before(m.EffectiveFrom) {
		return false
	}
	return m.EffectiveUntil == nil || at.Before(*m.EffectiveUntil)
}

// overlaps reports whether two effective ranges intersect. Open-ended
// ranges extend to infinity.
func overlaps(aFrom time.Time, aUntil *time.Time, bFrom time.Time, bUntil *time.Time) bool {
	aBeforeB := aUntil != nil && !bFrom.Before(*aUntil)
	bBeforeA := bUntil != nil && !aFrom.Before(*bUntil)
	return !aBeforeB && !bBeforeA
}
