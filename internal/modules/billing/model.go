// README: Charge result value object and calculator errors.
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"commutebill/internal/modules/catalog"
)

// UnsupportedModelTypeError rejects model-type tags the calculator does not
// know. New variants must be added here, never priced by fallback.
type UnsupportedModelTypeError struct {
	Type catalog.ModelType
}

func (e *UnsupportedModelTypeError) Error() string {
	return fmt.Sprintf("unsupported billing model type %q", e.Type)
}

// ChargeResult is the priced outcome of one (model, usage) pair. It is a
// value object: constructed in one Calculate call, never mutated after.
//
// EmployeeIncentive is a payout to the employee and uses the platform-wide
// incentive rate, not the vendor's overtime or extra-hour rate. It must
// never be netted against the vendor charge.
type ChargeResult struct {
	ModelType catalog.ModelType `json:"modelType"`

	BaseCharge decimal.Decimal `json:"baseCharge"`

	ExtraTrips      int64           `json:"extraTrips"`
	ExtraKm         decimal.Decimal `json:"extraKm"`
	ExtraMinutes    decimal.Decimal `json:"extraMinutes"`
	ExtraTripCharge decimal.Decimal `json:"extraTripCharge"`
	ExtraKmCharge   decimal.Decimal `json:"extraKmCharge"`
	ExtraHourCharge decimal.Decimal `json:"extraHourCharge"`
	OverageCharge   decimal.Decimal `json:"overageCharge"`

	TotalCharge decimal.Decimal `json:"totalCharge"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	GrandTotal  decimal.Decimal `json:"grandTotal"`

	EmployeeIncentive decimal.Decimal `json:"employeeIncentive"`

	Notes string `json:"calculationNotes,omitempty"`
}
