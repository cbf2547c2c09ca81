// README: Trip-usage facts and aggregated period totals.
package usage

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"commutebill/internal/types"
)

// TripUsageRecord is one completed trip as reported by the trip-tracking
// service. Records are raw facts: read-only here, never re-priced.
type TripUsageRecord struct {
	TripID          types.ID         `json:"tripId"`
	EmployeeID      types.ID         `json:"employeeId"`
	ClientID        types.ID         `json:"clientId"`
	VendorID        types.ID         `json:"vendorId"`
	StartTime       time.Time        `json:"startTime"`
	DistanceKm      decimal.Decimal  `json:"distanceKm"`
	DurationMinutes int64            `json:"durationMinutes"`
	TotalCost       *decimal.Decimal `json:"totalCost,omitempty"` // upstream-priced, informational
}

// PeriodTotals is the fold of one scope key's records over a period.
// Immutable once built; callers discard it after pricing.
type PeriodTotals struct {
	Key          string          `json:"key"`
	TripCount    int64           `json:"tripCount"`
	TotalKm      decimal.Decimal `json:"totalKm"`
	TotalMinutes int64           `json:"totalMinutes"`
}

// InvalidRecordError rejects a whole aggregation batch; callers wanting
// partial success must pre-filter.
type InvalidRecordError struct {
	TripID types.ID
	Field  string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("usage record %s: negative %s", e.TripID, e.Field)
}
