// README: Pure fold of trip records into per-scope period totals.
package usage

import (
	"iter"

	"commutebill/internal/types"
)

// ScopeFunc maps a record to the key its usage accumulates under.
type ScopeFunc func(TripUsageRecord) string

// Canonical scopes. Pair scopes join with "|", matching the catalog's
// pair keys.
func ByEmployee(r TripUsageRecord) string { return string(r.EmployeeID) }
func ByClient(r TripUsageRecord) string   { return string(r.ClientID) }
func ByClientVendor(r TripUsageRecord) string {
	return string(r.ClientID) + "|" + string(r.VendorID)
}
func ByVendorClient(r TripUsageRecord) string {
	return string(r.VendorID) + "|" + string(r.ClientID)
}

// Aggregate groups records by scope(r) within the half-open period and sums
// trips, km, and minutes per key. Records outside the period are skipped
// silently; any record with a negative distance or duration fails the whole
// call. The returned sequence is lazy and restartable, and yields one
// PeriodTotals per distinct key in unspecified order.
func Aggregate(records []TripUsageRecord, scope ScopeFunc, period types.Period) (iter.Seq[PeriodTotals], error) {
	for _, r := range records {
		if r.DistanceKm.IsNegative() {
			return nil, &InvalidRecordError{TripID: r.TripID, Field: "distanceKm"}
		}
		if r.DurationMinutes < 0 {
			return nil, &InvalidRecordError{TripID: r.TripID, Field: "durationMinutes"}
		}
	}

	return func(yield func(PeriodTotals) bool) {
		groups := make(map[string]*PeriodTotals)
		for _, r := range records {
			if !period.Contains(r.StartTime) {
				continue
			}
			key := scope(r)
			totals, ok := groups[key]
			if !ok {
				totals = &PeriodTotals{Key: key}
				groups[key] = totals
			}
			totals.TripCount++
			totals.TotalKm = totals.TotalKm.Add(r.DistanceKm)
			totals.TotalMinutes += r.DurationMinutes
		}
		for _, totals := range groups {
			if !yield(*totals) {
				return
			}
		}
	}, nil
}

// TotalsFor folds every in-period record into a single PeriodTotals under
// the given key, for callers that already filtered to one scope.
func TotalsFor(records []TripUsageRecord, key string, period types.Period) (PeriodTotals, error) {
	seq, err := Aggregate(records, func(TripUsageRecord) string { return key }, period)
	if err != nil {
		return PeriodTotals{}, err
	}
	for totals := range seq {
		return totals, nil
	}
	return PeriodTotals{Key: key}, nil
}
