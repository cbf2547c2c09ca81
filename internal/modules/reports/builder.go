// README: Composes calculator outputs into client, vendor, and employee reports.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"commutebill/internal/modules/billing"
	"commutebill/internal/modules/catalog"
	"commutebill/internal/modules/usage"
	"commutebill/internal/types"
)

// ModelSource resolves effective billing models; satisfied by
// catalog.Service.
type ModelSource interface {
	Resolve(ctx context.Context, clientID, vendorID types.ID, at time.Time) (*catalog.BillingModel, error)
	EffectiveByClient(ctx context.Context, clientID types.ID, at time.Time) ([]catalog.BillingModel, error)
	EffectiveByVendor(ctx context.Context, vendorID types.ID, at time.Time) ([]catalog.BillingModel, error)
	Effective(ctx context.Context, at time.Time) ([]catalog.BillingModel, error)
}

// UsageSource lists trip records; satisfied by the usage stores.
type UsageSource interface {
	ListForPair(ctx context.Context, clientID, vendorID types.ID, period types.Period) ([]usage.TripUsageRecord, error)
	ListForEmployee(ctx context.Context, employeeID types.ID, period types.Period) ([]usage.TripUsageRecord, error)
}

// Builder batches the calculator over many (scope, model) pairs. Any
// per-pair failure aborts the whole report: a partial report would misstate
// totals, which is worse than a loud error.
type Builder struct {
	models ModelSource
	trips  UsageSource
	calc   *billing.Calculator
}

func NewBuilder(models ModelSource, trips UsageSource, calc *billing.Calculator) *Builder {
	return &Builder{models: models, trips: trips, calc: calc}
}

// BuildClientReport prices the client's usage per vendor over the period.
func (b *Builder) BuildClientReport(ctx context.Context, clientID types.ID, period types.Period) (*ClientReport, error) {
	models, err := b.models.EffectiveByClient(ctx, clientID, reportInstant(period))
	if err != nil {
		return nil, fmt.Errorf("client report %s %s: %w", clientID, period.Month(), err)
	}

	report := &ClientReport{ClientID: clientID, Month: period.Month()}
	for i := range models {
		model := &models[i]
		result, trips, err := b.pricePair(ctx, model, period)
		if err != nil {
			return nil, fmt.Errorf("client report %s %s (vendor %s): %w", clientID, period.Month(), model.VendorID, err)
		}
		report.Details = append(report.Details, ClientVendorLine{
			VendorID:  model.VendorID,
			ModelType: model.Type,
			Trips:     trips,
			Cost:      result.TotalCharge,
		})
		report.Summary.TotalTrips += trips
		report.Summary.TotalCost = report.Summary.TotalCost.Add(result.TotalCharge)
	}
	report.Summary.TotalVendors = len(report.Details)
	report.Summary.AvgCostPerTrip = safeAverage(report.Summary.TotalCost, report.Summary.TotalTrips)
	for i := range report.Details {
		report.Details[i].ShareOfSpend = sharePct(report.Details[i].Cost, report.Summary.TotalCost)
	}
	return report, nil
}

// BuildVendorReport prices every client the vendor serves; employee
// incentives are totalled separately and never added into revenue.
func (b *Builder) BuildVendorReport(ctx context.Context, vendorID types.ID, period types.Period) (*VendorReport, error) {
	models, err := b.models.EffectiveByVendor(ctx, vendorID, reportInstant(period))
	if err != nil {
		return nil, fmt.Errorf("vendor report %s %s: %w", vendorID, period.Month(), err)
	}

	report := &VendorReport{VendorID: vendorID, Month: period.Month()}
	for i := range models {
		model := &models[i]
		result, trips, err := b.pricePair(ctx, model, period)
		if err != nil {
			return nil, fmt.Errorf("vendor report %s %s (client %s): %w", vendorID, period.Month(), model.ClientID, err)
		}
		report.Details = append(report.Details, VendorClientLine{
			ClientID:   model.ClientID,
			ModelType:  model.Type,
			Trips:      trips,
			Revenue:    result.TotalCharge,
			Incentives: result.EmployeeIncentive,
		})
		report.Summary.TotalTrips += trips
		report.Summary.TotalRevenue = report.Summary.TotalRevenue.Add(result.TotalCharge)
		report.Summary.TotalIncentives = report.Summary.TotalIncentives.Add(result.EmployeeIncentive)
	}
	report.Summary.TotalClients = len(report.Details)
	report.Summary.AvgRevenuePerTrip = safeAverage(report.Summary.TotalRevenue, report.Summary.TotalTrips)
	for i := range report.Details {
		report.Details[i].ShareOfRevenue = sharePct(report.Details[i].Revenue, report.Summary.TotalRevenue)
	}
	return report, nil
}

// BuildEmployeeReport lists each of the employee's trips with the incentive
// it individually earned. The model covering the trip's own (client, vendor,
// date) supplies the standard allowance.
func (b *Builder) BuildEmployeeReport(ctx context.Context, employeeID types.ID, period types.Period) (*EmployeeReport, error) {
	records, err := b.trips.ListForEmployee(ctx, employeeID, period)
	if err != nil {
		return nil, fmt.Errorf("employee report %s %s: %w", employeeID, period.Month(), err)
	}

	report := &EmployeeReport{EmployeeID: employeeID, Month: period.Month()}
	for _, r := range records {
		if r.DistanceKm.IsNegative() {
			return nil, &usage.InvalidRecordError{TripID: r.TripID, Field: "distanceKm"}
		}
		if r.DurationMinutes < 0 {
			return nil, &usage.InvalidRecordError{TripID: r.TripID, Field: "durationMinutes"}
		}
		model, err := b.models.Resolve(ctx, r.ClientID, r.VendorID, r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("employee report %s %s (trip %s): %w", employeeID, period.Month(), r.TripID, err)
		}
		inc := b.calc.IncentiveForTrip(model, r)
		report.Trips = append(report.Trips, inc)
		report.TotalIncentive = report.TotalIncentive.Add(inc.Total)
	}
	return report, nil
}

// BuildConsolidatedReport rolls every effective (client, vendor) pair into
// one platform-wide view for the month.
func (b *Builder) BuildConsolidatedReport(ctx context.Context, period types.Period) (*ConsolidatedReport, error) {
	models, err := b.models.Effective(ctx, reportInstant(period))
	if err != nil {
		return nil, fmt.Errorf("consolidated report %s: %w", period.Month(), err)
	}

	report := &ConsolidatedReport{Month: period.Month()}
	byClient := make(map[types.ID]*ConsolidatedClientLine)
	for i := range models {
		model := &models[i]
		result, trips, err := b.pricePair(ctx, model, period)
		if err != nil {
			return nil, fmt.Errorf("consolidated report %s (%s/%s): %w", period.Month(), model.ClientID, model.VendorID, err)
		}
		line, ok := byClient[model.ClientID]
		if !ok {
			line = &ConsolidatedClientLine{ClientID: model.ClientID}
			byClient[model.ClientID] = line
		}
		line.Trips += trips
		line.Billed = line.Billed.Add(result.TotalCharge)
		report.TotalTrips += trips
		report.TotalBilled = report.TotalBilled.Add(result.TotalCharge)
		report.TotalIncentives = report.TotalIncentives.Add(result.EmployeeIncentive)
	}
	for _, line := range byClient {
		line.ShareOfSpend = sharePct(line.Billed, report.TotalBilled)
		report.Clients = append(report.Clients, *line)
	}
	return report, nil
}

// ChargeForPair prices one (client, vendor) pair on demand, outside of any
// report. The model is resolved the same way the reports resolve it.
func (b *Builder) ChargeForPair(ctx context.Context, clientID, vendorID types.ID, period types.Period) (*billing.ChargeResult, error) {
	model, err := b.models.Resolve(ctx, clientID, vendorID, reportInstant(period))
	if err != nil {
		return nil, fmt.Errorf("charge %s/%s %s: %w", clientID, vendorID, period.Month(), err)
	}
	result, _, err := b.pricePair(ctx, model, period)
	if err != nil {
		return nil, fmt.Errorf("charge %s/%s %s: %w", clientID, vendorID, period.Month(), err)
	}
	return result, nil
}

// pricePair aggregates and prices one (client, vendor) pair's usage.
func (b *Builder) pricePair(ctx context.Context, model *catalog.BillingModel, period types.Period) (*billing.ChargeResult, int64, error) {
	records, err := b.trips.ListForPair(ctx, model.ClientID, model.VendorID, period)
	if err != nil {
		return nil, 0, err
	}
	totals, err := usage.TotalsFor(records, string(model.ClientID)+"|"+string(model.VendorID), period)
	if err != nil {
		return nil, 0, err
	}
	result, err := b.calc.Calculate(model, totals)
	if err != nil {
		return nil, 0, err
	}
	return result, totals.TripCount, nil
}

// reportInstant is the instant models are resolved at for a period report:
// the last representable moment inside the period, so a model introduced
// mid-month is the one that bills the month.
func reportInstant(period types.Period) time.Time {
	return period.End.Add(-time.Nanosecond)
}

// safeAverage divides total by count, returning zero (not an error, not
// NaN) for an empty period.
func safeAverage(total decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return types.RoundMoney(total.Div(decimal.NewFromInt(count)))
}

var hundred = decimal.NewFromInt(100)

// sharePct is round(amount/total*100). Rows of a report may sum to 99 or
// 101 from rounding; that is tolerated, not corrected.
func sharePct(amount, total decimal.Decimal) int64 {
	if total.IsZero() {
		return 0
	}
	return amount.Mul(hundred).Div(total).Round(0).IntPart()
}
