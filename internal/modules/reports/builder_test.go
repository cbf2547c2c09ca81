// README: Report composition tests over in-memory stores.
package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commutebill/internal/config"
	"commutebill/internal/modules/billing"
	"commutebill/internal/modules/catalog"
	"commutebill/internal/modules/usage"
	"commutebill/internal/types"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fixture wires the builder against in-memory stores:
//
//	c1-v1  TRIP    250/trip, 12/km beyond 10 km/trip, overtime 15/h
//	c1-v2  PACKAGE 50000/month, 200 trips and 5000 km included
//	c2-v1  TRIP    same rates as c1-v1
//	c3-v1  TRIP    same rates, no usage at all
type fixture struct {
	builder *Builder
	trips   *usage.MemStore
	catalog *catalog.Service
	feb     types.Period
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	cat := catalog.NewService(catalog.NewMemStore())
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tripModel := func(client, vendor types.ID) *catalog.BillingModel {
		return &catalog.BillingModel{
			ClientID: client, VendorID: vendor, Type: catalog.ModelTrip,
			Trip: &catalog.TripPricing{RatePerTrip: dec("250"), RatePerKm: dec("12")},
			Overage: catalog.OverageRates{
				ExtraTripRate: dec("100"), ExtraKmRate: dec("15"),
				ExtraHourRate: dec("20"), OvertimeRate: dec("15"),
			},
			Standard:      catalog.StandardAllowance{TripKm: dec("10"), TripHours: dec("1")},
			EffectiveFrom: jan,
		}
	}
	for _, m := range []*catalog.BillingModel{
		tripModel("c1", "v1"),
		tripModel("c2", "v1"),
		tripModel("c3", "v1"),
	} {
		_, err := cat.Create(ctx, m)
		require.NoError(t, err)
	}
	pkg := tripModel("c1", "v2")
	pkg.Type = catalog.ModelPackage
	pkg.Trip = nil
	pkg.Package = &catalog.PackagePricing{
		MonthlyRate: dec("50000"), TripsIncluded: 200, KmsIncluded: dec("5000"),
	}
	_, err := cat.Create(ctx, pkg)
	require.NoError(t, err)

	trips := usage.NewMemStore()
	noon := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC) // Wednesday
	seed := []usage.TripUsageRecord{
		{TripID: "t1", EmployeeID: "e1", ClientID: "c1", VendorID: "v1", StartTime: noon, DistanceKm: dec("12"), DurationMinutes: 70},
		{TripID: "t2", EmployeeID: "e2", ClientID: "c1", VendorID: "v1", StartTime: noon, DistanceKm: dec("8"), DurationMinutes: 50},
		{TripID: "t3", EmployeeID: "e1", ClientID: "c1", VendorID: "v2", StartTime: noon, DistanceKm: dec("5"), DurationMinutes: 30},
		{TripID: "t4", EmployeeID: "e3", ClientID: "c2", VendorID: "v1", StartTime: noon, DistanceKm: dec("15"), DurationMinutes: 130},
	}
	for i := range seed {
		require.NoError(t, trips.Record(ctx, &seed[i]))
	}

	calc := billing.NewCalculator(config.BillingConfig{
		IncentiveRatePerHour: dec("250"),
		NightBonus:           dec("150"),
		WeekendBonus:         dec("200"),
		TaxRate:              dec("0.18"),
	})
	return &fixture{
		builder: NewBuilder(cat, trips, calc),
		trips:   trips,
		catalog: cat,
		feb:     types.MonthOf(2026, time.February),
	}
}

func TestBuildClientReport(t *testing.T) {
	f := newFixture(t)

	report, err := f.builder.BuildClientReport(context.Background(), "c1", f.feb)
	require.NoError(t, err)

	// v1: 2 trips, 20 km (at allowance), 120 min (at allowance) -> 500
	// v2: 1 trip under package limits -> flat 50000
	assert.Equal(t, int64(3), report.Summary.TotalTrips)
	assert.Equal(t, 2, report.Summary.TotalVendors)
	assert.True(t, report.Summary.TotalCost.Equal(dec("50500")),
		"TotalCost = %s", report.Summary.TotalCost)
	// 50500 / 3 rounded to 2 places
	assert.True(t, report.Summary.AvgCostPerTrip.Equal(dec("16833.33")),
		"AvgCostPerTrip = %s", report.Summary.AvgCostPerTrip)

	require.Len(t, report.Details, 2)
	var pctSum int64
	for _, line := range report.Details {
		pctSum += line.ShareOfSpend
		switch line.VendorID {
		case "v1":
			assert.Equal(t, int64(2), line.Trips)
			assert.True(t, line.Cost.Equal(dec("500")), "v1 cost = %s", line.Cost)
			assert.Equal(t, catalog.ModelTrip, line.ModelType)
		case "v2":
			assert.Equal(t, int64(1), line.Trips)
			assert.True(t, line.Cost.Equal(dec("50000")), "v2 cost = %s", line.Cost)
			assert.Equal(t, catalog.ModelPackage, line.ModelType)
		default:
			t.Errorf("unexpected vendor %s", line.VendorID)
		}
	}
	// 1% + 99%: rounding may drift one point but here it lands on 100
	assert.Equal(t, int64(100), pctSum)
}

func TestBuildClientReportZeroTrips(t *testing.T) {
	f := newFixture(t)

	report, err := f.builder.BuildClientReport(context.Background(), "c3", f.feb)
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.Summary.TotalTrips)
	assert.True(t, report.Summary.AvgCostPerTrip.IsZero(), "avg = %s", report.Summary.AvgCostPerTrip)
	assert.True(t, report.Summary.TotalCost.IsZero())
}

func TestBuildVendorReport(t *testing.T) {
	f := newFixture(t)

	report, err := f.builder.BuildVendorReport(context.Background(), "v1", f.feb)
	require.NoError(t, err)

	// c1: 500 revenue, no overage -> no incentive
	// c2: 1 trip, 15 km, 130 min: 250 + 5*12 + ceil(70/60)*15 = 340,
	//     incentive 2h * 250 = 500
	assert.Equal(t, int64(3), report.Summary.TotalTrips)
	assert.Equal(t, 3, report.Summary.TotalClients)
	assert.True(t, report.Summary.TotalRevenue.Equal(dec("840")),
		"TotalRevenue = %s", report.Summary.TotalRevenue)
	assert.True(t, report.Summary.TotalIncentives.Equal(dec("500")),
		"TotalIncentives = %s", report.Summary.TotalIncentives)
	// incentives must not leak into revenue: 840, not 1340
	assert.True(t, report.Summary.AvgRevenuePerTrip.Equal(dec("280")),
		"AvgRevenuePerTrip = %s", report.Summary.AvgRevenuePerTrip)
}

func TestBuildEmployeeReport(t *testing.T) {
	f := newFixture(t)

	report, err := f.builder.BuildEmployeeReport(context.Background(), "e3", f.feb)
	require.NoError(t, err)

	require.Len(t, report.Trips, 1)
	row := report.Trips[0]
	assert.Equal(t, types.ID("t4"), row.TripID)
	// 130 min against a 60 min allowance: 70 extra -> 2 billed hours
	assert.True(t, row.ExtraMinutes.Equal(dec("70")), "ExtraMinutes = %s", row.ExtraMinutes)
	assert.True(t, row.ExtraHourIncentive.Equal(dec("500")), "ExtraHourIncentive = %s", row.ExtraHourIncentive)
	assert.True(t, row.NightBonus.IsZero())
	assert.True(t, row.WeekendBonus.IsZero())
	assert.True(t, report.TotalIncentive.Equal(dec("500")), "TotalIncentive = %s", report.TotalIncentive)
}

func TestBuildEmployeeReportAbortsWithoutModel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// a trip under a pair with no effective model must fail the report
	orphan := usage.TripUsageRecord{
		TripID: "t9", EmployeeID: "e3", ClientID: "c9", VendorID: "v9",
		StartTime:  time.Date(2026, 2, 12, 9, 0, 0, 0, time.UTC),
		DistanceKm: dec("5"), DurationMinutes: 30,
	}
	require.NoError(t, f.trips.Record(ctx, &orphan))

	_, err := f.builder.BuildEmployeeReport(ctx, "e3", f.feb)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Contains(t, err.Error(), "t9")
}

func TestBuildConsolidatedReport(t *testing.T) {
	f := newFixture(t)

	report, err := f.builder.BuildConsolidatedReport(context.Background(), f.feb)
	require.NoError(t, err)

	// c1 50500 + c2 340 + c3 0 = 50840 over 4 trips
	assert.Equal(t, int64(4), report.TotalTrips)
	assert.True(t, report.TotalBilled.Equal(dec("50840")), "TotalBilled = %s", report.TotalBilled)
	assert.True(t, report.TotalIncentives.Equal(dec("500")), "TotalIncentives = %s", report.TotalIncentives)
	assert.Len(t, report.Clients, 3)
}

func TestReportsAreRepeatable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.builder.BuildClientReport(ctx, "c1", f.feb)
	require.NoError(t, err)
	second, err := f.builder.BuildClientReport(ctx, "c1", f.feb)
	require.NoError(t, err)

	assert.Equal(t, first.Summary.TotalTrips, second.Summary.TotalTrips)
	assert.True(t, first.Summary.TotalCost.Equal(second.Summary.TotalCost))
	assert.Len(t, second.Details, len(first.Details))
}
