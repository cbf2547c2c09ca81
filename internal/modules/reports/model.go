// README: Report row and summary shapes for the three stakeholder views.
package reports

import (
	"github.com/shopspring/decimal"

	"commutebill/internal/modules/billing"
	"commutebill/internal/modules/catalog"
	"commutebill/internal/types"
)

// ClientReport is the client's monthly spend across its vendors.
type ClientReport struct {
	ClientID types.ID            `json:"clientId"`
	Month    string              `json:"month"`
	Summary  ClientSummary       `json:"summary"`
	Details  []ClientVendorLine  `json:"details"`
}

type ClientSummary struct {
	TotalTrips     int64           `json:"totalTrips"`
	TotalCost      decimal.Decimal `json:"totalCost"`
	TotalVendors   int             `json:"totalVendors"`
	AvgCostPerTrip decimal.Decimal `json:"avgCostPerTrip"`
}

type ClientVendorLine struct {
	VendorID     types.ID          `json:"vendorId"`
	ModelType    catalog.ModelType `json:"modelType"`
	Trips        int64             `json:"trips"`
	Cost         decimal.Decimal   `json:"cost"`
	ShareOfSpend int64             `json:"shareOfSpendPct"`
}

// VendorReport mirrors the client view from the vendor's side. Incentives
// are employee payouts passing through the vendor's trips; they are
// reported alongside revenue but never added into it.
type VendorReport struct {
	VendorID types.ID           `json:"vendorId"`
	Month    string             `json:"month"`
	Summary  VendorSummary      `json:"summary"`
	Details  []VendorClientLine `json:"details"`
}

type VendorSummary struct {
	TotalTrips        int64           `json:"totalTrips"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalClients      int             `json:"totalClients"`
	AvgRevenuePerTrip decimal.Decimal `json:"avgRevenuePerTrip"`
	TotalIncentives   decimal.Decimal `json:"totalIncentives"`
}

type VendorClientLine struct {
	ClientID       types.ID          `json:"clientId"`
	ModelType      catalog.ModelType `json:"modelType"`
	Trips          int64             `json:"trips"`
	Revenue        decimal.Decimal   `json:"revenue"`
	Incentives     decimal.Decimal   `json:"incentives"`
	ShareOfRevenue int64             `json:"shareOfRevenuePct"`
}

// EmployeeReport is a per-trip breakdown, not an aggregate: each row shows
// the extra time a trip ran and what it earned.
type EmployeeReport struct {
	EmployeeID     types.ID                `json:"employeeId"`
	Month          string                  `json:"month"`
	Trips          []billing.TripIncentive `json:"trips"`
	TotalIncentive decimal.Decimal         `json:"totalIncentive"`
}

// ConsolidatedReport is the platform-wide monthly rollup.
type ConsolidatedReport struct {
	Month           string                 `json:"month"`
	TotalTrips      int64                  `json:"totalTrips"`
	TotalBilled     decimal.Decimal        `json:"totalBilled"`
	TotalIncentives decimal.Decimal        `json:"totalIncentives"`
	Clients         []ConsolidatedClientLine `json:"clients"`
}

type ConsolidatedClientLine struct {
	ClientID     types.ID        `json:"clientId"`
	Trips        int64           `json:"trips"`
	Billed       decimal.Decimal `json:"billed"`
	ShareOfSpend int64           `json:"shareOfSpendPct"`
}
