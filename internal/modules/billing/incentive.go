// README: Per-trip employee incentive breakdown.
package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"commutebill/internal/config"
	"commutebill/internal/modules/catalog"
	"commutebill/internal/modules/usage"
	"commutebill/internal/types"
)

// TripIncentive is what a single trip earned its employee. The extra-hours
// component follows the same ceiling rule as billing; night and weekend
// bonuses are flat per-trip amounts.
type TripIncentive struct {
	TripID       types.ID        `json:"tripId"`
	StartTime    time.Time       `json:"startTime"`
	DistanceKm   decimal.Decimal `json:"distanceKm"`
	ExtraMinutes decimal.Decimal `json:"extraMinutes"`

	ExtraHourIncentive decimal.Decimal `json:"extraHourIncentive"`
	NightBonus         decimal.Decimal `json:"nightBonus"`
	WeekendBonus       decimal.Decimal `json:"weekendBonus"`
	Total              decimal.Decimal `json:"total"`
}

// IncentiveForTrip prices one trip's incentive against the standard
// allowance of the model covering it. Trips starting 18:00-05:59 earn the
// night bonus; Saturday and Sunday trips earn the weekend bonus.
func (c *Calculator) IncentiveForTrip(model *catalog.BillingModel, r usage.TripUsageRecord) TripIncentive {
	allowance := model.Standard.TripHours.Mul(decimal.NewFromInt(60))
	extra := clampZero(decimal.NewFromInt(r.DurationMinutes).Sub(allowance))

	inc := TripIncentive{
		TripID:       r.TripID,
		StartTime:    r.StartTime,
		DistanceKm:   r.DistanceKm,
		ExtraMinutes: extra,

		ExtraHourIncentive: types.BillableHours(extra).Mul(c.cfg.IncentiveRatePerHour),
		NightBonus:         decimal.Zero,
		WeekendBonus:       decimal.Zero,
	}
	if h := r.StartTime.Hour(); h >= 18 || h < 6 {
		inc.NightBonus = c.cfg.NightBonus
	}
	if wd := r.StartTime.Weekday(); wd == time.Saturday || wd == time.Sunday {
		inc.WeekendBonus = c.cfg.WeekendBonus
	}
	inc.Total = inc.ExtraHourIncentive.Add(inc.NightBonus).Add(inc.WeekendBonus)
	return inc
}

// Config exposes the billing constants for collaborators that report them.
func (c *Calculator) Config() config.BillingConfig { return c.cfg }
