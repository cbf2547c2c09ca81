// README: Common money helpers used across modules.
package types

import "github.com/shopspring/decimal"

// All monetary values are plain decimals in the platform's base currency
// unit; the platform is single-currency so no currency code travels with
// the amount.

// RoundMoney rounds an amount to two decimal places, half up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

var sixty = decimal.NewFromInt(60)

// BillableHours converts extra minutes into whole billable hours.
// Partial hours always round up: 1..60 minutes is one hour, 61..120 two.
// Non-positive input bills zero hours.
func BillableHours(extraMinutes decimal.Decimal) decimal.Decimal {
	if !extraMinutes.IsPositive() {
		return decimal.Zero
	}
	return extraMinutes.Div(sixty).Ceil()
}
