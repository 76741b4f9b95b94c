package shared

import "github.com/shopspring/decimal"

// Fixed-point scales for persisted numbers
const (
	QuantityScale int32 = 3
	MoneyScale    int32 = 2
)

// RoundQuantity rounds a stock quantity to its persisted scale
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityScale)
}

// RoundMoney rounds a monetary amount to its persisted scale
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}
