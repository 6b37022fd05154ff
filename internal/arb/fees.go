package arb

import "github.com/shopspring/decimal"

// kalshiTakerCoefficient is the published Kalshi taker fee schedule:
// ceil(0.07 * contracts * price * (1 - price)) in cents.
var kalshiTakerCoefficient = decimal.NewFromFloat(0.07)

var cents = decimal.NewFromInt(100)

// KalshiTakerFee estimates the taker fee in dollars for buying qty
// contracts at the given price, rounded up to the next cent.
func KalshiTakerFee(qty, price decimal.Decimal) decimal.Decimal {
	raw := kalshiTakerCoefficient.Mul(qty).Mul(price).Mul(one.Sub(price))
	return raw.Mul(cents).Ceil().Div(cents)
}

// PolymarketTakerFee is zero on the venue's CLOB; kept so fee handling is
// symmetric if that changes.
func PolymarketTakerFee(qty, price decimal.Decimal) decimal.Decimal {
	_ = qty
	_ = price
	return decimal.Zero
}
