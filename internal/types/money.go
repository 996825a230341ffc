// README: Money helpers shared by the cost and pricing modules.
package types

import "math"

const CurrencyEUR = "EUR"

type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func EUR(amount float64) Money {
	return Money{Amount: Round2(amount), Currency: CurrencyEUR}
}

// Round2 rounds half away from zero to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
