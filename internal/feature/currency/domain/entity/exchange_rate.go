// Package entity defines the domain entities for the currency feature.
package entity

import "github.com/shopspring/decimal"

// ExchangeRate is the price of one unit of From expressed in To.
type ExchangeRate struct {
	From string
	To   string
	Rate decimal.Decimal
}

// Conversion is the result of converting Amount of From into To.
// ConvertedAmount is rounded to two decimal places.
type Conversion struct {
	From            string
	To              string
	Amount          decimal.Decimal
	Rate            decimal.Decimal
	ConvertedAmount decimal.Decimal
}
