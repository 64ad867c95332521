// Package dto defines data transfer objects for the currency feature's HTTP transport layer.
package dto

import "github.com/shopspring/decimal"

// ConvertReq represents the JSON body of the /currency/convert endpoint.
// Amount may be a JSON number or a numeric string; when omitted it defaults to 1.
type ConvertReq struct {
	FromCurrency string           `json:"from_currency" binding:"required"`
	ToCurrency   string           `json:"to_currency" binding:"required"`
	Amount       *decimal.Decimal `json:"amount"`
}

// ExchangeRateResponse is returned by /currency/exchange.
// Decimal values are serialized as strings so no precision is lost.
type ExchangeRateResponse struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	ExchangeRate string `json:"exchange_rate"`
}

// ConversionResponse is returned by /currency/convert.
// ConvertedAmount always has exactly two decimal places.
type ConversionResponse struct {
	FromCurrency    string `json:"from_currency"`
	ToCurrency      string `json:"to_currency"`
	Amount          string `json:"amount"`
	ConvertedAmount string `json:"converted_amount"`
	ExchangeRate    string `json:"exchange_rate"`
}

// CurrencyListResponse is returned by /currency/list.
type CurrencyListResponse struct {
	Currencies map[string]string `json:"currencies"`
}
