// Package dto defines data transfer objects for the apilayer currency_data responses.
package dto

import "github.com/shopspring/decimal"

// Envelope is the part shared by every currency_data response.
// A request the provider refuses is answered with HTTP 200 and Success false.
type Envelope struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError describes why the provider refused a request.
type APIError struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

// LiveResponse represents the JSON response from the /live endpoint.
// Quotes are keyed by the concatenated pair, e.g. "USDEUR".
type LiveResponse struct {
	Envelope
	Timestamp int64                      `json:"timestamp"`
	Source    string                     `json:"source"`
	Quotes    map[string]decimal.Decimal `json:"quotes"`
}

// ListResponse represents the JSON response from the /list endpoint.
type ListResponse struct {
	Envelope
	Currencies map[string]string `json:"currencies"`
}
