// Package domain defines domain-level errors for the currency feature.
package domain

import "errors"

// Domain errors for currency operations.
var (
	// ErrInvalidInput indicates a malformed currency code or a non-positive amount.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCurrencyNotFound indicates that the provider has no quote for the requested pair.
	ErrCurrencyNotFound = errors.New("exchange rate not found")

	// ErrUpstreamRejected indicates that the provider answered but refused the request,
	// typically because a currency code is unknown to it.
	ErrUpstreamRejected = errors.New("currency API error")

	// ErrUpstreamUnavailable indicates a transport failure, an HTTP error status, or an undecodable body.
	ErrUpstreamUnavailable = errors.New("external API error")

	// ErrUpstreamTimeout indicates that the provider did not answer within the configured timeout.
	ErrUpstreamTimeout = errors.New("external API timeout")
)
