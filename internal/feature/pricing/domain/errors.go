// Package domain defines domain-level errors for the pricing feature.
package domain

import "errors"

// Domain errors for price fetching and arbitrage computation.
// These errors represent upstream failures and should be handled appropriately by upper layers.
var (
	// ErrSourceUnavailable indicates that a price source could not be reached
	// (network failure, timeout, or non-2xx HTTP response). The source is
	// simply excluded from the current aggregation cycle.
	ErrSourceUnavailable = errors.New("price source unavailable")

	// ErrInvalidQuote indicates that a price source responded but the payload
	// could not be turned into a usable quote (missing field, non-numeric or
	// non-positive price).
	ErrInvalidQuote = errors.New("invalid quote from price source")

	// ErrNoFxRate indicates that no USD→ZAR rate is available at all, not
	// even a stale cached one. Every spread computation depends on the rate,
	// so this is the one pricing failure surfaced to the caller.
	ErrNoFxRate = errors.New("no exchange rate available")
)
