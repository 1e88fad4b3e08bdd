// Package entity defines the domain models for the pricing feature.
package entity

import "time"

// Currency identifies the currency a price is denominated in.
type Currency string

const (
	// USD is the quote currency used by international exchanges.
	USD Currency = "USD"
	// ZAR is the quote currency used by South African exchanges.
	ZAR Currency = "ZAR"
)

// Quote is a single BTC price observation from one exchange.
type Quote struct {
	Exchange   string    // Exchange name (e.g., "Binance", "VALR")
	Price      float64   // Last traded price, always positive
	Currency   Currency  // Currency the price is denominated in
	ObservedAt time.Time // When the quote was fetched
}

// FxRate is the USD→ZAR conversion rate used to normalize
// international quotes before spread computation.
type FxRate struct {
	Rate       float64   // ZAR per 1 USD, always positive
	ObservedAt time.Time // When the rate was fetched
}
