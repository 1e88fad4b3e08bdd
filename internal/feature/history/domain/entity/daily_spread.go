// Package entity defines the domain models for the history feature.
package entity

import "time"

// DailySpreadRecord holds the running spread statistics for one arbitrage
// route on one calendar day. One record exists per (date, route); it is
// created on the first observation of the day and mutated additively by
// every later observation.
//
// Invariant: LowestSpread ≤ HighestSpread, and AverageSpread is the running
// mean over DataPoints observations (updated incrementally, never by
// replaying history).
type DailySpreadRecord struct {
	Date          time.Time // Calendar day, truncated to midnight UTC
	Route         string    // "Buy → Sell" label, e.g. "Binance → VALR"
	BuyExchange   string    // International exchange of the route
	SellExchange  string    // Local exchange of the route
	HighestSpread float64   // Highest spread percentage seen this day
	LowestSpread  float64   // Lowest spread percentage seen this day
	AverageSpread float64   // Running mean spread percentage
	DataPoints    int64     // Number of observations folded in, ≥ 1
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
