// Package domain defines domain-level errors for the history feature.
package domain

import "errors"

// Domain errors for historical spread queries.
var (
	// ErrInvalidRange indicates a historical query whose date range is
	// malformed: unknown period label, start after end, or a span beyond
	// the supported maximum. Rejected before any fetch.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrRecordNotFound indicates that no daily spread record exists for
	// the requested (date, route) key.
	ErrRecordNotFound = errors.New("daily spread record not found")
)
