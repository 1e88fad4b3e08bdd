// Package adapters wires the per-exchange price sources into the two
// adapter groups the pricing usecase consumes.
package adapters

import (
	"context"

	"arb_backend/internal/feature/pricing/adapters/sources"
	"arb_backend/internal/feature/pricing/domain/entity"
)

// Group labels used for logging and as cache keys.
const (
	GroupInternational = "international-prices"
	GroupLocal         = "local-prices"
)

// Market exposes the configured international (USD) and local (ZAR)
// source groups through the aggregator's settle-all fetch.
type Market struct {
	agg           *sources.Aggregator
	international []sources.Source
	local         []sources.Source
}

// NewMarket creates a Market over the given source groups.
func NewMarket(agg *sources.Aggregator, international, local []sources.Source) *Market {
	return &Market{agg: agg, international: international, local: local}
}

// FetchInternational returns whatever USD quotes the international group
// produced this cycle; failed sources are excluded, never fatal.
func (m *Market) FetchInternational(ctx context.Context) []entity.Quote {
	return m.agg.FetchGroup(ctx, GroupInternational, m.international)
}

// FetchLocal returns whatever ZAR quotes the local group produced this cycle.
func (m *Market) FetchLocal(ctx context.Context) []entity.Quote {
	return m.agg.FetchGroup(ctx, GroupLocal, m.local)
}
