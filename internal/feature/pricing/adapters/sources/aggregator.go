package sources

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"arb_backend/internal/feature/pricing/domain/entity"
)

// DefaultFetchTimeout bounds one adapter call. Expiry is reported by the
// adapter as ErrSourceUnavailable and the source sits the cycle out.
const DefaultFetchTimeout = 5 * time.Second

// fetchResult is one adapter's settled outcome: either a quote or an error,
// never both dropped silently.
type fetchResult struct {
	source string
	quote  entity.Quote
	err    error
}

// Aggregator fans out to every source in a group concurrently and joins
// with settle-all semantics: each outcome is collected, failures are logged
// with the source's identity and excluded, and the group fetch itself never
// fails. Zero usable quotes yields an empty slice, which downstream treats
// as a degraded but valid state.
type Aggregator struct {
	timeout time.Duration
}

// NewAggregator creates an Aggregator. A non-positive timeout selects
// DefaultFetchTimeout.
func NewAggregator(timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Aggregator{timeout: timeout}
}

// FetchGroup fetches quotes from all sources in parallel and returns the
// ones that succeeded, in source order.
//
// Each call runs on a context detached from the caller: if the triggering
// request is aborted mid-cycle, in-flight fetches still complete within the
// timeout so their results can populate the cache for the next read.
func (a *Aggregator) FetchGroup(ctx context.Context, group string, srcs []Source) []entity.Quote {
	results := make([]fetchResult, len(srcs))

	var wg sync.WaitGroup
	for i, s := range srcs {
		wg.Add(1)
		go func(i int, s Source) {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
			defer cancel()
			q, err := s.FetchQuote(fctx)
			results[i] = fetchResult{source: s.Name(), quote: q, err: err}
		}(i, s)
	}
	wg.Wait()

	quotes := make([]entity.Quote, 0, len(srcs))
	for _, r := range results {
		if r.err != nil {
			slog.Warn("price source excluded from cycle",
				"group", group, "source", r.source, "error", r.err)
			continue
		}
		quotes = append(quotes, r.quote)
	}

	if len(quotes) == 0 {
		slog.Warn("no price source produced a usable quote", "group", group)
	}
	return quotes
}
