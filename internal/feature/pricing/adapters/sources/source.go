// Package sources implements one price adapter per exchange. Each adapter
// fetches a single BTC quote from its exchange's public endpoint and
// normalizes the exchange-specific response shape into an entity.Quote.
//
// Adapters never share state and never retry internally: a failed fetch is
// reported as-is and the next aggregation cycle acts as the retry.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"arb_backend/internal/feature/pricing/domain"
	"arb_backend/internal/feature/pricing/domain/entity"
)

// Source is one exchange price adapter.
type Source interface {
	// Name identifies the exchange, used in route labels and logs.
	Name() string
	// FetchQuote fetches and normalizes a single price quote. It fails with
	// domain.ErrSourceUnavailable (network/timeout/HTTP error) or
	// domain.ErrInvalidQuote (unusable payload); callers treat both as
	// "this source produced nothing this cycle".
	FetchQuote(ctx context.Context) (entity.Quote, error)
}

// getJSON performs a rate-limited GET against url and decodes the JSON body
// into out, classifying failures into the pricing domain errors.
func getJSON(ctx context.Context, client *http.Client, limiter *rate.Limiter, url string, out any) error {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", domain.ErrSourceUnavailable, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "url", url, "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("%w: http %d", domain.ErrSourceUnavailable, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", domain.ErrInvalidQuote, err)
	}
	return nil
}

// quoteOf validates the parsed price and builds the normalized Quote.
func quoteOf(exchange string, price float64, currency entity.Currency) (entity.Quote, error) {
	if price <= 0 {
		return entity.Quote{}, fmt.Errorf("%w: %s returned non-positive price %v", domain.ErrInvalidQuote, exchange, price)
	}
	return entity.Quote{
		Exchange:   exchange,
		Price:      price,
		Currency:   currency,
		ObservedAt: time.Now(),
	}, nil
}
