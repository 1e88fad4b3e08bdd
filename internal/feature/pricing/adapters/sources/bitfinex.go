package sources

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"arb_backend/internal/feature/pricing/domain"
	"arb_backend/internal/feature/pricing/domain/entity"
)

const bitfinexDefaultBaseURL = "https://api-pub.bitfinex.com"

// bitfinexLastPriceIndex is the position of LAST_PRICE in the v2 ticker
// array ([BID, BID_SIZE, ASK, ASK_SIZE, DAILY_CHANGE, DAILY_CHANGE_REL,
// LAST_PRICE, VOLUME, HIGH, LOW]).
const bitfinexLastPriceIndex = 6

// Bitfinex fetches the tBTCUSD ticker from the Bitfinex public v2 API,
// which responds with a bare JSON array instead of an object.
type Bitfinex struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

var _ Source = (*Bitfinex)(nil)

// NewBitfinex creates a Bitfinex adapter.
func NewBitfinex(baseURL string, client *http.Client, limiter *rate.Limiter) *Bitfinex {
	if baseURL == "" {
		baseURL = bitfinexDefaultBaseURL
	}
	return &Bitfinex{baseURL: baseURL, client: client, limiter: limiter}
}

func (b *Bitfinex) Name() string { return "Bitfinex" }

// FetchQuote returns the current BTC/USD quote.
func (b *Bitfinex) FetchQuote(ctx context.Context) (entity.Quote, error) {
	u := fmt.Sprintf("%s/v2/ticker/tBTCUSD", b.baseURL)

	var body []float64
	if err := getJSON(ctx, b.client, b.limiter, u, &body); err != nil {
		return entity.Quote{}, fmt.Errorf("bitfinex: %w", err)
	}
	if len(body) <= bitfinexLastPriceIndex {
		return entity.Quote{}, fmt.Errorf("bitfinex: %w: ticker array has %d fields", domain.ErrInvalidQuote, len(body))
	}
	return quoteOf(b.Name(), body[bitfinexLastPriceIndex], entity.USD)
}
