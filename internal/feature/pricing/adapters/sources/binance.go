package sources

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"arb_backend/internal/feature/pricing/domain"
	"arb_backend/internal/feature/pricing/domain/entity"
)

const binanceDefaultBaseURL = "https://api.binance.com"

// Binance fetches the BTCUSDT last price from the Binance public API.
type Binance struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

var _ Source = (*Binance)(nil)

// NewBinance creates a Binance adapter. An empty baseURL selects the
// production endpoint; tests point it at a local server.
func NewBinance(baseURL string, client *http.Client, limiter *rate.Limiter) *Binance {
	if baseURL == "" {
		baseURL = binanceDefaultBaseURL
	}
	return &Binance{baseURL: baseURL, client: client, limiter: limiter}
}

func (b *Binance) Name() string { return "Binance" }

// binanceTickerResponse is the /api/v3/ticker/price payload.
type binanceTickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// FetchQuote returns the current BTC/USD quote.
func (b *Binance) FetchQuote(ctx context.Context) (entity.Quote, error) {
	u := fmt.Sprintf("%s/api/v3/ticker/price?symbol=BTCUSDT", b.baseURL)

	var body binanceTickerResponse
	if err := getJSON(ctx, b.client, b.limiter, u, &body); err != nil {
		return entity.Quote{}, fmt.Errorf("binance: %w", err)
	}
	if body.Price == "" {
		return entity.Quote{}, fmt.Errorf("binance: %w: missing price field", domain.ErrInvalidQuote)
	}

	p, err := strconv.ParseFloat(body.Price, 64)
	if err != nil {
		return entity.Quote{}, fmt.Errorf("binance: %w: parse price %q: %v", domain.ErrInvalidQuote, body.Price, err)
	}
	return quoteOf(b.Name(), p, entity.USD)
}
