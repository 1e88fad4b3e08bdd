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

const lunoDefaultBaseURL = "https://api.luno.com"

// Luno fetches the XBTZAR ticker from the Luno public API.
type Luno struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

var _ Source = (*Luno)(nil)

// NewLuno creates a Luno adapter.
func NewLuno(baseURL string, client *http.Client, limiter *rate.Limiter) *Luno {
	if baseURL == "" {
		baseURL = lunoDefaultBaseURL
	}
	return &Luno{baseURL: baseURL, client: client, limiter: limiter}
}

func (l *Luno) Name() string { return "Luno" }

// lunoTickerResponse is the /api/1/ticker payload.
type lunoTickerResponse struct {
	Pair      string `json:"pair"`
	LastTrade string `json:"last_trade"`
}

// FetchQuote returns the current BTC/ZAR quote.
func (l *Luno) FetchQuote(ctx context.Context) (entity.Quote, error) {
	u := fmt.Sprintf("%s/api/1/ticker?pair=XBTZAR", l.baseURL)

	var body lunoTickerResponse
	if err := getJSON(ctx, l.client, l.limiter, u, &body); err != nil {
		return entity.Quote{}, fmt.Errorf("luno: %w", err)
	}
	if body.LastTrade == "" {
		return entity.Quote{}, fmt.Errorf("luno: %w: missing last_trade field", domain.ErrInvalidQuote)
	}

	p, err := strconv.ParseFloat(body.LastTrade, 64)
	if err != nil {
		return entity.Quote{}, fmt.Errorf("luno: %w: parse price %q: %v", domain.ErrInvalidQuote, body.LastTrade, err)
	}
	return quoteOf(l.Name(), p, entity.ZAR)
}
