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

const valrDefaultBaseURL = "https://api.valr.com"

// VALR fetches the BTCZAR market summary from the VALR public API.
type VALR struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

var _ Source = (*VALR)(nil)

// NewVALR creates a VALR adapter.
func NewVALR(baseURL string, client *http.Client, limiter *rate.Limiter) *VALR {
	if baseURL == "" {
		baseURL = valrDefaultBaseURL
	}
	return &VALR{baseURL: baseURL, client: client, limiter: limiter}
}

func (v *VALR) Name() string { return "VALR" }

// valrMarketSummaryResponse is the /v1/public/:pair/marketsummary payload.
type valrMarketSummaryResponse struct {
	CurrencyPair    string `json:"currencyPair"`
	LastTradedPrice string `json:"lastTradedPrice"`
}

// FetchQuote returns the current BTC/ZAR quote.
func (v *VALR) FetchQuote(ctx context.Context) (entity.Quote, error) {
	u := fmt.Sprintf("%s/v1/public/BTCZAR/marketsummary", v.baseURL)

	var body valrMarketSummaryResponse
	if err := getJSON(ctx, v.client, v.limiter, u, &body); err != nil {
		return entity.Quote{}, fmt.Errorf("valr: %w", err)
	}
	if body.LastTradedPrice == "" {
		return entity.Quote{}, fmt.Errorf("valr: %w: missing lastTradedPrice field", domain.ErrInvalidQuote)
	}

	p, err := strconv.ParseFloat(body.LastTradedPrice, 64)
	if err != nil {
		return entity.Quote{}, fmt.Errorf("valr: %w: parse price %q: %v", domain.ErrInvalidQuote, body.LastTradedPrice, err)
	}
	return quoteOf(v.Name(), p, entity.ZAR)
}
