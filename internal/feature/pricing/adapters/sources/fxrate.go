package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"arb_backend/internal/feature/pricing/domain"
	"arb_backend/internal/feature/pricing/domain/entity"
)

const erAPIDefaultBaseURL = "https://open.er-api.com"

// OpenERAPI fetches the USD→ZAR conversion rate from open.er-api.com.
type OpenERAPI struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewOpenERAPI creates the FX rate adapter.
func NewOpenERAPI(baseURL string, client *http.Client, limiter *rate.Limiter) *OpenERAPI {
	if baseURL == "" {
		baseURL = erAPIDefaultBaseURL
	}
	return &OpenERAPI{baseURL: baseURL, client: client, limiter: limiter}
}

// erAPIResponse is the /v6/latest/USD payload.
type erAPIResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// FetchRate returns the current USD→ZAR rate.
func (o *OpenERAPI) FetchRate(ctx context.Context) (entity.FxRate, error) {
	u := fmt.Sprintf("%s/v6/latest/USD", o.baseURL)

	var body erAPIResponse
	if err := getJSON(ctx, o.client, o.limiter, u, &body); err != nil {
		return entity.FxRate{}, fmt.Errorf("er-api: %w", err)
	}
	if body.Result != "success" {
		return entity.FxRate{}, fmt.Errorf("er-api: %w: result %q", domain.ErrSourceUnavailable, body.Result)
	}

	zar, ok := body.Rates["ZAR"]
	if !ok || zar <= 0 {
		return entity.FxRate{}, fmt.Errorf("er-api: %w: missing or non-positive ZAR rate", domain.ErrInvalidQuote)
	}
	return entity.FxRate{Rate: zar, ObservedAt: time.Now()}, nil
}
