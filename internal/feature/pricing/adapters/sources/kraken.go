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

const krakenDefaultBaseURL = "https://api.kraken.com"

// Kraken fetches the XBT/USD ticker from the Kraken public API.
type Kraken struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

var _ Source = (*Kraken)(nil)

// NewKraken creates a Kraken adapter.
func NewKraken(baseURL string, client *http.Client, limiter *rate.Limiter) *Kraken {
	if baseURL == "" {
		baseURL = krakenDefaultBaseURL
	}
	return &Kraken{baseURL: baseURL, client: client, limiter: limiter}
}

func (k *Kraken) Name() string { return "Kraken" }

// krakenTickerResponse is the /0/public/Ticker payload. The result is keyed
// by Kraken's internal pair name ("XXBTZUSD"), so the map is ranged rather
// than indexed. "c" holds [last trade price, lot volume].
type krakenTickerResponse struct {
	Error  []string `json:"error"`
	Result map[string]struct {
		Close []string `json:"c"`
	} `json:"result"`
}

// FetchQuote returns the current BTC/USD quote.
func (k *Kraken) FetchQuote(ctx context.Context) (entity.Quote, error) {
	u := fmt.Sprintf("%s/0/public/Ticker?pair=XBTUSD", k.baseURL)

	var body krakenTickerResponse
	if err := getJSON(ctx, k.client, k.limiter, u, &body); err != nil {
		return entity.Quote{}, fmt.Errorf("kraken: %w", err)
	}
	if len(body.Error) > 0 {
		return entity.Quote{}, fmt.Errorf("kraken: %w: api error %v", domain.ErrSourceUnavailable, body.Error)
	}

	for _, pair := range body.Result {
		if len(pair.Close) == 0 {
			break
		}
		p, err := strconv.ParseFloat(pair.Close[0], 64)
		if err != nil {
			return entity.Quote{}, fmt.Errorf("kraken: %w: parse price %q: %v", domain.ErrInvalidQuote, pair.Close[0], err)
		}
		return quoteOf(k.Name(), p, entity.USD)
	}
	return entity.Quote{}, fmt.Errorf("kraken: %w: empty ticker result", domain.ErrInvalidQuote)
}
