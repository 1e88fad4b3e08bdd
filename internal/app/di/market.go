// Package di provides dependency injection factories for creating application components.
package di

import (
	"os"
	"time"

	"golang.org/x/time/rate"

	"arb_backend/internal/feature/pricing/adapters"
	"arb_backend/internal/feature/pricing/adapters/sources"
	infrahttp "arb_backend/internal/platform/http"
)

// sourceRequestsPerSecond bounds how often one exchange endpoint is hit.
// Every public API used here allows at least 1 req/s for ticker data.
const sourceRequestsPerSecond = 1

// NewMarket creates the fully configured Market with all exchange adapters
// sharing one tuned HTTP client. Base URLs default to the production
// endpoints and can be overridden via environment variables.
func NewMarket() *adapters.Market {
	client := infrahttp.NewHTTPClient(sources.DefaultFetchTimeout)

	limiter := func() *rate.Limiter {
		return rate.NewLimiter(rate.Limit(sourceRequestsPerSecond), 1)
	}

	international := []sources.Source{
		sources.NewBinance(os.Getenv("BINANCE_BASE_URL"), client, limiter()),
		sources.NewKraken(os.Getenv("KRAKEN_BASE_URL"), client, limiter()),
		sources.NewBitfinex(os.Getenv("BITFINEX_BASE_URL"), client, limiter()),
	}
	local := []sources.Source{
		sources.NewVALR(os.Getenv("VALR_BASE_URL"), client, limiter()),
		sources.NewLuno(os.Getenv("LUNO_BASE_URL"), client, limiter()),
	}

	agg := sources.NewAggregator(sources.DefaultFetchTimeout)
	return adapters.NewMarket(agg, international, local)
}

// NewFxSource creates the USD→ZAR rate adapter. The FX endpoint is polled
// far less often than the price sources (one refresh per cache expiry), so
// a generous limiter burst is unnecessary.
func NewFxSource() *sources.OpenERAPI {
	client := infrahttp.NewHTTPClient(10 * time.Second)
	return sources.NewOpenERAPI(os.Getenv("ER_API_BASE_URL"), client,
		rate.NewLimiter(rate.Limit(sourceRequestsPerSecond), 1))
}
