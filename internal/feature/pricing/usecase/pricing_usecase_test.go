package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arb_backend/internal/feature/pricing/domain"
	"arb_backend/internal/feature/pricing/domain/entity"
)

// mockQuoteFetcher はQuoteFetcherインターフェースのモック実装です。
type mockQuoteFetcher struct {
	mu                 sync.Mutex
	international      []entity.Quote
	local              []entity.Quote
	internationalCalls int
	localCalls         int
}

func (m *mockQuoteFetcher) FetchInternational(ctx context.Context) []entity.Quote {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.internationalCalls++
	return m.international
}

func (m *mockQuoteFetcher) FetchLocal(ctx context.Context) []entity.Quote {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.localCalls++
	return m.local
}

// mockRateFetcher はRateFetcherインターフェースのモック実装です。
type mockRateFetcher struct {
	mu    sync.Mutex
	rate  entity.FxRate
	err   error
	calls int
}

func (m *mockRateFetcher) FetchRate(ctx context.Context) (entity.FxRate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.rate, m.err
}

// recordedSpread は記録呼び出し1件の内容です。
type recordedSpread struct {
	route         string
	buyExchange   string
	sellExchange  string
	spreadPercent float64
}

// mockRecorder はSpreadRecorderインターフェースのモック実装です。
// 記録はfire-and-forgetのゴルーチンから届くため、チャネルで受け取ります。
type mockRecorder struct {
	records chan recordedSpread
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{records: make(chan recordedSpread, 64)}
}

func (m *mockRecorder) Record(ctx context.Context, route, buyExchange, sellExchange string, spreadPercent float64) {
	m.records <- recordedSpread{route, buyExchange, sellExchange, spreadPercent}
}

func (m *mockRecorder) wait(t *testing.T, n int) []recordedSpread {
	t.Helper()
	out := make([]recordedSpread, 0, n)
	for len(out) < n {
		select {
		case r := <-m.records:
			out = append(out, r)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %d records, got %d", n, len(out))
		}
	}
	return out
}

// TestPricingUsecase_GetCurrentOpportunities は1サイクル分の機会計算と記録を検証します。
func TestPricingUsecase_GetCurrentOpportunities(t *testing.T) {
	t.Parallel()

	quotes := &mockQuoteFetcher{
		international: []entity.Quote{quote("Binance", 60000, entity.USD)},
		local:         []entity.Quote{quote("VALR", 1150000, entity.ZAR)},
	}
	fx := &mockRateFetcher{rate: entity.FxRate{Rate: 19.0, ObservedAt: time.Now()}}
	recorder := newMockRecorder()

	uc := NewPricingUsecase(quotes, fx, recorder)

	opps, err := uc.GetCurrentOpportunities(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "Binance → VALR", opps[0].Route)

	recs := recorder.wait(t, 1)
	assert.Equal(t, "Binance → VALR", recs[0].route)
	assert.Equal(t, "Binance", recs[0].buyExchange)
	assert.Equal(t, "VALR", recs[0].sellExchange)
	assert.InDelta(t, opps[0].SpreadPercent, recs[0].spreadPercent, 1e-9)
}

// TestPricingUsecase_NoFxRate は為替レートが一切得られない場合にErrNoFxRateを返すことを検証します。
func TestPricingUsecase_NoFxRate(t *testing.T) {
	t.Parallel()

	quotes := &mockQuoteFetcher{}
	fx := &mockRateFetcher{err: errors.New("er-api down")}

	uc := NewPricingUsecase(quotes, fx, nil)

	_, err := uc.GetCurrentOpportunities(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoFxRate)
}

// TestPricingUsecase_StaleFxRateSurvivesOutage はキャッシュ済みレートがあれば
// FXソース障害中もサイクルが成功することを検証します。
func TestPricingUsecase_StaleFxRateSurvivesOutage(t *testing.T) {
	t.Parallel()

	quotes := &mockQuoteFetcher{
		international: []entity.Quote{quote("Binance", 60000, entity.USD)},
		local:         []entity.Quote{quote("VALR", 1150000, entity.ZAR)},
	}
	fx := &mockRateFetcher{rate: entity.FxRate{Rate: 19.0, ObservedAt: time.Now()}}

	uc := NewPricingUsecase(quotes, fx, nil)

	_, err := uc.GetCurrentOpportunities(context.Background())
	require.NoError(t, err)

	// 以後FXソースが落ちてもキャッシュ内のレートで続行できる
	fx.mu.Lock()
	fx.err = errors.New("er-api down")
	fx.mu.Unlock()

	opps, err := uc.GetCurrentOpportunities(context.Background())
	require.NoError(t, err)
	assert.Len(t, opps, 1)
}

// TestPricingUsecase_CachesGroupFetches はTTL内の連続呼び出しで上流フェッチが
// 1回に抑えられることを検証します。
func TestPricingUsecase_CachesGroupFetches(t *testing.T) {
	t.Parallel()

	quotes := &mockQuoteFetcher{
		international: []entity.Quote{quote("Binance", 60000, entity.USD)},
		local:         []entity.Quote{quote("VALR", 1150000, entity.ZAR)},
	}
	fx := &mockRateFetcher{rate: entity.FxRate{Rate: 19.0, ObservedAt: time.Now()}}

	uc := NewPricingUsecase(quotes, fx, nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := uc.GetCurrentOpportunities(ctx)
		require.NoError(t, err)
	}

	quotes.mu.Lock()
	defer quotes.mu.Unlock()
	assert.Equal(t, 1, quotes.internationalCalls)
	assert.Equal(t, 1, quotes.localCalls)
	fx.mu.Lock()
	defer fx.mu.Unlock()
	assert.Equal(t, 1, fx.calls)
}

// TestPricingUsecase_NoQuotesIsDegradedNotFatal は気配値ゼロでも空の結果が
// エラーなしで返ることを検証します。
func TestPricingUsecase_NoQuotesIsDegradedNotFatal(t *testing.T) {
	t.Parallel()

	quotes := &mockQuoteFetcher{} // 両グループとも空
	fx := &mockRateFetcher{rate: entity.FxRate{Rate: 19.0, ObservedAt: time.Now()}}

	uc := NewPricingUsecase(quotes, fx, nil)

	opps, err := uc.GetCurrentOpportunities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, opps)
}

// TestPricingUsecase_BestLiveSpread はBestLiveSpreadの3状態
// （最良値あり / 機会なし / 上流障害）を検証します。
func TestPricingUsecase_BestLiveSpread(t *testing.T) {
	t.Parallel()

	t.Run("best value available", func(t *testing.T) {
		t.Parallel()
		quotes := &mockQuoteFetcher{
			international: []entity.Quote{quote("Binance", 60000, entity.USD)},
			local:         []entity.Quote{quote("VALR", 1150000, entity.ZAR)},
		}
		fx := &mockRateFetcher{rate: entity.FxRate{Rate: 19.0, ObservedAt: time.Now()}}
		uc := NewPricingUsecase(quotes, fx, nil)

		v, err := uc.BestLiveSpread(context.Background())
		require.NoError(t, err)
		assert.InDelta(t, 0.877, v, 0.001)
	})

	t.Run("no opportunities", func(t *testing.T) {
		t.Parallel()
		fx := &mockRateFetcher{rate: entity.FxRate{Rate: 19.0, ObservedAt: time.Now()}}
		uc := NewPricingUsecase(&mockQuoteFetcher{}, fx, nil)

		v, err := uc.BestLiveSpread(context.Background())
		require.NoError(t, err)
		assert.Zero(t, v)
	})

	t.Run("upstream failure", func(t *testing.T) {
		t.Parallel()
		fx := &mockRateFetcher{err: errors.New("er-api down")}
		uc := NewPricingUsecase(&mockQuoteFetcher{}, fx, nil)

		_, err := uc.BestLiveSpread(context.Background())
		assert.ErrorIs(t, err, domain.ErrNoFxRate)
	})
}
