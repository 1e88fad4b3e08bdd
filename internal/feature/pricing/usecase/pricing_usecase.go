package usecase

import (
	"context"
	"fmt"
	"time"

	"arb_backend/internal/feature/pricing/domain"
	"arb_backend/internal/feature/pricing/domain/entity"
	"arb_backend/internal/platform/cache"
)

// 取引所グループごとのキャッシュキー。リテラル文字列をコード中に散らさず、
// ここで一元管理します。
const (
	// KeyInternationalPrices は国際取引所（USD建て）グループのキャッシュキーです。
	KeyInternationalPrices cache.Key = "international-prices"
	// KeyLocalPrices は国内取引所（ZAR建て）グループのキャッシュキーです。
	KeyLocalPrices cache.Key = "local-prices"
	// KeyExchangeRate はUSD→ZAR為替レートのキャッシュキーです。
	KeyExchangeRate cache.Key = "exchange-rate"
)

// CacheTTL は繰り返しポーリング時の上流呼び出し量を抑えるためのキャッシュ有効期間です。
const CacheTTL = 30 * time.Second

// recordTimeout はfire-and-forgetのスプレッド記録に与える猶予時間です。
const recordTimeout = 10 * time.Second

// QuoteFetcher は取引所グループから現在の気配値を収集するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
// 実装はsettle-allセマンティクスを持ち、失敗したソースを除外した結果を返します。
type QuoteFetcher interface {
	FetchInternational(ctx context.Context) []entity.Quote
	FetchLocal(ctx context.Context) []entity.Quote
}

// RateFetcher はUSD→ZAR為替レートを取得するインターフェースです。
type RateFetcher interface {
	FetchRate(ctx context.Context) (entity.FxRate, error)
}

// SpreadRecorder は観測された裁定機会をルート別日次統計へ記録するインターフェースです。
// 記録はベストエフォートのテレメトリであり、エラーは実装側でログに落とします。
type SpreadRecorder interface {
	Record(ctx context.Context, route, buyExchange, sellExchange string, spreadPercent float64)
}

// PricingUsecase は価格更新サイクル全体（為替レート、国際・国内気配値の取得、
// 裁定機会の計算、スプレッド統計への記録）を調整します。
type PricingUsecase struct {
	quotes   QuoteFetcher
	fx       RateFetcher
	recorder SpreadRecorder

	quoteCache *cache.RateLimitedCache[[]entity.Quote]
	fxCache    *cache.RateLimitedCache[entity.FxRate]
}

// NewPricingUsecase はPricingUsecaseの新しいインスタンスを生成します。
// recorderはnilでも動作します（記録なし）。
func NewPricingUsecase(quotes QuoteFetcher, fx RateFetcher, recorder SpreadRecorder) *PricingUsecase {
	return &PricingUsecase{
		quotes:     quotes,
		fx:         fx,
		recorder:   recorder,
		quoteCache: cache.NewRateLimitedCache[[]entity.Quote](),
		fxCache:    cache.NewRateLimitedCache[entity.FxRate](),
	}
}

// GetCurrentOpportunities は1回分の価格更新サイクルを実行し、スプレッド率の
// 降順でランク付けされた裁定機会を返します。副作用として、各機会を
// SpreadRecorderへ非同期に記録します（レスポンスはその完了を待ちません）。
//
// 為替レートがキャッシュにも存在しない場合のみdomain.ErrNoFxRateを返します。
// 気配値の取得失敗はエラーにならず、機会が減るだけです。
func (u *PricingUsecase) GetCurrentOpportunities(ctx context.Context) ([]entity.Opportunity, error) {
	fx, err := u.fxCache.Get(ctx, KeyExchangeRate, CacheTTL, u.fx.FetchRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoFxRate, err)
	}

	// グループ取得は失敗をソース除外として吸収済みなのでエラーを返さない
	international, _ := u.quoteCache.Get(ctx, KeyInternationalPrices, CacheTTL,
		func(ctx context.Context) ([]entity.Quote, error) {
			return u.quotes.FetchInternational(ctx), nil
		})
	local, _ := u.quoteCache.Get(ctx, KeyLocalPrices, CacheTTL,
		func(ctx context.Context) ([]entity.Quote, error) {
			return u.quotes.FetchLocal(ctx), nil
		})

	opps := ComputeOpportunities(international, local, fx.Rate)

	if u.recorder != nil && len(opps) > 0 {
		recorded := make([]entity.Opportunity, len(opps))
		copy(recorded, opps)
		// 記録はリクエストのキャンセルに巻き込まれないよう独立したコンテキストで行う
		go func() {
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
			defer cancel()
			for _, o := range recorded {
				u.recorder.Record(rctx, o.Route, o.BuyExchange, o.SellExchange, o.SpreadPercent)
			}
		}()
	}

	return opps, nil
}

// BestLiveSpread は現在の最良裁定機会のスプレッド率を返します。
// 履歴リゾルバが合成データの基準値として参照します。上流障害で機会が
// 得られない場合はエラーを返し、機会がひとつもない場合は0を返します
// （リゾルバ側がそれぞれ固定ベースラインにフォールバックします）。
func (u *PricingUsecase) BestLiveSpread(ctx context.Context) (float64, error) {
	opps, err := u.GetCurrentOpportunities(ctx)
	if err != nil {
		return 0, err
	}
	if len(opps) == 0 {
		return 0, nil
	}
	return opps[0].SpreadPercent, nil
}
