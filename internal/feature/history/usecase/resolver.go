package usecase

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"arb_backend/internal/feature/history/domain/entity"
)

// 履歴合成のチューニング定数。閾値やノイズ幅はダッシュボード表示の
// 見た目を調整したプロダクト値であり、市場モデルに由来するものではありません。
const (
	// coverageThreshold は実データを十分とみなす被覆率（実データのある日数 / 要求日数）です。
	coverageThreshold = 0.3

	// syntheticBaseline はライブの最良スプレッドが0以下・取得不能のときの基準スプレッド率です。
	syntheticBaseline = 0.6
	// fallbackBaseline は上流障害時の簡易ジェネレーターが使う基準スプレッド率です。
	fallbackBaseline = 2.0

	// trendCycleDays は正弦波トレンドの周期（日）です。
	trendCycleDays = 14
	// trendAmplitude は通常ジェネレーターの正弦波振幅です。
	trendAmplitude = 0.25
	// fallbackTrendAmplitude は簡易ジェネレーターのより軽い正弦波振幅です。
	fallbackTrendAmplitude = 0.1

	// dayNoiseBand は日毎シードノイズの全幅（±半分ずつ）です。
	dayNoiseBand = 0.2
	// highNoiseBand は基準値から高値を導く際の上振れ幅です。
	highNoiseBand = 0.3
	// lowNoiseBand は基準値から安値を導く際の下振れ幅です。
	lowNoiseBand = 0.2

	// weekendDamping は土日の市場活動低下を反映する減衰係数（約20%減）です。
	weekendDamping = 0.8

	// minLowSpread は合成安値の下限です。
	minLowSpread = 0.1
	// minSeparation は合成高値と安値の最小差です。
	minSeparation = 0.05

	// repairFloor と repairGap は破損レコード（low ≥ high）の修復値
	// max(repairFloor, high − repairGap) を定義します。
	repairFloor = 0.5
	repairGap   = 0.2
)

// 合成レコードに付与する代表ルート。
const (
	syntheticBuyExchange  = "Binance"
	syntheticSellExchange = "VALR"
	syntheticRoute        = syntheticBuyExchange + " → " + syntheticSellExchange
)

// LiveSpread は現在の最良裁定スプレッド率を提供するインターフェースです。
// エラーは上流障害を意味し、リゾルバは簡易ジェネレーターへフォールバックします。
type LiveSpread interface {
	BestLiveSpread(ctx context.Context) (float64, error)
}

// Resolver は期間指定の履歴スプレッド系列を解決します。保存済みの日次統計を
// 最優先し、実データの被覆率が不足する場合のみシード付き擬似乱数で
// もっともらしい系列を合成します。ダッシュボードは常にチャートを描画できる
// 必要があるため、「実データ不足」はエラーではなく第一級の状態として扱います。
type Resolver struct {
	repo SpreadRepository
	live LiveSpread

	now func() time.Time
}

// NewResolver はResolverの新しいインスタンスを生成します。
func NewResolver(repo SpreadRepository, live LiveSpread) *Resolver {
	return &Resolver{repo: repo, live: live, now: time.Now}
}

// ResolvePeriod は"7d"などの期間ラベルで履歴系列を解決します。
func (r *Resolver) ResolvePeriod(ctx context.Context, period string) ([]entity.DailySpreadRecord, error) {
	from, to, err := PeriodRange(period, r.now())
	if err != nil {
		return nil, err
	}
	return r.resolve(ctx, from, to)
}

// ResolveRange は明示的な日付範囲で履歴系列を解決します。
// 不正な範囲はdomain.ErrInvalidRangeとして取得前に拒否されます。
func (r *Resolver) ResolveRange(ctx context.Context, start, end time.Time) ([]entity.DailySpreadRecord, error) {
	from, to, err := ValidateRange(start, end)
	if err != nil {
		return nil, err
	}
	return r.resolve(ctx, from, to)
}

func (r *Resolver) resolve(ctx context.Context, from, to time.Time) ([]entity.DailySpreadRecord, error) {
	requestedDays := rangeDays(from, to)

	stored, err := r.repo.FindRange(ctx, from, to)
	if err != nil {
		// 取得失敗は被覆率ゼロと同じ扱いで合成系列に落とす
		slog.Error("historical spread fetch failed, synthesizing series", "error", err)
		stored = nil
	}

	coverage := float64(distinctDates(stored)) / float64(requestedDays)
	if len(stored) > 0 && coverage >= coverageThreshold {
		return repairRecords(stored), nil
	}

	return r.synthesize(ctx, from, requestedDays), nil
}

// distinctDates は実データが存在する日数を数えます。
func distinctDates(recs []entity.DailySpreadRecord) int {
	seen := make(map[time.Time]struct{}, len(recs))
	for _, rec := range recs {
		seen[entity.Day(rec.Date)] = struct{}{}
	}
	return len(seen)
}

// repairRecords は返却前にレコードの不変条件を検証し、low ≥ highの破損を
// 局所修復します。これは壊れた入力に対する防御であり、修復は警告ログに残します。
func repairRecords(recs []entity.DailySpreadRecord) []entity.DailySpreadRecord {
	out := make([]entity.DailySpreadRecord, len(recs))
	copy(out, recs)
	for i := range out {
		if out[i].LowestSpread >= out[i].HighestSpread {
			repaired := math.Max(repairFloor, out[i].HighestSpread-repairGap)
			slog.Warn("corrupt stored spread record repaired",
				"date", out[i].Date.Format("2006-01-02"), "route", out[i].Route,
				"lowestSpread", out[i].LowestSpread, "highestSpread", out[i].HighestSpread,
				"repairedLowest", repaired)
			out[i].LowestSpread = repaired
		}
	}
	return out
}

// synthesize は範囲内の各暦日についてレコードを1件ずつ合成します。
// シードは(日インデックス, エポックからの日数)から導出され、同じ日付の
// 再生成は常に同じ値になります（再現可能・非暗号学的）。
func (r *Resolver) synthesize(ctx context.Context, from time.Time, days int) []entity.DailySpreadRecord {
	base := syntheticBaseline
	amplitude := trendAmplitude

	if r.live != nil {
		if live, err := r.live.BestLiveSpread(ctx); err != nil {
			// ライブ価格が取得できない場合でもエラーにはせず、
			// 常に整形式の系列を返す
			slog.Warn("live spread unavailable, using fallback generator", "error", err)
			base = fallbackBaseline
			amplitude = fallbackTrendAmplitude
		} else if live > 0 {
			base = live
		}
	}

	out := make([]entity.DailySpreadRecord, 0, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i)
		rng := rand.New(rand.NewSource(syntheticSeed(i, date)))

		b := base + amplitude*math.Sin(2*math.Pi*float64(i)/trendCycleDays)
		b += (rng.Float64() - 0.5) * dayNoiseBand
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			b *= weekendDamping
		}

		high := b + rng.Float64()*highNoiseBand
		low := math.Max(minLowSpread, b-rng.Float64()*lowNoiseBand)
		if low > high-minSeparation {
			low = high - minSeparation
		}

		out = append(out, entity.DailySpreadRecord{
			Date:          date,
			Route:         syntheticRoute,
			BuyExchange:   syntheticBuyExchange,
			SellExchange:  syntheticSellExchange,
			HighestSpread: high,
			LowestSpread:  low,
			AverageSpread: (high + low) / 2,
			DataPoints:    1,
		})
	}
	return out
}

// syntheticSeed は日インデックスと日付から決定的なシードを導出します。
func syntheticSeed(dayIndex int, date time.Time) int64 {
	daysSinceEpoch := date.Unix() / (24 * 60 * 60)
	return daysSinceEpoch*31 + int64(dayIndex)
}
