// Package usecase はスプレッド統計の蓄積と履歴系列の解決を実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"arb_backend/internal/feature/history/domain"
	"arb_backend/internal/feature/history/domain/entity"
)

// SpreadRepository は日次スプレッド統計の永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SpreadRepository interface {
	// FindByDateRoute は(日付, ルート)キーのレコードを返します。
	// 存在しない場合はdomain.ErrRecordNotFoundを返します。
	FindByDateRoute(ctx context.Context, date time.Time, route string) (entity.DailySpreadRecord, error)
	// Save は(日付, ルート)キーでレコードを挿入または更新します。
	Save(ctx context.Context, rec entity.DailySpreadRecord) error
	// FindRange は日付がfrom以上to以下のレコードをすべて返します。
	FindRange(ctx context.Context, from, to time.Time) ([]entity.DailySpreadRecord, error)
}

// Accumulator は観測された裁定機会をルート別日次統計へオンラインで畳み込みます。
// 1観測あたりO(1)で、履歴の再スキャンは行いません。
type Accumulator struct {
	repo SpreadRepository

	// mu はread-modify-writeサイクルを直列化します。
	mu sync.Mutex

	// now はテストで固定するために差し替え可能にしてあります。
	now func() time.Time
}

// NewAccumulator はAccumulatorの新しいインスタンスを生成します。
func NewAccumulator(repo SpreadRepository) *Accumulator {
	return &Accumulator{repo: repo, now: time.Now}
}

// Record はスプレッド率の観測を(今日, route)のレコードへ畳み込みます。
// レコードがなければ初期値で作成し、あれば最高値・最低値・移動平均・
// 観測数を更新します。
//
// 記録はベストエフォートのテレメトリであり、永続化の失敗はログに出力する
// だけで呼び出し元には伝播しません。
func (a *Accumulator) Record(ctx context.Context, route, buyExchange, sellExchange string, spreadPercent float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	date := entity.Day(a.now())

	rec, err := a.repo.FindByDateRoute(ctx, date, route)
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		rec = entity.DailySpreadRecord{
			Date:          date,
			Route:         route,
			BuyExchange:   buyExchange,
			SellExchange:  sellExchange,
			HighestSpread: spreadPercent,
			LowestSpread:  spreadPercent,
			AverageSpread: spreadPercent,
			DataPoints:    1,
		}
	case err != nil:
		slog.Error("spread record lookup failed", "route", route, "date", date, "error", err)
		return
	default:
		if spreadPercent > rec.HighestSpread {
			rec.HighestSpread = spreadPercent
		}
		if spreadPercent < rec.LowestSpread {
			rec.LowestSpread = spreadPercent
		}
		n := rec.DataPoints + 1
		rec.AverageSpread = (rec.AverageSpread*float64(rec.DataPoints) + spreadPercent) / float64(n)
		rec.DataPoints = n
	}

	if err := a.repo.Save(ctx, rec); err != nil {
		slog.Error("spread record save failed", "route", route, "date", date, "error", err)
	}
}
