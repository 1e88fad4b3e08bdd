package usecase

import (
	"fmt"
	"time"

	"arb_backend/internal/feature/history/domain"
	"arb_backend/internal/feature/history/domain/entity"
)

// MaxRangeDays は明示的な日付範囲リクエストで許容する最大日数です。
const MaxRangeDays = 730

// periodDays は事前定義された期間ラベルと日数の対応表です。
var periodDays = map[string]int{
	"1d":  1,
	"7d":  7,
	"30d": 30,
	"90d": 90,
	"6m":  182,
	"1y":  365,
}

// PeriodRange は期間ラベルを[from, to]の日付範囲（両端とも暦日）に変換します。
// toは今日、fromはn-1日前です。未知のラベルはdomain.ErrInvalidRangeになります。
func PeriodRange(period string, now time.Time) (from, to time.Time, err error) {
	days, ok := periodDays[period]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown period %q", domain.ErrInvalidRange, period)
	}
	to = entity.Day(now)
	from = to.AddDate(0, 0, -(days - 1))
	return from, to, nil
}

// ValidateRange は明示的な日付範囲を検証し、暦日に正規化して返します。
// start > end、またはMaxRangeDaysを超える範囲はdomain.ErrInvalidRangeになります。
func ValidateRange(start, end time.Time) (from, to time.Time, err error) {
	from = entity.Day(start)
	to = entity.Day(end)
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %s is after end %s",
			domain.ErrInvalidRange, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	if days := rangeDays(from, to); days > MaxRangeDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range spans %d days, maximum is %d",
			domain.ErrInvalidRange, days, MaxRangeDays)
	}
	return from, to, nil
}

// rangeDays は両端を含む暦日数を返します。
func rangeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours()/24) + 1
}
