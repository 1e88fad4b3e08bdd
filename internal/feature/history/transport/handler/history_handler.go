// Package handler はhistoryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"arb_backend/internal/feature/history/domain"
	"arb_backend/internal/feature/history/domain/entity"
	"arb_backend/internal/feature/history/transport/http/dto"
)

// dateLayout はstart/endクエリパラメータの日付フォーマットです。
const dateLayout = "2006-01-02"

// HistoryUsecase は履歴スプレッド系列解決のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type HistoryUsecase interface {
	ResolvePeriod(ctx context.Context, period string) ([]entity.DailySpreadRecord, error)
	ResolveRange(ctx context.Context, start, end time.Time) ([]entity.DailySpreadRecord, error)
}

// HistoryHandler は履歴スプレッドのHTTPリクエストを処理します。
type HistoryHandler struct {
	uc HistoryUsecase
}

// NewHistoryHandler は指定されたusecaseでHistoryHandlerの新しいインスタンスを生成します。
func NewHistoryHandler(uc HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// GetHistoricalSpreadHandler は期間ラベルまたは明示的な日付範囲で
// 日次スプレッド系列をJSONで返します。start/endが両方指定されていれば
// 日付範囲を優先し、そうでなければperiod（デフォルト"7d"）を使います。
//
// エンドポイント例:
// GET /api/spreads/history?period=30d
// GET /api/spreads/history?start=2026-01-01&end=2026-03-31
func (h *HistoryHandler) GetHistoricalSpreadHandler(c *gin.Context) {
	startStr := c.Query("start")
	endStr := c.Query("end")

	var (
		recs []entity.DailySpreadRecord
		err  error
	)
	if startStr != "" && endStr != "" {
		var start, end time.Time
		if start, err = time.Parse(dateLayout, startStr); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid start date: expected YYYY-MM-DD"})
			return
		}
		if end, err = time.Parse(dateLayout, endStr); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid end date: expected YYYY-MM-DD"})
			return
		}
		recs, err = h.uc.ResolveRange(c.Request.Context(), start, end)
	} else {
		period := c.DefaultQuery("period", "7d")
		recs, err = h.uc.ResolvePeriod(c.Request.Context(), period)
	}

	if err != nil {
		if errors.Is(err, domain.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.DailySpreadResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.DailySpreadResponse{
			Date:          r.Date.UTC().Format(dateLayout),
			HighestSpread: r.HighestSpread,
			LowestSpread:  r.LowestSpread,
			Route:         r.Route,
		})
	}

	c.JSON(http.StatusOK, out)
}
