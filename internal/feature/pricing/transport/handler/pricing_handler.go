// Package handler はpricingフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"arb_backend/internal/feature/pricing/domain"
	"arb_backend/internal/feature/pricing/domain/entity"
	"arb_backend/internal/feature/pricing/transport/http/dto"
)

// PricingUsecase は裁定機会取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type PricingUsecase interface {
	GetCurrentOpportunities(ctx context.Context) ([]entity.Opportunity, error)
}

// PricingHandler は裁定機会のHTTPリクエストを処理します。
type PricingHandler struct {
	uc PricingUsecase
}

// NewPricingHandler は指定されたusecaseでPricingHandlerの新しいインスタンスを生成します。
func NewPricingHandler(uc PricingUsecase) *PricingHandler {
	return &PricingHandler{uc: uc}
}

// GetOpportunitiesHandler は1回分の価格更新サイクルを実行し、スプレッド率の
// 降順でランク付けされた裁定機会をJSONで返します。
//
// エンドポイント例:
// GET /api/opportunities
func (h *PricingHandler) GetOpportunitiesHandler(c *gin.Context) {
	opps, err := h.uc.GetCurrentOpportunities(c.Request.Context())
	if err != nil {
		// 為替レートが完全に取得不能な場合のみここに到達する
		if errors.Is(err, domain.ErrNoFxRate) {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.OpportunityResponse, 0, len(opps))
	for _, o := range opps {
		out = append(out, dto.OpportunityResponse{
			BuyExchange:   o.BuyExchange,
			SellExchange:  o.SellExchange,
			Route:         o.Route,
			BuyPriceZAR:   o.BuyPriceZAR,
			SellPriceZAR:  o.SellPriceZAR,
			Spread:        o.Spread,
			SpreadPercent: o.SpreadPercent,
		})
	}

	c.JSON(http.StatusOK, out)
}
