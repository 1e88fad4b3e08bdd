package router

import (
	historyhandler "arb_backend/internal/feature/history/transport/handler"
	pricinghandler "arb_backend/internal/feature/pricing/transport/handler"
	platformhandler "arb_backend/internal/platform/http/handler"

	"github.com/gin-gonic/gin"
)

func NewRouter(pricing *pricinghandler.PricingHandler, history *historyhandler.HistoryHandler) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)

	api := r.Group("/api")
	{
		// 現在の裁定機会（1回分の価格更新サイクルを実行）
		api.GET("/opportunities", pricing.GetOpportunitiesHandler)
		// 日次スプレッド履歴（period または start/end 指定）
		api.GET("/spreads/history", history.GetHistoricalSpreadHandler)
	}

	return r
}
