// Package usecase は価格集約と裁定機会計算のビジネスロジックを実装します。
package usecase

import (
	"sort"

	"arb_backend/internal/feature/pricing/domain/entity"
)

// ComputeOpportunities は国際気配値 × 国内気配値の全ペアについて裁定機会を計算します。
// 国際価格はfxRate（USD→ZAR）でZARに換算され、両辺が同一通貨になってから
// スプレッドを算出します。結果はスプレッド率の降順で安定ソートされます
// （同率の場合は入力順を維持）。
//
// 純粋関数です。どちらかの気配値リストが空の場合は空の結果を返します。
// fxRateが0以下なのは呼び出し側の契約違反であり、ここでは検証しません
// （レートの検証はFXソースの責務）。
func ComputeOpportunities(international, local []entity.Quote, fxRate float64) []entity.Opportunity {
	if len(international) == 0 || len(local) == 0 {
		return []entity.Opportunity{}
	}

	opps := make([]entity.Opportunity, 0, len(international)*len(local))
	for _, intl := range international {
		buyZAR := intl.Price * fxRate
		for _, loc := range local {
			spread := loc.Price - buyZAR
			opps = append(opps, entity.Opportunity{
				BuyExchange:   intl.Exchange,
				SellExchange:  loc.Exchange,
				Route:         intl.Exchange + " → " + loc.Exchange,
				BuyPriceZAR:   buyZAR,
				SellPriceZAR:  loc.Price,
				Spread:        spread,
				SpreadPercent: spread / buyZAR * 100,
			})
		}
	}

	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].SpreadPercent > opps[j].SpreadPercent
	})
	return opps
}
