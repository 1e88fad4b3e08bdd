package dto

// OpportunityResponse は裁定機会のレスポンスDTOです。
type OpportunityResponse struct {
	BuyExchange   string  `json:"buyExchange"`      // 買い側（国際）取引所
	SellExchange  string  `json:"sellExchange"`     // 売り側（国内）取引所
	Route         string  `json:"route"`            // "買い → 売り" ラベル
	BuyPriceZAR   float64 `json:"buyPriceZar"`      // ZAR換算の買い価格
	SellPriceZAR  float64 `json:"sellPriceZar"`     // ZAR建ての売り価格
	Spread        float64 `json:"spread"`           // 売り − 買い
	SpreadPercent float64 `json:"spreadPercentage"` // スプレッド率（%）
}

// ErrorResponse はエラーレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
