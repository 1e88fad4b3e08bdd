package dto

// DailySpreadResponse は日次スプレッド統計のレスポンスDTOです。
type DailySpreadResponse struct {
	Date          string  `json:"date"`          // 暦日（YYYY-MM-DD）
	HighestSpread float64 `json:"highestSpread"` // その日の最高スプレッド率
	LowestSpread  float64 `json:"lowestSpread"`  // その日の最低スプレッド率
	Route         string  `json:"route"`         // "買い → 売り" ラベル
}

// ErrorResponse はエラーレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
