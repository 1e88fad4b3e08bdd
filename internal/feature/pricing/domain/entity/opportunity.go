package entity

// Opportunity is one candidate cross-exchange arbitrage pairing:
// buy on an international exchange, sell on a local one, with both
// legs expressed in ZAR.
type Opportunity struct {
	BuyExchange   string  // International exchange to buy on
	SellExchange  string  // Local exchange to sell on
	Route         string  // "Buy → Sell" label, e.g. "Binance → VALR"
	BuyPriceZAR   float64 // International price converted via the FX rate
	SellPriceZAR  float64 // Local price, already in ZAR
	Spread        float64 // SellPriceZAR − BuyPriceZAR
	SpreadPercent float64 // Spread / BuyPriceZAR × 100
}
