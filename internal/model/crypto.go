package model

type Coin struct {
	ID                       string  `json:"id"`
	Name                     string  `json:"name"`
	Symbol                   string  `json:"symbol"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}

// CoinRow is a Coin formatted for the price table.
type CoinRow struct {
	ID        string
	Name      string
	Symbol    string
	Image     string
	Price     string
	Change24h string
}
