package derivation

import (
	"math"
	"strconv"
	"strings"

	"github.com/KotFed0t/market_insight_bot/internal/model"
)

// FormatCoinPrice drops the fraction for prices with five or more integer digits.
func FormatCoinPrice(price float64) string {
	if len(strconv.FormatFloat(math.Floor(math.Abs(price)), 'f', 0, 64)) >= 5 {
		return strconv.FormatFloat(math.Round(price), 'f', 0, 64)
	}
	return strconv.FormatFloat(price, 'f', 2, 64)
}

func CoinRows(coins []model.Coin) []model.CoinRow {
	rows := make([]model.CoinRow, 0, len(coins))
	for _, coin := range coins {
		rows = append(rows, model.CoinRow{
			ID:        coin.ID,
			Name:      coin.Name,
			Symbol:    strings.ToUpper(coin.Symbol),
			Image:     coin.Image,
			Price:     FormatCoinPrice(coin.CurrentPrice),
			Change24h: strconv.FormatFloat(coin.PriceChangePercentage24h, 'f', 2, 64),
		})
	}
	return rows
}
