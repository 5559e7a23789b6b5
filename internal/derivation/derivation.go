// Package derivation turns raw upstream payloads into display values.
//
// Functions here are pure: they never mutate their input and only the
// chart series depend on the supplied instant.
package derivation

import (
	"math"
	"time"

	"github.com/KotFed0t/market_insight_bot/internal/model"
)

const day = 24 * time.Hour

// PriceChange is currentPrice - previousClose.
func PriceChange(s model.StockSnapshot) float64 {
	return s.CurrentPrice.Float() - s.PreviousClose.Float()
}

// PriceChangePercent is the change relative to previousClose, rounded to 2 places.
// A zero previousClose yields ±Inf or NaN.
func PriceChangePercent(s model.StockSnapshot) float64 {
	return round(PriceChange(s)/s.PreviousClose.Float()*100, 2)
}

// AverageOpen is the mean Open over the historical bars, NaN when there are none.
func AverageOpen(s model.StockSnapshot) float64 {
	if len(s.HistoricalData) == 0 {
		return math.NaN()
	}

	var sum float64
	for _, bar := range s.HistoricalData {
		sum += bar.Open
	}

	return sum / float64(len(s.HistoricalData))
}

// ChartSeries maps every bar to its Close. The backend does not send bar
// dates, so timestamps are laid out one day apart ending at now.
func ChartSeries(s model.StockSnapshot, now time.Time) []model.ChartPoint {
	n := len(s.HistoricalData)
	res := make([]model.ChartPoint, 0, n)

	for i, bar := range s.HistoricalData {
		res = append(res, model.ChartPoint{
			Timestamp: barTimestamp(now, i, n),
			Value:     bar.Close,
		})
	}

	return res
}

// CandlestickSeries is ChartSeries with the full OHLC of each bar.
func CandlestickSeries(s model.StockSnapshot, now time.Time) []model.Candle {
	n := len(s.HistoricalData)
	res := make([]model.Candle, 0, n)

	for i, bar := range s.HistoricalData {
		res = append(res, model.Candle{
			Timestamp: barTimestamp(now, i, n),
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
		})
	}

	return res
}

func PriceChangeFigure(s model.StockSnapshot) model.Figure {
	return model.FigureOf(PriceChange(s))
}

func PriceChangePercentFigure(s model.StockSnapshot) model.Figure {
	return model.FigureOf(PriceChangePercent(s))
}

func AverageOpenFigure(s model.StockSnapshot) model.Figure {
	return model.FigureOf(AverageOpen(s))
}

// Derive builds the full view-model for a snapshot as of now.
func Derive(s model.StockSnapshot, now time.Time) model.StockView {
	return model.StockView{
		Snapshot:           s,
		PriceChange:        PriceChangeFigure(s),
		PriceChangePercent: PriceChangePercentFigure(s),
		AverageOpen:        AverageOpenFigure(s),
		Chart:              ChartSeries(s, now),
		Candles:            CandlestickSeries(s, now),
		AsOf:               now,
	}
}

func barTimestamp(now time.Time, i, n int) time.Time {
	return now.Add(-time.Duration(n-1-i) * day)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
