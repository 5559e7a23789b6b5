package model

import "time"

type HistoricalBar struct {
	Open   float64 `json:"Open"`
	High   float64 `json:"High"`
	Low    float64 `json:"Low"`
	Close  float64 `json:"Close"`
	Volume float64 `json:"Volume"`
}

type StockSnapshot struct {
	Symbol            string          `json:"symbol"`
	LongName          string          `json:"longName"`
	Sector            string          `json:"sector"`
	Industry          string          `json:"industry"`
	IndustryGroup     string          `json:"industryGroup"`
	CurrentPrice      Number          `json:"currentPrice"`
	PreviousClose     Number          `json:"previousClose"`
	DayHigh           Number          `json:"dayHigh"`
	DayLow            Number          `json:"dayLow"`
	FiftyTwoWeekHigh  Number          `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow   Number          `json:"fiftyTwoWeekLow"`
	Volume            Number          `json:"volume"`
	MarketCap         Number          `json:"marketCap"`
	Beta              Number          `json:"beta"`
	TrailingPE        Number          `json:"trailingPE"`
	TrailingEPS       Number          `json:"trailingEPS"`
	DividendRate      Number          `json:"dividendRate"`
	DividendYield     Number          `json:"dividendYield"`
	ExDividendDate    Number          `json:"exDividendDate"`
	TargetMeanPrice   Number          `json:"targetMeanPrice"`
	RecommendationKey string          `json:"recommendationKey"`
	HistoricalData    []HistoricalBar `json:"historicalData"`
}

type PopularStock struct {
	Symbol         string    `json:"symbol"`
	LongName       string    `json:"longName"`
	LogoUrl        string    `json:"logoUrl"`
	CurrentPrice   Number    `json:"currentPrice"`
	AbsoluteChange Number    `json:"absoluteChange"`
	ChangePercent  string    `json:"changePercent"`
	History        []float64 `json:"history"`
}

type ChartPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
}

type ChartType string

const (
	LineChart        ChartType = "line"
	CandlestickChart ChartType = "candle"
)

// StockView is the display-ready projection of a StockSnapshot.
type StockView struct {
	Snapshot           StockSnapshot `json:"snapshot"`
	PriceChange        Figure        `json:"priceChange"`
	PriceChangePercent Figure        `json:"priceChangePercent"`
	AverageOpen        Figure        `json:"averageOpen"`
	Chart              []ChartPoint  `json:"chart"`
	Candles            []Candle      `json:"candles"`
	AsOf               time.Time     `json:"asOf"`
}

// HasChart reports whether there is any series to draw.
func (v StockView) HasChart() bool {
	return len(v.Chart) > 0
}
