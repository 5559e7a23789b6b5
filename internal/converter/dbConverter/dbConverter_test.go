package dbConverter

import (
	"testing"

	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/model/dbModel"
)

func TestConvertSettings(t *testing.T) {
	got := ConvertSettings(dbModel.Settings{
		UserID:         1,
		CryptoCurrency: "eur",
		ConvertFrom:    "GBP",
		ConvertTo:      "JPY",
		ChartType:      "candle",
	})

	want := model.Settings{CryptoCurrency: "eur", ConvertFrom: "GBP", ConvertTo: "JPY", ChartType: model.CandlestickChart}
	if got != want {
		t.Errorf("ConvertSettings = %+v, want %+v", got, want)
	}

	if got := ConvertSettings(dbModel.Settings{ChartType: "bars"}); got.ChartType != model.LineChart {
		t.Errorf("unknown chart type must fall back to line, got %q", got.ChartType)
	}
}
