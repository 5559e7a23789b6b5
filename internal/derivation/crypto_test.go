package derivation

import (
	"testing"

	"github.com/KotFed0t/market_insight_bot/internal/model"
)

func TestFormatCoinPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{price: 67234.56, want: "67235"},
		{price: 10000, want: "10000"},
		{price: 9999.994, want: "9999.99"},
		{price: 3456.7, want: "3456.70"},
		{price: 0.0123, want: "0.01"},
	}

	for _, tt := range tests {
		if got := FormatCoinPrice(tt.price); got != tt.want {
			t.Errorf("FormatCoinPrice(%v) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func TestCoinRows(t *testing.T) {
	rows := CoinRows([]model.Coin{
		{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", CurrentPrice: 67234.56, PriceChangePercentage24h: -1.234},
	})

	if len(rows) != 1 {
		t.Fatalf("len = %d, want 1", len(rows))
	}
	if rows[0].Symbol != "BTC" || rows[0].Price != "67235" || rows[0].Change24h != "-1.23" {
		t.Errorf("row = %+v", rows[0])
	}
}
