package xslsxGenerator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/KotFed0t/market_insight_bot/internal/derivation"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/xuri/excelize/v2"
)

func TestGenerate(t *testing.T) {
	s := model.StockSnapshot{
		Symbol:        "AAPL",
		LongName:      "Apple Inc.",
		CurrentPrice:  model.NewNumber(105),
		PreviousClose: model.NewNumber(100),
		HistoricalData: []model.HistoricalBar{
			{Open: 10, High: 11, Low: 9, Close: 10.5},
			{Open: 20, High: 21, Low: 19, Close: 20.5},
			{Open: 30, High: 31, Low: 29, Close: 30.5},
		},
	}
	view := derivation.Derive(s, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC))

	b, ext, err := New().Generate(context.Background(), view)
	if err != nil {
		t.Fatal(err)
	}
	if ext != ".xlsx" {
		t.Errorf("ext = %q", ext)
	}

	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue(statsSheet, "B6"); got != "5.00" {
		t.Errorf("change percent cell = %q, want 5.00", got)
	}
	if got, _ := f.GetCellValue(statsSheet, "B8"); got != "20.00" {
		t.Errorf("average open cell = %q, want 20.00", got)
	}

	rows, err := f.GetRows(historySheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("history rows = %d, want 4", len(rows))
	}
	if rows[3][0] != "2024-05-17" || rows[1][0] != "2024-05-15" {
		t.Errorf("dates = %q, %q", rows[1][0], rows[3][0])
	}
}

func TestGenerateEmptyView(t *testing.T) {
	if _, _, err := New().Generate(context.Background(), model.StockView{}); err == nil {
		t.Error("expected error")
	}
}
