package xslsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/utils"
	"github.com/xuri/excelize/v2"
)

const (
	statsSheet   = "Key statistics"
	historySheet = "History"
	dateLayout   = "2006-01-02"
)

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

func (g *XSLSXGenerator) Generate(ctx context.Context, view model.StockView) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	if view.Snapshot.Symbol == "" {
		return nil, "", errors.New("empty stock view")
	}

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", view.Snapshot.Symbol))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#cfe2f3"}},
	})
	if err != nil {
		return nil, "", err
	}

	if err = g.fillStats(f, view, headerStyle); err != nil {
		slog.Error("got error while filling stats sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err = g.fillHistory(f, view, headerStyle); err != nil {
		slog.Error("got error while filling history sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	// лист по умолчанию больше не нужен
	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XSLSXGenerator) fillStats(f *excelize.File, view model.StockView, headerStyle int) error {
	if _, err := f.NewSheet(statsSheet); err != nil {
		return err
	}

	s := view.Snapshot

	if err := f.MergeCell(statsSheet, "A1", "B1"); err != nil {
		return err
	}
	_ = f.SetCellStr(statsSheet, "A1", fmt.Sprintf("%s (%s)", s.LongName, s.Symbol))
	if err := f.SetCellStyle(statsSheet, "A1", "A1", headerStyle); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	rows := [][2]string{
		{"Sector", s.Sector},
		{"Industry", s.Industry},
		{"Current price", s.CurrentPrice.String()},
		{"Change", view.PriceChange.Format(2)},
		{"Change, %", view.PriceChangePercent.Format(2)},
		{"Previous close", s.PreviousClose.String()},
		{"Average open", view.AverageOpen.Format(2)},
		{"Day range", s.DayLow.String() + " - " + s.DayHigh.String()},
		{"52 week range", s.FiftyTwoWeekLow.String() + " - " + s.FiftyTwoWeekHigh.String()},
		{"Volume", s.Volume.String()},
		{"Market cap", s.MarketCap.String()},
		{"Beta (5Y monthly)", s.Beta.String()},
		{"PE ratio (TTM)", s.TrailingPE.String()},
		{"EPS (TTM)", s.TrailingEPS.String()},
		{"Forward dividend & yield", s.DividendRate.String() + " (" + s.DividendYield.String() + "%)"},
		{"Ex-dividend date", s.ExDividendDate.String()},
		{"1y target est", s.TargetMeanPrice.String()},
		{"Recommendation", s.RecommendationKey},
		{"As of", view.AsOf.Format(dateLayout)},
	}

	for i, row := range rows {
		_ = f.SetCellStr(statsSheet, fmt.Sprintf("A%d", i+2), row[0])
		_ = f.SetCellStr(statsSheet, fmt.Sprintf("B%d", i+2), row[1])
	}

	return f.SetColWidth(statsSheet, "A", "B", 26)
}

func (g *XSLSXGenerator) fillHistory(f *excelize.File, view model.StockView, headerStyle int) error {
	if _, err := f.NewSheet(historySheet); err != nil {
		return err
	}

	for i, title := range []string{"date", "open", "high", "low", "close"} {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		_ = f.SetCellStr(historySheet, cell, title)
	}
	if err := f.SetCellStyle(historySheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("apply style: %w", err)
	}

	for i, candle := range view.Candles {
		row := i + 2
		_ = f.SetCellStr(historySheet, fmt.Sprintf("A%d", row), candle.Timestamp.Format(dateLayout))
		_ = f.SetCellValue(historySheet, fmt.Sprintf("B%d", row), candle.Open)
		_ = f.SetCellValue(historySheet, fmt.Sprintf("C%d", row), candle.High)
		_ = f.SetCellValue(historySheet, fmt.Sprintf("D%d", row), candle.Low)
		_ = f.SetCellValue(historySheet, fmt.Sprintf("E%d", row), candle.Close)
	}

	return nil
}
