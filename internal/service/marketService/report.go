package marketService

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/utils"
)

// Report is either an inline file or a link to an uploaded one.
type Report struct {
	FileName     string
	File         []byte
	DownloadLink string
}

func (s *MarketService) ExportStockReport(ctx context.Context, symbol string) (Report, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.ExportStockReport"

	slog.Debug("ExportStockReport start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("ExportStockReport finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	view, err := s.GetStockView(ctx, symbol)
	if err != nil {
		return Report{}, err
	}

	return s.buildReport(ctx, view)
}

func (s *MarketService) buildReport(ctx context.Context, view model.StockView) (Report, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.buildReport"

	fileBytes, ext, err := s.reportGenerator.Generate(ctx, view)
	if err != nil {
		slog.Error("got error from reportGenerator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return Report{}, err
	}

	fileName := fmt.Sprintf("%s_%s%s", view.Snapshot.Symbol, view.AsOf.Format("2006-01-02"), ext)

	if s.fileLimit <= 0 || len(fileBytes) <= s.fileLimit {
		return Report{FileName: fileName, File: fileBytes}, nil
	}

	// телеграм не примет такой файл, отдаем ссылку
	link, err := s.cloudStorage.UploadFile(ctx, bytes.NewReader(fileBytes), fileName)
	if err != nil {
		slog.Error("got error from cloudStorage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return Report{}, err
	}

	return Report{FileName: fileName, DownloadLink: link}, nil
}
