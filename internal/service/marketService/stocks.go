package marketService

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/KotFed0t/market_insight_bot/internal/derivation"
	"github.com/KotFed0t/market_insight_bot/internal/externalApi"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/service"
	"github.com/KotFed0t/market_insight_bot/utils"
)

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (s *MarketService) GetStockView(ctx context.Context, symbol string) (model.StockView, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.GetStockView"
	symbol = normalizeSymbol(symbol)

	slog.Debug("GetStockView start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("GetStockView finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	if symbol == "" {
		return model.StockView{}, service.ErrNotFound
	}

	snapshot, err := s.stockApi.GetStock(ctx, symbol)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			slog.Warn("stock not found in stockApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
			return model.StockView{}, service.ErrNotFound
		}
		slog.Error("can't get stock from stockApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.StockView{}, err
	}

	return derivation.Derive(snapshot, s.now()), nil
}

func (s *MarketService) GetPrediction(ctx context.Context, algorithm model.Algorithm, symbol string) (model.Prediction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.GetPrediction"
	symbol = normalizeSymbol(symbol)

	slog.Debug("GetPrediction start", slog.String("rqID", rqID), slog.String("op", op), slog.String("algorithm", string(algorithm)), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("GetPrediction finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	if !algorithm.Valid() {
		return model.Prediction{}, service.ErrUnknownAlgorithm
	}
	if symbol == "" {
		return model.Prediction{}, service.ErrNotFound
	}

	prediction, err := s.stockApi.GetPrediction(ctx, algorithm, symbol)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			return model.Prediction{}, service.ErrNotFound
		}
		slog.Error("can't get prediction from stockApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Prediction{}, err
	}

	return prediction, nil
}
