package stockApi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/KotFed0t/market_insight_bot/config"
	"github.com/KotFed0t/market_insight_bot/internal/externalApi"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/utils"
	"github.com/go-resty/resty/v2"
)

// StockApi is a client of the stock data and prediction backend.
type StockApi struct {
	client     *resty.Client
	maxElapsed time.Duration
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(cfg *config.Config) *StockApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.StockApi.Url).
		SetHeader("Accept", "application/json")
	return &StockApi{client: client, maxElapsed: cfg.API.RetryMaxElapsed}
}

func (a *StockApi) GetPopularStocks(ctx context.Context) ([]model.PopularStock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockApi.GetPopularStocks"

	slog.Debug("start request", slog.String("rqID", rqID), slog.String("op", op))

	body, err := a.get(ctx, "/api/popular-stocks", nil)
	if err != nil {
		slog.Error("request failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	var stocks []model.PopularStock
	err = json.Unmarshal(body, &stocks)
	if err != nil {
		slog.Error("can't unmarshall response into []model.PopularStock", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("request complete", slog.String("rqID", rqID), slog.String("op", op), slog.Int("stocks", len(stocks)))

	return stocks, nil
}

func (a *StockApi) GetStock(ctx context.Context, symbol string) (model.StockSnapshot, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockApi.GetStock"

	slog.Debug("start request", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	body, err := a.get(ctx, "/api/stock/{symbol}", map[string]string{"symbol": symbol})
	if err != nil {
		if !errors.Is(err, externalApi.ErrNotFound) {
			slog.Error("request failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
		return model.StockSnapshot{}, err
	}

	snapshot := model.StockSnapshot{}
	err = json.Unmarshal(body, &snapshot)
	if err != nil {
		slog.Error("can't unmarshall response into model.StockSnapshot", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.StockSnapshot{}, err
	}

	// бэкенд отдает 200 и с пустыми данными для несуществующего тикера
	if snapshot.LongName == "" && len(snapshot.HistoricalData) == 0 {
		return model.StockSnapshot{}, externalApi.ErrNotFound
	}

	slog.Debug("request complete", slog.String("rqID", rqID), slog.String("op", op), slog.Int("bars", len(snapshot.HistoricalData)))

	return snapshot, nil
}

func (a *StockApi) GetPrediction(ctx context.Context, algorithm model.Algorithm, symbol string) (model.Prediction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "StockApi.GetPrediction"

	if !algorithm.Valid() {
		return model.Prediction{}, fmt.Errorf("%w: %q", externalApi.ErrUnknownAlgorithm, algorithm)
	}

	slog.Debug("start request", slog.String("rqID", rqID), slog.String("op", op), slog.String("algorithm", string(algorithm)), slog.String("symbol", symbol))

	body, err := a.get(ctx, "/api/{algorithm}/{symbol}", map[string]string{
		"algorithm": string(algorithm),
		"symbol":    symbol,
	})
	if err != nil {
		if !errors.Is(err, externalApi.ErrNotFound) {
			slog.Error("request failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
		return model.Prediction{}, err
	}

	prediction := model.Prediction{}
	err = json.Unmarshal(body, &prediction)
	if err != nil {
		slog.Error("can't unmarshall response into model.Prediction", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Prediction{}, err
	}

	prediction.Algorithm = algorithm
	prediction.Symbol = symbol

	slog.Debug("request complete", slog.String("rqID", rqID), slog.String("op", op))

	return prediction, nil
}

func (a *StockApi) get(ctx context.Context, url string, pathParams map[string]string) ([]byte, error) {
	resp, err := externalApi.DoWithRetry(ctx, a.maxElapsed, func() (*resty.Response, error) {
		return a.client.R().
			SetContext(ctx).
			SetPathParams(pathParams).
			Get(url)
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == http.StatusOK {
		return resp.Body(), nil
	}

	errResp := errorResponse{}
	_ = json.Unmarshal(resp.Body(), &errResp)

	if resp.StatusCode() == http.StatusNotFound || strings.Contains(strings.ToLower(errResp.Error), "no data found") {
		return nil, externalApi.ErrNotFound
	}

	return nil, fmt.Errorf("stock api responded with %d: %s", resp.StatusCode(), errResp.Error)
}
