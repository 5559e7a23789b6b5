package exchangeRateApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KotFed0t/market_insight_bot/config"
	"github.com/KotFed0t/market_insight_bot/internal/externalApi"
	"github.com/KotFed0t/market_insight_bot/utils"
	"github.com/go-resty/resty/v2"
)

type ExchangeRateApi struct {
	client     *resty.Client
	apiKey     string
	maxElapsed time.Duration
}

type pairResponse struct {
	Result         string  `json:"result"`
	ErrorType      string  `json:"error-type"`
	BaseCode       string  `json:"base_code"`
	TargetCode     string  `json:"target_code"`
	ConversionRate float64 `json:"conversion_rate"`
}

func New(cfg *config.Config) *ExchangeRateApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.ExchangeRateApi.Url).
		SetHeader("Accept", "application/json")
	return &ExchangeRateApi{client: client, apiKey: cfg.API.ExchangeRateApi.ApiKey, maxElapsed: cfg.API.RetryMaxElapsed}
}

// GetPairRate returns how many units of to one unit of from buys.
func (a *ExchangeRateApi) GetPairRate(ctx context.Context, from, to string) (float64, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "ExchangeRateApi.GetPairRate"
	from, to = strings.ToUpper(from), strings.ToUpper(to)

	slog.Debug("start request", slog.String("rqID", rqID), slog.String("op", op), slog.String("from", from), slog.String("to", to))

	resp, err := externalApi.DoWithRetry(ctx, a.maxElapsed, func() (*resty.Response, error) {
		return a.client.R().
			SetContext(ctx).
			SetPathParams(map[string]string{
				"apiKey": a.apiKey,
				"from":   from,
				"to":     to,
			}).
			Get("/v6/{apiKey}/pair/{from}/{to}")
	})
	if err != nil {
		slog.Error("error while dialing ExchangeRateApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return 0, err
	}

	// ошибки приходят с result=error и 4xx, разбираем тело в любом случае
	pair := pairResponse{}
	err = json.Unmarshal(resp.Body(), &pair)
	if err != nil {
		slog.Error("can't unmarshall pair response", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return 0, err
	}

	if pair.Result != "success" {
		slog.Warn("exchange rate not available", slog.String("rqID", rqID), slog.String("op", op), slog.String("errorType", pair.ErrorType))
		return 0, fmt.Errorf("%w: %s", externalApi.ErrRateUnavailable, pair.ErrorType)
	}

	slog.Debug("request complete", slog.String("rqID", rqID), slog.String("op", op), slog.Float64("rate", pair.ConversionRate))

	return pair.ConversionRate, nil
}
