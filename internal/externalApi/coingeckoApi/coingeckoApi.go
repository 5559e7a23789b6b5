package coingeckoApi

import (
	"context"
	"encoding/json"
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
	"golang.org/x/time/rate"
)

type CoinGeckoApi struct {
	client     *resty.Client
	limiter    *rate.Limiter
	maxElapsed time.Duration
}

func New(cfg *config.Config) *CoinGeckoApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.CoinGeckoApi.Url).
		SetHeader("Accept", "application/json")

	// публичный тариф coingecko режет частые запросы
	limiter := rate.NewLimiter(rate.Limit(cfg.API.CoinGeckoApi.RequestsPerSecond), 1)

	return &CoinGeckoApi{client: client, limiter: limiter, maxElapsed: cfg.API.RetryMaxElapsed}
}

// GetMarkets returns coins ordered by market cap, priced in vsCurrency.
func (a *CoinGeckoApi) GetMarkets(ctx context.Context, vsCurrency string) ([]model.Coin, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "CoinGeckoApi.GetMarkets"
	vsCurrency = strings.ToLower(vsCurrency)

	slog.Debug("start request", slog.String("rqID", rqID), slog.String("op", op), slog.String("vsCurrency", vsCurrency))

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := externalApi.DoWithRetry(ctx, a.maxElapsed, func() (*resty.Response, error) {
		return a.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"vs_currency": vsCurrency,
				"order":       "market_cap_desc",
			}).
			Get("/coins/markets")
	})
	if err != nil {
		slog.Error("error while dialing CoinGeckoApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	if resp.StatusCode() != http.StatusOK {
		slog.Error("unexpected status", slog.String("rqID", rqID), slog.String("op", op), slog.Int("status", resp.StatusCode()), slog.String("body", resp.String()))
		return nil, fmt.Errorf("coingecko responded with %d", resp.StatusCode())
	}

	var coins []model.Coin
	err = json.Unmarshal(resp.Body(), &coins)
	if err != nil {
		slog.Error("can't unmarshall response into []model.Coin", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("request complete", slog.String("rqID", rqID), slog.String("op", op), slog.Int("coins", len(coins)))

	return coins, nil
}
