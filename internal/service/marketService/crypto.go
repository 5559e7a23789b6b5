package marketService

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KotFed0t/market_insight_bot/internal/derivation"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/service"
	"github.com/KotFed0t/market_insight_bot/utils"
)

func (s *MarketService) GetCryptoMarkets(ctx context.Context, vsCurrency string, refresh bool) ([]model.CoinRow, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.GetCryptoMarkets"
	vsCurrency = strings.ToLower(strings.TrimSpace(vsCurrency))

	slog.Debug("GetCryptoMarkets start", slog.String("rqID", rqID), slog.String("op", op), slog.String("vsCurrency", vsCurrency), slog.Bool("refresh", refresh))
	defer func() {
		slog.Debug("GetCryptoMarkets finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	if !model.IsKnownCurrency(vsCurrency) {
		return nil, service.ErrUnknownCurrency
	}

	if !refresh {
		coins, err := s.cache.GetCryptoMarkets(ctx, vsCurrency)
		if err == nil {
			return derivation.CoinRows(coins), nil
		}
		slog.Warn("can't get crypto markets from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	coins, err := s.cryptoApi.GetMarkets(ctx, vsCurrency)
	if err != nil {
		slog.Error("got error from cryptoApi.GetMarkets", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	go s.cache.SetCryptoMarkets(context.WithoutCancel(ctx), vsCurrency, coins)

	return derivation.CoinRows(coins), nil
}
