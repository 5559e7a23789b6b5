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

func (s *MarketService) GetConversionRate(ctx context.Context, from, to string) (float64, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.GetConversionRate"
	from, to = strings.ToUpper(from), strings.ToUpper(to)

	if !model.IsKnownCurrency(from) || !model.IsKnownCurrency(to) {
		return 0, service.ErrUnknownCurrency
	}

	if from == to {
		return 1, nil
	}

	rate, err := s.cache.GetRate(ctx, from, to)
	if err == nil {
		return rate, nil
	}
	slog.Warn("can't get rate from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))

	rate, err = s.ratesApi.GetPairRate(ctx, from, to)
	if err != nil {
		if errors.Is(err, externalApi.ErrRateUnavailable) {
			return 0, service.ErrRateUnavailable
		}
		slog.Error("got error from ratesApi.GetPairRate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return 0, err
	}

	go s.cache.SetRate(context.WithoutCancel(ctx), from, to, rate)

	return rate, nil
}

// Convert prices amount of from in to. A non-numeric amount yields an
// empty ConvertedAmount rather than an error.
func (s *MarketService) Convert(ctx context.Context, from, to, amount string) (model.Conversion, error) {
	rate, err := s.GetConversionRate(ctx, from, to)
	if err != nil {
		return model.Conversion{}, err
	}

	return model.Conversion{
		From:            strings.ToUpper(from),
		To:              strings.ToUpper(to),
		Rate:            model.FigureOf(rate),
		InverseRate:     derivation.InverseRate(rate),
		Amount:          amount,
		ConvertedAmount: derivation.ConvertAmount(amount, rate),
	}, nil
}
