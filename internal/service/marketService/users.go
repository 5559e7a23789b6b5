package marketService

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/KotFed0t/market_insight_bot/data/repository"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/service"
	"github.com/KotFed0t/market_insight_bot/utils"
)

func (s *MarketService) RegUser(ctx context.Context, chatID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.RegUser"

	slog.Debug("RegUser start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	defer func() {
		slog.Debug("RegUser finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID))
	}()

	_, err := s.regUser(ctx, chatID)
	if err != nil && !errors.Is(err, repository.ErrAlreadyExists) {
		slog.Error("got error while registering user", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (s *MarketService) regUser(ctx context.Context, chatID int64) (userID int64, err error) {
	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		userID, err = s.repo.InsertUser(ctx, chatID)
		if err != nil {
			return err
		}
		return s.repo.UpsertSettings(ctx, userID, model.DefaultSettings())
	})
	return userID, err
}

// userID returns the id of the chat's user, registering the chat on first use.
func (s *MarketService) userID(ctx context.Context, chatID int64) (int64, error) {
	userID, err := s.repo.GetUserID(ctx, chatID)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}

	userID, err = s.regUser(ctx, chatID)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return s.repo.GetUserID(ctx, chatID)
	}
	return userID, err
}

func (s *MarketService) GetSettings(ctx context.Context, chatID int64) (model.Settings, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.GetSettings"

	userID, err := s.userID(ctx, chatID)
	if err != nil {
		slog.Error("can't get userID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Settings{}, err
	}

	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.DefaultSettings(), nil
		}
		return model.Settings{}, err
	}

	return settings, nil
}

func (s *MarketService) SaveSettings(ctx context.Context, chatID int64, settings model.Settings) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.SaveSettings"

	slog.Debug("SaveSettings start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("settings", settings))

	settings.CryptoCurrency = strings.ToLower(settings.CryptoCurrency)
	settings.ConvertFrom = strings.ToUpper(settings.ConvertFrom)
	settings.ConvertTo = strings.ToUpper(settings.ConvertTo)

	for _, code := range []string{settings.CryptoCurrency, settings.ConvertFrom, settings.ConvertTo} {
		if !model.IsKnownCurrency(code) {
			return service.ErrUnknownCurrency
		}
	}

	if settings.ChartType != model.CandlestickChart {
		settings.ChartType = model.LineChart
	}

	userID, err := s.userID(ctx, chatID)
	if err != nil {
		slog.Error("can't get userID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return s.repo.UpsertSettings(ctx, userID, settings)
}

// RememberSymbol records a viewed symbol for the recent list.
func (s *MarketService) RememberSymbol(ctx context.Context, chatID int64, symbol string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.RememberSymbol"

	userID, err := s.userID(ctx, chatID)
	if err != nil {
		slog.Error("can't get userID", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return s.repo.SaveSearch(ctx, userID, normalizeSymbol(symbol))
}

func (s *MarketService) GetRecentSymbols(ctx context.Context, chatID int64) ([]string, error) {
	userID, err := s.userID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	return s.repo.GetRecentSymbols(ctx, userID, s.recentLimit)
}
