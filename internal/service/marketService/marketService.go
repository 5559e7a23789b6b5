package marketService

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/KotFed0t/market_insight_bot/config"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/utils"
)

type StockApi interface {
	GetPopularStocks(ctx context.Context) ([]model.PopularStock, error)
	GetStock(ctx context.Context, symbol string) (model.StockSnapshot, error)
	GetPrediction(ctx context.Context, algorithm model.Algorithm, symbol string) (model.Prediction, error)
}

type CryptoApi interface {
	GetMarkets(ctx context.Context, vsCurrency string) ([]model.Coin, error)
}

type RatesApi interface {
	GetPairRate(ctx context.Context, from, to string) (float64, error)
}

type Cache interface {
	GetPopularStocks(ctx context.Context) ([]model.PopularStock, error)
	SetPopularStocks(ctx context.Context, stocks []model.PopularStock) error
	GetCryptoMarkets(ctx context.Context, vsCurrency string) ([]model.Coin, error)
	SetCryptoMarkets(ctx context.Context, vsCurrency string, coins []model.Coin) error
	GetRate(ctx context.Context, from, to string) (float64, error)
	SetRate(ctx context.Context, from, to string, rate float64) error
}

type Repository interface {
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error
	InsertUser(ctx context.Context, chatID int64) (userID int64, err error)
	GetUserID(ctx context.Context, chatID int64) (userID int64, err error)
	GetSettings(ctx context.Context, userID int64) (model.Settings, error)
	UpsertSettings(ctx context.Context, userID int64, settings model.Settings) error
	SaveSearch(ctx context.Context, userID int64, symbol string) error
	GetRecentSymbols(ctx context.Context, userID int64, limit int) ([]string, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, view model.StockView) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
	DeleteOldFiles(ctx context.Context) error
}

type MarketService struct {
	repo            Repository
	cache           Cache
	stockApi        StockApi
	cryptoApi       CryptoApi
	ratesApi        RatesApi
	reportGenerator ReportGenerator
	cloudStorage    CloudStorage
	fileLimit       int
	recentLimit     int
	now             func() time.Time
}

func New(
	cfg *config.Config,
	repo Repository,
	cache Cache,
	stockApi StockApi,
	cryptoApi CryptoApi,
	ratesApi RatesApi,
	reportGenerator ReportGenerator,
	cloudStorage CloudStorage,
) *MarketService {
	return &MarketService{
		repo:            repo,
		cache:           cache,
		stockApi:        stockApi,
		cryptoApi:       cryptoApi,
		ratesApi:        ratesApi,
		reportGenerator: reportGenerator,
		cloudStorage:    cloudStorage,
		fileLimit:       cfg.Telegram.FileLimitInBytes,
		recentLimit:     cfg.RecentSymbolsLimit,
		now:             time.Now,
	}
}

// FillPopularStocksCache warms the cache so /market answers without hitting the backend.
func (s *MarketService) FillPopularStocksCache(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.FillPopularStocksCache"

	stocks, err := s.stockApi.GetPopularStocks(ctx)
	if err != nil {
		slog.Error("got error from stockApi.GetPopularStocks", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return s.cache.SetPopularStocks(ctx, stocks)
}

func (s *MarketService) DeleteOldReports(ctx context.Context) error {
	return s.cloudStorage.DeleteOldFiles(ctx)
}

func (s *MarketService) GetPopularStocks(ctx context.Context, refresh bool) ([]model.PopularStock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "MarketService.GetPopularStocks"

	slog.Debug("GetPopularStocks start", slog.String("rqID", rqID), slog.String("op", op), slog.Bool("refresh", refresh))
	defer func() {
		slog.Debug("GetPopularStocks finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	if !refresh {
		stocks, err := s.cache.GetPopularStocks(ctx)
		if err == nil {
			return stocks, nil
		}
		slog.Warn("can't get popular stocks from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	stocks, err := s.stockApi.GetPopularStocks(ctx)
	if err != nil {
		slog.Error("got error from stockApi.GetPopularStocks", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	go s.cache.SetPopularStocks(context.WithoutCancel(ctx), stocks)

	return stocks, nil
}
