package stockApi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KotFed0t/market_insight_bot/config"
	"github.com/KotFed0t/market_insight_bot/internal/externalApi"
	"github.com/KotFed0t/market_insight_bot/internal/model"
)

func newTestApi(t *testing.T, handler http.HandlerFunc) *StockApi {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.Timeout = 5 * time.Second
	cfg.API.RetryMaxElapsed = time.Second
	cfg.API.StockApi.Url = srv.URL
	return New(cfg)
}

func TestGetStock(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stock/NVDA" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"symbol": "NVDA",
			"longName": "NVIDIA Corporation",
			"currentPrice": 105,
			"previousClose": 100,
			"beta": "N/A",
			"historicalData": [
				{"Open": 10, "High": 12, "Low": 9, "Close": 11, "Volume": 1000},
				{"Open": 20, "High": 22, "Low": 19, "Close": 21, "Volume": 2000}
			]
		}`))
	})

	s, err := api.GetStock(context.Background(), "NVDA")
	if err != nil {
		t.Fatal(err)
	}

	if s.LongName != "NVIDIA Corporation" || len(s.HistoricalData) != 2 {
		t.Errorf("snapshot = %+v", s)
	}
	if s.CurrentPrice != model.NewNumber(105) {
		t.Errorf("currentPrice = %+v", s.CurrentPrice)
	}
	if s.Beta.Valid {
		t.Errorf("beta N/A must decode as absent, got %+v", s.Beta)
	}
}

func TestGetStockNotFound(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "No data found for symbol XXXX"}`))
	})

	_, err := api.GetStock(context.Background(), "XXXX")
	if !errors.Is(err, externalApi.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetPopularStocksRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[
			{"symbol": "AAPL", "longName": "Apple Inc.", "currentPrice": 190.5, "changePercent": "1.20%", "absoluteChange": 2.26, "logoUrl": "https://logo.clearbit.com/apple.com", "history": [188.1, 190.5]}
		]`))
	})

	stocks, err := api.GetPopularStocks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if len(stocks) != 1 || stocks[0].Symbol != "AAPL" || stocks[0].ChangePercent != "1.20%" || len(stocks[0].History) != 2 {
		t.Errorf("stocks = %+v", stocks)
	}
}

func TestGetPrediction(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/svm/TSLA" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"plot_url1": "https://img/1.png", "plot_url2": "https://img/2.png"}`))
	})

	p, err := api.GetPrediction(context.Background(), model.SVM, "TSLA")
	if err != nil {
		t.Fatal(err)
	}
	if p.PlotUrl1 != "https://img/1.png" || p.PlotUrl2 != "https://img/2.png" || p.Algorithm != model.SVM || p.Symbol != "TSLA" {
		t.Errorf("prediction = %+v", p)
	}
	if p.MAE.Valid {
		t.Error("metrics are not sent by the backend")
	}
}

func TestGetPredictionUnknownAlgorithm(t *testing.T) {
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("must not dial backend")
	})

	_, err := api.GetPrediction(context.Background(), model.Algorithm("lstm"), "TSLA")
	if !errors.Is(err, externalApi.ErrUnknownAlgorithm) {
		t.Errorf("err = %v, want ErrUnknownAlgorithm", err)
	}
}
