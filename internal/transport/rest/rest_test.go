package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KotFed0t/market_insight_bot/internal/derivation"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/service"
)

type fakeService struct {
	from, to, amount string
}

func (f *fakeService) GetPopularStocks(ctx context.Context, refresh bool) ([]model.PopularStock, error) {
	return []model.PopularStock{{Symbol: "AAPL"}}, nil
}

func (f *fakeService) GetStockView(ctx context.Context, symbol string) (model.StockView, error) {
	if symbol != "AAPL" {
		return model.StockView{}, service.ErrNotFound
	}
	snapshot := model.StockSnapshot{
		Symbol:        symbol,
		CurrentPrice:  model.NewNumber(105),
		PreviousClose: model.NewNumber(100),
	}
	return derivation.Derive(snapshot, time.Now()), nil
}

func (f *fakeService) GetCryptoMarkets(ctx context.Context, vsCurrency string, refresh bool) ([]model.CoinRow, error) {
	return nil, errors.New("upstream down")
}

func (f *fakeService) Convert(ctx context.Context, from, to, amount string) (model.Conversion, error) {
	f.from, f.to, f.amount = from, to, amount
	if to == "XXX" {
		return model.Conversion{}, service.ErrUnknownCurrency
	}
	return model.Conversion{From: from, To: to, Rate: model.FigureOf(1.1), Amount: amount, ConvertedAmount: derivation.ConvertAmount(amount, 1.1)}, nil
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "health", path: "/healthz", wantStatus: http.StatusOK},
		{name: "popular stocks", path: "/api/popular-stocks", wantStatus: http.StatusOK},
		{name: "stock view", path: "/api/stocks/AAPL/view", wantStatus: http.StatusOK},
		{name: "unknown stock", path: "/api/stocks/NOPE/view", wantStatus: http.StatusNotFound},
		{name: "unknown currency", path: "/api/convert?from=EUR&to=XXX", wantStatus: http.StatusBadRequest},
		{name: "upstream failure", path: "/api/crypto", wantStatus: http.StatusBadGateway},
	}

	router := NewRouter(&fakeService{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestStockViewBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(&fakeService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stocks/AAPL/view", nil))

	var body struct {
		PriceChangePercent *float64 `json:"priceChangePercent"`
		AverageOpen        *float64 `json:"averageOpen"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if body.PriceChangePercent == nil || *body.PriceChangePercent != 5 {
		t.Errorf("priceChangePercent = %v, want 5", body.PriceChangePercent)
	}
	if body.AverageOpen != nil {
		t.Errorf("averageOpen = %v, want null without history", *body.AverageOpen)
	}
}

func TestConvertDefaults(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()
	NewRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/convert?amount=100", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.from != "EUR" || svc.to != "USD" || svc.amount != "100" {
		t.Errorf("service called with %s->%s %s, want EUR->USD 100", svc.from, svc.to, svc.amount)
	}

	var conv struct {
		ConvertedAmount string `json:"convertedAmount"`
	}
	_ = json.NewDecoder(rec.Body).Decode(&conv)
	if conv.ConvertedAmount != "110.00" {
		t.Errorf("convertedAmount = %q, want 110.00", conv.ConvertedAmount)
	}
}
