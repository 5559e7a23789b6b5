package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/KotFed0t/market_insight_bot/config"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/service"
	"github.com/KotFed0t/market_insight_bot/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type MarketService interface {
	GetPopularStocks(ctx context.Context, refresh bool) ([]model.PopularStock, error)
	GetStockView(ctx context.Context, symbol string) (model.StockView, error)
	GetCryptoMarkets(ctx context.Context, vsCurrency string, refresh bool) ([]model.CoinRow, error)
	Convert(ctx context.Context, from, to, amount string) (model.Conversion, error)
}

type Handler struct {
	marketService MarketService
}

func NewRouter(marketService MarketService) http.Handler {
	h := Handler{marketService: marketService}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/popular-stocks", h.PopularStocks)
		r.Get("/stocks/{symbol}/view", h.StockView)
		r.Get("/crypto", h.Crypto)
		r.Get("/convert", h.Convert)
	})

	return r
}

type Server struct {
	srv *http.Server
}

func NewServer(cfg *config.Config, handler http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}}
}

func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped with error", slog.String("err", err.Error()))
		}
	}()
	slog.Info("http server started", slog.String("addr", s.srv.Addr))
}

func (s *Server) Stop(ctx context.Context) {
	slog.Info("start stopping http server")
	if err := s.srv.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown error", slog.String("err", err.Error()))
	}
	slog.Info("http server stopped")
}

// requestLogger carries chi's request id as rqID, like the bot middleware.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		ctx := utils.WithRqID(r.Context(), middleware.GetReqID(r.Context()))
		rqID := utils.GetRequestIDFromCtx(ctx)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		slog.Info(
			"http request finished",
			slog.String("rqID", rqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(now)),
		)
	})
}

func (h Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h Handler) PopularStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.marketService.GetPopularStocks(r.Context(), r.URL.Query().Get("refresh") == "true")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stocks)
}

func (h Handler) StockView(w http.ResponseWriter, r *http.Request) {
	view, err := h.marketService.GetStockView(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h Handler) Crypto(w http.ResponseWriter, r *http.Request) {
	vs := r.URL.Query().Get("vs")
	if vs == "" {
		vs = model.DefaultSettings().CryptoCurrency
	}

	rows, err := h.marketService.GetCryptoMarkets(r.Context(), vs, r.URL.Query().Get("refresh") == "true")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h Handler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	defaults := model.DefaultSettings()

	from, to := q.Get("from"), q.Get("to")
	if from == "" {
		from = defaults.ConvertFrom
	}
	if to == "" {
		to = defaults.ConvertTo
	}

	conv, err := h.marketService.Convert(r.Context(), from, to, q.Get("amount"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUnknownCurrency), errors.Is(err, service.ErrUnknownAlgorithm):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrRateUnavailable):
		status = http.StatusServiceUnavailable
	default:
		slog.Error("request failed", slog.String("rqID", utils.GetRequestIDFromCtx(r.Context())), slog.String("path", r.URL.Path), slog.String("err", err.Error()))
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("can't encode response", slog.String("err", err.Error()))
	}
}
