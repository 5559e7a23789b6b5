package postgres

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/market_insight_bot/internal/model/dbModel"
	"github.com/KotFed0t/market_insight_bot/utils"
)

func (r *Postgres) SaveSearch(ctx context.Context, userID int64, symbol string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO search_history(user_id, symbol) VALUES ($1, $2)
		ON CONFLICT (user_id, symbol) DO UPDATE SET dt_view = now()
		`

	slog.Debug("SaveSearch start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("SaveSearch failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("SaveSearch completed", slog.String("rqID", rqID))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, userID, symbol)
	return err
}

func (r *Postgres) GetRecentSymbols(ctx context.Context, userID int64, limit int) (symbols []string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT user_id, symbol, dt_view
		FROM search_history
		WHERE user_id = $1
		ORDER BY dt_view DESC
		LIMIT $2
		`

	slog.Debug("GetRecentSymbols start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetRecentSymbols failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetRecentSymbols completed", slog.String("rqID", rqID), slog.Int("count", len(symbols)))
		}
	}()

	var rows []dbModel.SearchHistory
	err = r.txOrDb(ctx).SelectContext(ctx, &rows, query, userID, limit)
	if err != nil {
		return nil, err
	}

	symbols = make([]string, 0, len(rows))
	for _, row := range rows {
		symbols = append(symbols, row.Symbol)
	}

	return symbols, nil
}
