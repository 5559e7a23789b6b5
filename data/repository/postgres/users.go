package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/KotFed0t/market_insight_bot/data/repository"
	"github.com/KotFed0t/market_insight_bot/internal/converter/dbConverter"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/model/dbModel"
	"github.com/KotFed0t/market_insight_bot/utils"
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *Postgres) InsertUser(ctx context.Context, chatID int64) (userID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `INSERT INTO users(chat_id) VALUES($1) RETURNING user_id`

	slog.Debug("InsertUser start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrAlreadyExists) {
			slog.Error("InsertUser failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertUser completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowContext(ctx, query, chatID).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return 0, repository.ErrAlreadyExists
			}
		}
		return 0, err
	}

	return userID, nil
}

func (r *Postgres) GetUserID(ctx context.Context, chatID int64) (userID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT user_id FROM users WHERE chat_id = $1`

	slog.Debug("GetUserID start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.Error("GetUserID failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetUserID completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowContext(ctx, query, chatID).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}

	return userID, nil
}

func (r *Postgres) GetSettings(ctx context.Context, userID int64) (settings model.Settings, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT user_id, crypto_currency, convert_from, convert_to, chart_type, dt_update
		FROM user_settings
		WHERE user_id = $1
		`

	slog.Debug("GetSettings start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.Error("GetSettings failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetSettings completed", slog.String("rqID", rqID))
		}
	}()

	dbSettings := dbModel.Settings{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, userID).StructScan(&dbSettings)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Settings{}, repository.ErrNotFound
		}
		return model.Settings{}, err
	}

	return dbConverter.ConvertSettings(dbSettings), nil
}

func (r *Postgres) UpsertSettings(ctx context.Context, userID int64, settings model.Settings) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO user_settings(user_id, crypto_currency, convert_from, convert_to, chart_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			crypto_currency = EXCLUDED.crypto_currency,
			convert_from = EXCLUDED.convert_from,
			convert_to = EXCLUDED.convert_to,
			chart_type = EXCLUDED.chart_type,
			dt_update = now()
		`

	slog.Debug("UpsertSettings start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("UpsertSettings failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpsertSettings completed", slog.String("rqID", rqID))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query,
		userID,
		settings.CryptoCurrency,
		settings.ConvertFrom,
		settings.ConvertTo,
		string(settings.ChartType),
	)
	return err
}
