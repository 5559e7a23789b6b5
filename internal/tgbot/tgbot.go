package tgbot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/market_insight_bot/config"
	"github.com/KotFed0t/market_insight_bot/data/session"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/model/tg/tgCallback"
	"github.com/KotFed0t/market_insight_bot/internal/transport/telegram"
	customMW "github.com/KotFed0t/market_insight_bot/internal/transport/telegram/middleware"
	"github.com/KotFed0t/market_insight_bot/utils"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type Session interface {
	GetSession(ctx context.Context, chatID int64) (model.Session, error)
}

type TGBot struct {
	bot     *tele.Bot
	ctrl    *telegram.Controller
	session Session
}

func New(cfg *config.Config, ctrl *telegram.Controller, session Session) *TGBot {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
		OnError: func(err error, c tele.Context) {
			slog.Error("unhandled bot error", slog.String("err", err.Error()))
		},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}

	return &TGBot{bot: b, ctrl: ctrl, session: session}
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger())

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	b.bot.Handle(tele.OnText, func(c tele.Context) error {
		// получение сесии и выбор метода контроллера на основе шага пользователя
		ctx := utils.CreateCtxWithRqID(c)
		rqID := utils.GetRequestIDFromCtx(ctx)
		chatSession, err := b.session.GetSession(ctx, c.Chat().ID)
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
			return c.Send("что-то пошло не так...")
		}

		c.Set("session", chatSession)

		switch chatSession.Action {
		case model.ExpectingTicker:
			return b.ctrl.ProcessTicker(c)
		case model.ExpectingPredictionTicker:
			return b.ctrl.ProcessPredictionTicker(c)
		case model.ExpectingAmount:
			return b.ctrl.ProcessAmount(c)
		case model.ExpectingExportTicker:
			return b.ctrl.ProcessExportTicker(c)
		default:
			slog.Debug("text without pending action", slog.String("rqID", rqID), slog.Any("action", chatSession.Action))
			return c.Send("сначала введите одну из команд, список: /start")
		}
	})

	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/market", b.ctrl.Market)
	b.bot.Handle("/stock", b.ctrl.Stock)
	b.bot.Handle("/predict", b.ctrl.Predict)
	b.bot.Handle("/crypto", b.ctrl.Crypto)
	b.bot.Handle("/convert", b.ctrl.Convert)
	b.bot.Handle("/export", b.ctrl.Export)

	b.bot.Handle(&tele.Btn{Unique: tgCallback.RefreshMarket}, b.ctrl.RefreshMarket)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.ShowStock}, b.ctrl.ShowStock)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.ToggleChart}, b.ctrl.ToggleChart)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.ExportStock}, b.ctrl.ExportStock)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.PickAlgorithm}, b.ctrl.PickAlgorithm)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.PredictSymbol}, b.ctrl.PredictSymbol)

	b.bot.Handle(&tele.Btn{Unique: tgCallback.RefreshCrypto}, b.ctrl.RefreshCrypto)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.OpenVsPicker}, b.ctrl.OpenVsPicker)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.PickVsCurrency}, b.ctrl.PickVsCurrency)

	b.bot.Handle(&tele.Btn{Unique: tgCallback.OpenFromPicker}, b.ctrl.OpenFromPicker)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.OpenToPicker}, b.ctrl.OpenToPicker)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.PickFromCurrency}, b.ctrl.PickFromCurrency)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.PickToCurrency}, b.ctrl.PickToCurrency)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.SwapCurrencies}, b.ctrl.SwapCurrencies)
	b.bot.Handle(&tele.Btn{Unique: tgCallback.EnterAmount}, b.ctrl.EnterAmount)
}
