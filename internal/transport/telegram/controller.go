package telegram

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KotFed0t/market_insight_bot/data/session"
	"github.com/KotFed0t/market_insight_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/screen"
	"github.com/KotFed0t/market_insight_bot/internal/service"
	"github.com/KotFed0t/market_insight_bot/internal/service/marketService"
	"github.com/KotFed0t/market_insight_bot/utils"
	tele "gopkg.in/telebot.v4"
)

const (
	internalErrMsg = "что-то пошло не так..."
	notFoundMsg    = "Не удалось найти указанный тикер"
)

type MarketService interface {
	RegUser(ctx context.Context, chatID int64) error
	GetSettings(ctx context.Context, chatID int64) (model.Settings, error)
	SaveSettings(ctx context.Context, chatID int64, settings model.Settings) error
	RememberSymbol(ctx context.Context, chatID int64, symbol string) error
	GetRecentSymbols(ctx context.Context, chatID int64) ([]string, error)
	GetPopularStocks(ctx context.Context, refresh bool) ([]model.PopularStock, error)
	GetStockView(ctx context.Context, symbol string) (model.StockView, error)
	GetPrediction(ctx context.Context, algorithm model.Algorithm, symbol string) (model.Prediction, error)
	GetCryptoMarkets(ctx context.Context, vsCurrency string, refresh bool) ([]model.CoinRow, error)
	Convert(ctx context.Context, from, to, amount string) (model.Conversion, error)
	ExportStockReport(ctx context.Context, symbol string) (marketService.Report, error)
}

type Session interface {
	GetSession(ctx context.Context, chatID int64) (model.Session, error)
	SetSession(ctx context.Context, chatID int64, session model.Session) error
	screen.Sequencer
}

type Controller struct {
	marketService MarketService
	session       Session
}

func NewController(marketService MarketService, session Session) *Controller {
	return &Controller{
		marketService: marketService,
		session:       session,
	}
}

func (ctrl *Controller) Start(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	_ = ctrl.marketService.RegUser(ctx, c.Chat().ID)

	recent, err := ctrl.marketService.GetRecentSymbols(ctx, c.Chat().ID)
	if err != nil {
		recent = nil
	}

	return c.Send(
		"Привет! Команды:\n"+
			"/market - популярные акции\n"+
			"/stock <тикер> - карточка акции\n"+
			"/predict - прогноз цены\n"+
			"/crypto - криптовалюты\n"+
			"/convert - конвертер валют\n"+
			"/export <тикер> - выгрузка в Excel",
		telebotConverter.RecentSymbolsMarkup(recent),
	)
}

// getSessionFromTeleCtxOrStorage prefers the session already loaded by the text router.
func (ctrl *Controller) getSessionFromTeleCtxOrStorage(ctx context.Context, c tele.Context) (model.Session, error) {
	chatSession, ok := c.Get("session").(model.Session)
	if ok {
		return chatSession, nil
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	chatSession, err := ctrl.session.GetSession(ctx, c.Chat().ID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return model.Session{}, nil
		}
		slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.Session{}, err
	}
	return chatSession, nil
}

func (ctrl *Controller) setAction(ctx context.Context, c tele.Context, update func(s *model.Session)) error {
	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil {
		return err
	}

	update(&chatSession)

	err = ctrl.session.SetSession(ctx, c.Chat().ID, chatSession)
	if err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", utils.GetRequestIDFromCtx(ctx)), slog.String("err", err.Error()))
		return err
	}
	return nil
}

func userErrMsg(err error) string {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return notFoundMsg
	case errors.Is(err, service.ErrUnknownAlgorithm):
		return "неизвестный алгоритм"
	case errors.Is(err, service.ErrUnknownCurrency):
		return "неизвестная валюта"
	case errors.Is(err, service.ErrRateUnavailable):
		return "курс сейчас недоступен, попробуйте позже"
	}
	return internalErrMsg
}

// showScreen puts up the loading text, fetches under a fresh sequence number
// and draws the result. A response overtaken by a newer request of the same
// screen is dropped. inPlace redraws the message the pressed button belongs to.
// shown reports whether fresh data reached the chat.
func showScreen[T any](
	ctx context.Context,
	c tele.Context,
	seqs screen.Sequencer,
	name screen.Name,
	inPlace bool,
	fetch func(ctx context.Context) (T, error),
	draw func(data T) (string, *tele.ReplyMarkup),
) (data T, shown bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	var msg *tele.Message
	if c.Callback() != nil {
		_ = c.Respond()
	}

	ownMsg := !inPlace || c.Callback() == nil
	if ownMsg {
		msg, err = c.Bot().Send(c.Recipient(), telebotConverter.LoadingText)
	} else {
		msg, err = c.Bot().Edit(c.Message(), telebotConverter.LoadingText)
	}
	if err != nil {
		slog.Error("can't show loading message", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return data, false, err
	}

	st, fresh, err := screen.Run(ctx, seqs, screen.Key(c.Chat().ID, name), fetch)
	if err != nil {
		slog.Error("got error from screen.Run", slog.String("rqID", rqID), slog.String("err", err.Error()))
		_, err = c.Bot().Edit(msg, internalErrMsg)
		return data, false, err
	}

	if !fresh {
		slog.Info("stale response dropped", slog.String("rqID", rqID), slog.String("screen", string(name)), slog.Int64("seq", st.Seq), slog.Int64("latest", st.Latest))
		if ownMsg {
			return data, false, c.Bot().Delete(msg)
		}
		return data, false, nil
	}

	if st.Status == screen.Failed {
		_, err = c.Bot().Edit(msg, userErrMsg(st.Err))
		return data, false, err
	}

	text, markup := draw(st.Data)
	if _, err = c.Bot().Edit(msg, text, markup); err != nil {
		return data, false, err
	}
	return st.Data, true, nil
}
