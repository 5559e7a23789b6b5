package telegram

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KotFed0t/market_insight_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/screen"
	"github.com/KotFed0t/market_insight_bot/utils"
	tele "gopkg.in/telebot.v4"
)

func (ctrl *Controller) Predict(c tele.Context) error {
	return c.Send("Выберите алгоритм:", telebotConverter.AlgorithmsMarkup())
}

// PickAlgorithm remembers the algorithm and asks for a ticker, offering the
// popular stocks as buttons.
func (ctrl *Controller) PickAlgorithm(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	algorithm := model.Algorithm(c.Data())

	if !algorithm.Valid() {
		return c.Respond(&tele.CallbackResponse{Text: "неизвестный алгоритм"})
	}

	err := ctrl.setAction(ctx, c, func(s *model.Session) {
		s.Action = model.ExpectingPredictionTicker
		s.Algorithm = algorithm
	})
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: internalErrMsg})
	}

	_ = c.Respond()

	// без списка популярных можно ввести тикер руками
	var symbols []string
	stocks, err := ctrl.marketService.GetPopularStocks(ctx, false)
	if err != nil {
		slog.Warn("can't get popular stocks for prediction", slog.String("rqID", rqID), slog.String("err", err.Error()))
	}
	for _, stock := range stocks {
		symbols = append(symbols, stock.Symbol)
	}

	return c.Edit(algorithm.Title()+"\nВведите тикер или выберите из популярных", telebotConverter.PredictionSymbolsMarkup(algorithm, symbols))
}

// PredictSymbol runs the prediction for a popular stock button.
func (ctrl *Controller) PredictSymbol(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	args := c.Args()
	if len(args) != 2 || !model.Algorithm(args[0]).Valid() {
		return c.Respond(&tele.CallbackResponse{Text: "неизвестный алгоритм"})
	}

	err := ctrl.setAction(ctx, c, func(s *model.Session) { s.Action = model.DefaultAction })
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: internalErrMsg})
	}

	_ = c.Respond()
	return ctrl.predict(ctx, c, model.Algorithm(args[0]), args[1])
}

func (ctrl *Controller) ProcessPredictionTicker(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	err = ctrl.setAction(ctx, c, func(s *model.Session) { s.Action = model.DefaultAction })
	if err != nil {
		return c.Send(internalErrMsg)
	}

	return ctrl.predict(ctx, c, chatSession.Algorithm, strings.TrimSpace(c.Message().Text))
}

func (ctrl *Controller) predict(ctx context.Context, c tele.Context, algorithm model.Algorithm, symbol string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	loading, err := c.Bot().Send(c.Recipient(), telebotConverter.LoadingText)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Bot().Delete(loading)
	}()

	st, fresh, err := screen.Run(ctx, ctrl.session, screen.Key(c.Chat().ID, screen.Prediction),
		func(ctx context.Context) (model.Prediction, error) {
			return ctrl.marketService.GetPrediction(ctx, algorithm, symbol)
		},
	)
	if err != nil {
		slog.Error("got error from screen.Run", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	if !fresh {
		slog.Info("stale prediction dropped", slog.String("rqID", rqID), slog.Int64("seq", st.Seq), slog.Int64("latest", st.Latest))
		return nil
	}

	if st.Status == screen.Failed {
		return c.Send(userErrMsg(st.Err))
	}

	album := telebotConverter.PredictionAlbum(st.Data)
	if len(album) == 0 {
		return c.Send(telebotConverter.PredictionCaption(st.Data) + "\n" + telebotConverter.NoChartData)
	}

	return c.SendAlbum(album)
}
