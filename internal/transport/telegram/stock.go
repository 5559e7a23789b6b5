package telegram

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/KotFed0t/market_insight_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/screen"
	"github.com/KotFed0t/market_insight_bot/internal/service"
	"github.com/KotFed0t/market_insight_bot/utils"
	tele "gopkg.in/telebot.v4"
)

// Stock handles "/stock <SYM>". Without a symbol it asks for one.
func (ctrl *Controller) Stock(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	symbol := strings.TrimSpace(c.Message().Payload)
	if symbol == "" {
		err := ctrl.setAction(ctx, c, func(s *model.Session) { s.Action = model.ExpectingTicker })
		if err != nil {
			return c.Send(internalErrMsg)
		}
		return c.Send("Введите тикер")
	}

	return ctrl.showStock(ctx, c, symbol)
}

// ProcessTicker handles the symbol typed after /stock.
func (ctrl *Controller) ProcessTicker(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	err := ctrl.setAction(ctx, c, func(s *model.Session) { s.Action = model.DefaultAction })
	if err != nil {
		return c.Send(internalErrMsg)
	}

	return ctrl.showStock(ctx, c, c.Message().Text)
}

// ShowStock opens a stock from the market list.
func (ctrl *Controller) ShowStock(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	return ctrl.showStock(ctx, c, c.Data())
}

// ToggleChart switches between the line and the candlestick chart.
func (ctrl *Controller) ToggleChart(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	chatID := c.Chat().ID

	settings, err := ctrl.marketService.GetSettings(ctx, chatID)
	if err != nil {
		slog.Error("got error from marketService.GetSettings", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Respond(&tele.CallbackResponse{Text: internalErrMsg})
	}

	if settings.ChartType == model.CandlestickChart {
		settings.ChartType = model.LineChart
	} else {
		settings.ChartType = model.CandlestickChart
	}

	if err = ctrl.marketService.SaveSettings(ctx, chatID, settings); err != nil {
		slog.Error("got error from marketService.SaveSettings", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Respond(&tele.CallbackResponse{Text: internalErrMsg})
	}

	return ctrl.showStockWithChart(ctx, c, c.Data(), settings.ChartType, true)
}

func (ctrl *Controller) showStock(ctx context.Context, c tele.Context, symbol string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	chartType := model.LineChart
	settings, err := ctrl.marketService.GetSettings(ctx, c.Chat().ID)
	if err != nil {
		slog.Warn("can't get settings, using line chart", slog.String("rqID", rqID), slog.String("err", err.Error()))
	} else {
		chartType = settings.ChartType
	}

	return ctrl.showStockWithChart(ctx, c, symbol, chartType, false)
}

func (ctrl *Controller) showStockWithChart(ctx context.Context, c tele.Context, symbol string, chartType model.ChartType, inPlace bool) error {
	view, shown, err := showScreen(
		ctx, c, ctrl.session, screen.Stock, inPlace,
		func(ctx context.Context) (model.StockView, error) {
			return ctrl.marketService.GetStockView(ctx, symbol)
		},
		func(view model.StockView) (string, *tele.ReplyMarkup) {
			return telebotConverter.StockResponse(view, chartType)
		},
	)
	if !shown {
		return err
	}

	// в недавние попадает только показанная карточка
	if rememberErr := ctrl.marketService.RememberSymbol(ctx, c.Chat().ID, view.Snapshot.Symbol); rememberErr != nil {
		slog.Error(
			"got error from marketService.RememberSymbol",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("symbol", view.Snapshot.Symbol),
			slog.String("err", rememberErr.Error()),
		)
	}
	return err
}

// Export handles "/export <SYM>".
func (ctrl *Controller) Export(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	symbol := strings.TrimSpace(c.Message().Payload)
	if symbol == "" {
		err := ctrl.setAction(ctx, c, func(s *model.Session) { s.Action = model.ExpectingExportTicker })
		if err != nil {
			return c.Send(internalErrMsg)
		}
		return c.Send("Введите тикер для выгрузки")
	}

	return ctrl.export(ctx, c, symbol)
}

func (ctrl *Controller) ProcessExportTicker(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	err := ctrl.setAction(ctx, c, func(s *model.Session) { s.Action = model.DefaultAction })
	if err != nil {
		return c.Send(internalErrMsg)
	}

	return ctrl.export(ctx, c, c.Message().Text)
}

// ExportStock exports the stock whose card the button belongs to.
func (ctrl *Controller) ExportStock(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	_ = c.Respond()
	return ctrl.export(ctx, c, c.Data())
}

func (ctrl *Controller) export(ctx context.Context, c tele.Context, symbol string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	_ = c.Notify(tele.UploadingDocument)

	report, err := ctrl.marketService.ExportStockReport(ctx, symbol)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			slog.Error("got error from marketService.ExportStockReport", slog.String("rqID", rqID), slog.String("err", err.Error()))
		}
		return c.Send(userErrMsg(err))
	}

	if report.DownloadLink != "" {
		return c.Send("Файл слишком большой для телеграма, скачать можно по ссылке:\n" + report.DownloadLink)
	}

	return c.Send(&tele.Document{
		File:     tele.FromReader(bytes.NewReader(report.File)),
		FileName: report.FileName,
	})
}
