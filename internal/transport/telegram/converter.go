package telegram

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KotFed0t/market_insight_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/model/tg/tgCallback"
	"github.com/KotFed0t/market_insight_bot/internal/screen"
	"github.com/KotFed0t/market_insight_bot/utils"
	tele "gopkg.in/telebot.v4"
)

// Convert handles "/convert [amount]". Without an amount the last entered one is used.
func (ctrl *Controller) Convert(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	amount, err := ctrl.converterAmount(ctx, c, c.Message().Payload)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	return ctrl.showConversion(ctx, c, amount, false)
}

func (ctrl *Controller) EnterAmount(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	err := ctrl.setAction(ctx, c, func(s *model.Session) { s.Action = model.ExpectingAmount })
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: internalErrMsg})
	}

	_ = c.Respond()
	return c.Send("Введите сумму")
}

func (ctrl *Controller) ProcessAmount(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)

	amount := strings.TrimSpace(c.Message().Text)
	err := ctrl.setAction(ctx, c, func(s *model.Session) {
		s.Action = model.DefaultAction
		s.Amount = amount
	})
	if err != nil {
		return c.Send(internalErrMsg)
	}

	return ctrl.showConversion(ctx, c, amount, false)
}

func (ctrl *Controller) OpenFromPicker(c tele.Context) error {
	return ctrl.openPicker(c, tgCallback.PickFromCurrency, func(s model.Settings) string { return s.ConvertFrom })
}

func (ctrl *Controller) OpenToPicker(c tele.Context) error {
	return ctrl.openPicker(c, tgCallback.PickToCurrency, func(s model.Settings) string { return s.ConvertTo })
}

func (ctrl *Controller) openPicker(c tele.Context, unique string, selected func(model.Settings) string) error {
	ctx := utils.CreateCtxWithRqID(c)
	_ = c.Respond()

	settings, err := ctrl.marketService.GetSettings(ctx, c.Chat().ID)
	if err != nil {
		settings = model.DefaultSettings()
	}

	return c.Edit("Выберите валюту:", telebotConverter.CurrencyPicker(unique, selected(settings)))
}

func (ctrl *Controller) PickFromCurrency(c tele.Context) error {
	return ctrl.updatePair(c, func(s *model.Settings) { s.ConvertFrom = c.Data() })
}

func (ctrl *Controller) PickToCurrency(c tele.Context) error {
	return ctrl.updatePair(c, func(s *model.Settings) { s.ConvertTo = c.Data() })
}

func (ctrl *Controller) SwapCurrencies(c tele.Context) error {
	return ctrl.updatePair(c, func(s *model.Settings) { s.ConvertFrom, s.ConvertTo = s.ConvertTo, s.ConvertFrom })
}

func (ctrl *Controller) updatePair(c tele.Context, update func(s *model.Settings)) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	settings, err := ctrl.marketService.GetSettings(ctx, c.Chat().ID)
	if err != nil {
		slog.Error("got error from marketService.GetSettings", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Respond(&tele.CallbackResponse{Text: internalErrMsg})
	}

	update(&settings)
	if err = ctrl.marketService.SaveSettings(ctx, c.Chat().ID, settings); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: userErrMsg(err)})
	}

	amount, err := ctrl.converterAmount(ctx, c, "")
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: internalErrMsg})
	}

	return ctrl.showConversion(ctx, c, amount, true)
}

// converterAmount remembers a non-empty input, otherwise returns the remembered amount.
func (ctrl *Controller) converterAmount(ctx context.Context, c tele.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input != "" {
		err := ctrl.setAction(ctx, c, func(s *model.Session) { s.Amount = input })
		return input, err
	}

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil {
		return "", err
	}
	return chatSession.Amount, nil
}

func (ctrl *Controller) showConversion(ctx context.Context, c tele.Context, amount string, inPlace bool) error {
	settings, err := ctrl.marketService.GetSettings(ctx, c.Chat().ID)
	if err != nil {
		settings = model.DefaultSettings()
	}

	_, _, err = showScreen(
		ctx, c, ctrl.session, screen.Converter, inPlace,
		func(ctx context.Context) (model.Conversion, error) {
			return ctrl.marketService.Convert(ctx, settings.ConvertFrom, settings.ConvertTo, amount)
		},
		telebotConverter.ConversionResponse,
	)
	return err
}
