package telegram

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/market_insight_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/model/tg/tgCallback"
	"github.com/KotFed0t/market_insight_bot/internal/screen"
	"github.com/KotFed0t/market_insight_bot/utils"
	tele "gopkg.in/telebot.v4"
)

func (ctrl *Controller) Crypto(c tele.Context) error {
	return ctrl.showCrypto(c, false, false)
}

func (ctrl *Controller) RefreshCrypto(c tele.Context) error {
	return ctrl.showCrypto(c, true, true)
}

// OpenVsPicker replaces the table keyboard with the currency list.
func (ctrl *Controller) OpenVsPicker(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	_ = c.Respond()

	settings, err := ctrl.marketService.GetSettings(ctx, c.Chat().ID)
	if err != nil {
		settings = model.DefaultSettings()
	}

	return c.Edit("Выберите валюту:", telebotConverter.CurrencyPicker(tgCallback.PickVsCurrency, settings.CryptoCurrency))
}

func (ctrl *Controller) PickVsCurrency(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	settings, err := ctrl.marketService.GetSettings(ctx, c.Chat().ID)
	if err != nil {
		slog.Error("got error from marketService.GetSettings", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Respond(&tele.CallbackResponse{Text: internalErrMsg})
	}

	settings.CryptoCurrency = c.Data()
	if err = ctrl.marketService.SaveSettings(ctx, c.Chat().ID, settings); err != nil {
		return c.Respond(&tele.CallbackResponse{Text: userErrMsg(err)})
	}

	return ctrl.showCrypto(c, false, true)
}

func (ctrl *Controller) showCrypto(c tele.Context, refresh, inPlace bool) error {
	ctx := utils.CreateCtxWithRqID(c)

	vsCurrency := model.DefaultSettings().CryptoCurrency
	settings, err := ctrl.marketService.GetSettings(ctx, c.Chat().ID)
	if err == nil {
		vsCurrency = settings.CryptoCurrency
	}

	_, _, err = showScreen(
		ctx, c, ctrl.session, screen.Crypto, inPlace,
		func(ctx context.Context) ([]model.CoinRow, error) {
			return ctrl.marketService.GetCryptoMarkets(ctx, vsCurrency, refresh)
		},
		func(rows []model.CoinRow) (string, *tele.ReplyMarkup) {
			return telebotConverter.CryptoResponse(rows, vsCurrency)
		},
	)
	return err
}
