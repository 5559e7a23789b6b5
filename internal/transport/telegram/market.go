package telegram

import (
	"context"

	"github.com/KotFed0t/market_insight_bot/internal/converter/telebotConverter"
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/screen"
	"github.com/KotFed0t/market_insight_bot/utils"
	tele "gopkg.in/telebot.v4"
)

func (ctrl *Controller) Market(c tele.Context) error {
	return ctrl.showMarket(c, false)
}

// RefreshMarket bypasses the cache.
func (ctrl *Controller) RefreshMarket(c tele.Context) error {
	return ctrl.showMarket(c, true)
}

func (ctrl *Controller) showMarket(c tele.Context, refresh bool) error {
	ctx := utils.CreateCtxWithRqID(c)

	_, _, err := showScreen(
		ctx, c, ctrl.session, screen.Market, refresh,
		func(ctx context.Context) ([]model.PopularStock, error) {
			return ctrl.marketService.GetPopularStocks(ctx, refresh)
		},
		telebotConverter.MarketResponse,
	)
	return err
}
