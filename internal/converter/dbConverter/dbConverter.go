package dbConverter

import (
	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/model/dbModel"
)

func ConvertSettings(dbSettings dbModel.Settings) model.Settings {
	settings := model.Settings{
		CryptoCurrency: dbSettings.CryptoCurrency,
		ConvertFrom:    dbSettings.ConvertFrom,
		ConvertTo:      dbSettings.ConvertTo,
		ChartType:      model.ChartType(dbSettings.ChartType),
	}

	if settings.ChartType != model.CandlestickChart {
		settings.ChartType = model.LineChart
	}

	return settings
}
