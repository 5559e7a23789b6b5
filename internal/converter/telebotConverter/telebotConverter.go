package telebotConverter

import (
	"fmt"
	"math"
	"strings"

	"github.com/KotFed0t/market_insight_bot/internal/model"
	"github.com/KotFed0t/market_insight_bot/internal/model/tg/tgCallback"
	tele "gopkg.in/telebot.v4"
)

const (
	NoChartData = "нет данных для графика"
	LoadingText = "Загрузка..."

	lastCandles = 5
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

func MarketResponse(stocks []model.PopularStock) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString("📈 Популярные акции\n\n")
	if len(stocks) == 0 {
		sb.WriteString("список пуст\n")
	}

	stockBtns := make([]tele.Btn, 0, len(stocks))
	for _, stock := range stocks {
		stockBtns = append(stockBtns, markup.Data(stock.Symbol, tgCallback.ShowStock, stock.Symbol))

		sb.WriteString(fmt.Sprintf("%s %s (%s)\n", trendEmoji(stock.AbsoluteChange.Float()), stock.Symbol, stock.LongName))
		sb.WriteString(fmt.Sprintf("   ▸ Цена: %s\n", stock.CurrentPrice))
		sb.WriteString(fmt.Sprintf("   ▸ Изменение: %s (%s)\n", stock.AbsoluteChange, orNA(stock.ChangePercent)))
		if line := Sparkline(stock.History); line != "" {
			sb.WriteString("   " + line + "\n")
		}
		sb.WriteString("\n")
	}

	rows := markup.Split(4, stockBtns)
	rows = append(rows, markup.Row(markup.Data("🔄 Обновить", tgCallback.RefreshMarket)))
	markup.Inline(rows...)

	return sb.String(), markup
}

func StockResponse(view model.StockView, chartType model.ChartType) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	s := view.Snapshot
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📊 %s (%s)\n", s.LongName, s.Symbol))
	sb.WriteString(fmt.Sprintf("%s / %s\n\n", orNA(s.Sector), orNA(s.Industry)))

	sb.WriteString(fmt.Sprintf("💰 Цена: %s\n", s.CurrentPrice))
	sb.WriteString(fmt.Sprintf("%s Изменение: %s (%s)\n", trendEmoji(valueOrZero(view.PriceChange)), view.PriceChange.Format(2), percentText(view.PriceChangePercent)))
	sb.WriteString(fmt.Sprintf("   ▸ Пред. закрытие: %s\n", s.PreviousClose))
	sb.WriteString(fmt.Sprintf("   ▸ День: %s – %s\n", s.DayLow, s.DayHigh))
	sb.WriteString(fmt.Sprintf("   ▸ 52 недели: %s – %s\n", s.FiftyTwoWeekLow, s.FiftyTwoWeekHigh))
	sb.WriteString(fmt.Sprintf("   ▸ Объем: %s\n", s.Volume))
	sb.WriteString(fmt.Sprintf("   ▸ Капитализация: %s\n", s.MarketCap))
	sb.WriteString(fmt.Sprintf("   ▸ Beta: %s\n", s.Beta))
	sb.WriteString(fmt.Sprintf("   ▸ P/E: %s\n", s.TrailingPE))
	sb.WriteString(fmt.Sprintf("   ▸ EPS: %s\n", s.TrailingEPS))
	sb.WriteString(fmt.Sprintf("   ▸ Дивиденды: %s (%s)\n", s.DividendRate, s.DividendYield))
	sb.WriteString(fmt.Sprintf("   ▸ Целевая цена: %s\n", s.TargetMeanPrice))
	sb.WriteString(fmt.Sprintf("   ▸ Рекомендация: %s\n", orNA(s.RecommendationKey)))
	sb.WriteString(fmt.Sprintf("   ▸ Средняя цена открытия: %s\n\n", view.AverageOpen.Format(2)))

	toggleText := "🕯 Свечи"
	if chartType == model.CandlestickChart {
		sb.WriteString(CandlesText(view.Candles))
		toggleText = "📉 Линия"
	} else {
		sb.WriteString(LineChartText(view.Chart))
	}

	markup.Inline(
		markup.Row(
			markup.Data(toggleText, tgCallback.ToggleChart, s.Symbol),
			markup.Data("📄 Excel", tgCallback.ExportStock, s.Symbol),
		),
	)

	return sb.String(), markup
}

// LineChartText renders the close series as a sparkline between its first and last dates.
func LineChartText(points []model.ChartPoint) string {
	if len(points) == 0 {
		return NoChartData
	}

	values := make([]float64, 0, len(points))
	for _, p := range points {
		values = append(values, p.Value)
	}

	return fmt.Sprintf(
		"%s\n%s … %s",
		Sparkline(values),
		points[0].Timestamp.Format("02.01"),
		points[len(points)-1].Timestamp.Format("02.01"),
	)
}

func CandlesText(candles []model.Candle) string {
	if len(candles) == 0 {
		return NoChartData
	}

	if len(candles) > lastCandles {
		candles = candles[len(candles)-lastCandles:]
	}

	var sb strings.Builder
	for _, c := range candles {
		sb.WriteString(fmt.Sprintf(
			"%s %s O %.2f H %.2f L %.2f C %.2f\n",
			trendEmoji(c.Close-c.Open), c.Timestamp.Format("02.01"), c.Open, c.High, c.Low, c.Close,
		))
	}

	return sb.String()
}

// Sparkline scales values onto eight block heights. Non-finite values are skipped.
func Sparkline(values []float64) string {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return ""
	}

	var sb strings.Builder
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		idx := len(sparkBlocks) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		sb.WriteRune(sparkBlocks[idx])
	}

	return sb.String()
}

func AlgorithmsMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(model.Algorithms))
	for _, a := range model.Algorithms {
		rows = append(rows, markup.Row(markup.Data(a.Title(), tgCallback.PickAlgorithm, string(a))))
	}
	markup.Inline(rows...)
	return markup
}

// PredictionSymbolsMarkup offers symbols to predict with algorithm in one tap.
func PredictionSymbolsMarkup(algorithm model.Algorithm, symbols []string) *tele.ReplyMarkup {
	if len(symbols) == 0 {
		return nil
	}

	markup := &tele.ReplyMarkup{}
	btns := make([]tele.Btn, 0, len(symbols))
	for _, symbol := range symbols {
		btns = append(btns, markup.Data(symbol, tgCallback.PredictSymbol, string(algorithm), symbol))
	}
	markup.Inline(markup.Split(4, btns)...)
	return markup
}

// PredictionAlbum holds the forecast chart and the model comparison chart.
func PredictionAlbum(p model.Prediction) tele.Album {
	album := make(tele.Album, 0, 2)
	if p.PlotUrl1 != "" {
		album = append(album, &tele.Photo{File: tele.FromURL(p.PlotUrl1), Caption: PredictionCaption(p)})
	}
	if p.PlotUrl2 != "" {
		album = append(album, &tele.Photo{File: tele.FromURL(p.PlotUrl2)})
	}
	return album
}

func PredictionCaption(p model.Prediction) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🤖 %s: %s", p.Algorithm.Title(), p.Symbol))

	metrics := []struct {
		name string
		n    model.Number
	}{{"MAE", p.MAE}, {"MSE", p.MSE}, {"RMSE", p.RMSE}, {"R²", p.R2}}
	for _, m := range metrics {
		if m.n.Valid {
			sb.WriteString(fmt.Sprintf("\n%s: %.4f", m.name, m.n.Value))
		}
	}

	return sb.String()
}

func CryptoResponse(rows []model.CoinRow, vsCurrency string) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	var sb strings.Builder
	vs := strings.ToUpper(vsCurrency)

	sb.WriteString(fmt.Sprintf("🪙 Криптовалюты (%s)\n\n", vs))
	if len(rows) == 0 {
		sb.WriteString("список пуст\n")
	}
	for i, row := range rows {
		sb.WriteString(fmt.Sprintf("%d. %s %s: %s %s (%s%%)\n", i+1, row.Symbol, row.Name, row.Price, vs, row.Change24h))
	}

	markup.Inline(markup.Row(
		markup.Data("💱 "+vs, tgCallback.OpenVsPicker),
		markup.Data("🔄 Обновить", tgCallback.RefreshCrypto),
	))

	return sb.String(), markup
}

func ConversionResponse(conv model.Conversion) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("💱 %s → %s\n\n", conv.From, conv.To))
	sb.WriteString(fmt.Sprintf("1 %s = %s %s\n", conv.From, conv.Rate.Format(4), conv.To))
	if conv.InverseRate != "" {
		sb.WriteString(fmt.Sprintf("1 %s = %s %s\n", conv.To, conv.InverseRate, conv.From))
	}
	if conv.Amount != "" {
		sb.WriteString(fmt.Sprintf("\n%s %s = %s %s\n", conv.Amount, conv.From, orNA(conv.ConvertedAmount), conv.To))
	}

	markup.Inline(
		markup.Row(
			markup.Data(conv.From, tgCallback.OpenFromPicker),
			markup.Data("⇄", tgCallback.SwapCurrencies),
			markup.Data(conv.To, tgCallback.OpenToPicker),
		),
		markup.Row(markup.Data("✏️ Сумма", tgCallback.EnterAmount)),
	)

	return sb.String(), markup
}

// CurrencyPicker lists model.Currencies as buttons of the given unique, marking selected.
func CurrencyPicker(unique, selected string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	btns := make([]tele.Btn, 0, len(model.Currencies))
	for _, code := range model.Currencies {
		text := code
		if strings.EqualFold(code, selected) {
			text = "✅ " + code
		}
		btns = append(btns, markup.Data(text, unique, code))
	}
	markup.Inline(markup.Split(4, btns)...)
	return markup
}

// RecentSymbolsMarkup is the reply keyboard with recently viewed symbols.
func RecentSymbolsMarkup(symbols []string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	if len(symbols) == 0 {
		markup.RemoveKeyboard = true
		return markup
	}

	btns := make([]tele.Btn, 0, len(symbols))
	for _, s := range symbols {
		btns = append(btns, markup.Text("/stock "+s))
	}
	markup.Reply(markup.Split(2, btns)...)
	return markup
}

func trendEmoji(change float64) string {
	switch {
	case change > 0:
		return "🟢"
	case change < 0:
		return "🔴"
	}
	return "⚪️"
}

func valueOrZero(f model.Figure) float64 {
	v, _ := f.Get()
	return v
}

// percentText не дописывает знак процента к N/A.
func percentText(f model.Figure) string {
	if _, ok := f.Get(); !ok {
		return model.NotAvailable
	}
	return f.Format(2) + "%"
}

func orNA(s string) string {
	if s == "" {
		return model.NotAvailable
	}
	return s
}
