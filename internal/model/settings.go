package model

type Settings struct {
	CryptoCurrency string
	ConvertFrom    string
	ConvertTo      string
	ChartType      ChartType
}

func DefaultSettings() Settings {
	return Settings{
		CryptoCurrency: "usd",
		ConvertFrom:    "EUR",
		ConvertTo:      "USD",
		ChartType:      LineChart,
	}
}
