package model

import "strings"

type Conversion struct {
	From            string `json:"from"`
	To              string `json:"to"`
	Rate            Figure `json:"rate"`
	InverseRate     string `json:"inverseRate"`
	Amount          string `json:"amount"`
	ConvertedAmount string `json:"convertedAmount"`
}

// Currencies offered by the currency pickers.
var Currencies = []string{
	"USD", "EUR", "GBP", "JPY", "CHF", "CAD", "AUD", "NZD",
	"CNY", "HKD", "SGD", "INR", "KRW", "SEK", "NOK", "DKK",
	"PLN", "CZK", "TRY", "BRL", "MXN", "ZAR", "AED", "RUB",
}

func IsKnownCurrency(code string) bool {
	code = strings.ToUpper(code)
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}
