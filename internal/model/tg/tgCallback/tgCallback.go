package tgCallback

// Callback buttons uniques. The payload, if any, travels in the button data:
// a symbol for ShowStock, ToggleChart and ExportStock, an algorithm for
// PickAlgorithm, "algorithm|symbol" for PredictSymbol and a currency code for
// the Pick*Currency callbacks.
const (
	RefreshMarket string = "refresh_market"
	ShowStock     string = "show_stock"
	ToggleChart   string = "toggle_chart"
	ExportStock   string = "export_stock"
	PickAlgorithm string = "pick_algorithm"
	PredictSymbol string = "predict_symbol"

	RefreshCrypto  string = "refresh_crypto"
	OpenVsPicker   string = "open_vs_picker"
	PickVsCurrency string = "pick_vs_currency"

	OpenFromPicker   string = "open_from_picker"
	OpenToPicker     string = "open_to_picker"
	PickFromCurrency string = "pick_from_currency"
	PickToCurrency   string = "pick_to_currency"
	SwapCurrencies   string = "swap_currencies"
	EnterAmount      string = "enter_amount"
)
