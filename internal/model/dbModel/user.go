package dbModel

import "time"

type Settings struct {
	UserID         int64     `db:"user_id"`
	CryptoCurrency string    `db:"crypto_currency"`
	ConvertFrom    string    `db:"convert_from"`
	ConvertTo      string    `db:"convert_to"`
	ChartType      string    `db:"chart_type"`
	UpdatedAt      time.Time `db:"dt_update"`
}

type SearchHistory struct {
	UserID   int64     `db:"user_id"`
	Symbol   string    `db:"symbol"`
	ViewedAt time.Time `db:"dt_view"`
}
