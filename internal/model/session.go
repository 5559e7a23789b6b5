package model

type action int

const (
	DefaultAction action = iota
	ExpectingTicker
	ExpectingPredictionTicker
	ExpectingAmount
	ExpectingExportTicker
)

// Session is the per-chat pending input.
type Session struct {
	Action    action
	Algorithm Algorithm
	// Amount последняя сумма конвертера, переживает смену пары.
	Amount string
}
