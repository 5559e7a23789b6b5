package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// Figure is a derived value that is either a finite number or unavailable.
type Figure struct {
	value     float64
	available bool
}

// FigureOf wraps v, treating NaN and ±Inf as unavailable.
func FigureOf(v float64) Figure {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Unavailable()
	}
	return Figure{value: v, available: true}
}

func Unavailable() Figure {
	return Figure{}
}

func (f Figure) Get() (float64, bool) {
	return f.value, f.available
}

func (f Figure) Available() bool {
	return f.available
}

// Format prints the value with prec decimal places, or "N/A".
func (f Figure) Format(prec int) string {
	if !f.available {
		return NotAvailable
	}
	return strconv.FormatFloat(f.value, 'f', prec, 64)
}

func (f Figure) MarshalJSON() ([]byte, error) {
	if !f.available {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
