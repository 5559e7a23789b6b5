package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// Number is a numeric field of an upstream payload that may be absent,
// null or a placeholder string such as "N/A".
type Number struct {
	Value float64
	Valid bool
}

func NewNumber(v float64) Number {
	return Number{Value: v, Valid: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Number{}
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = NewNumber(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = Number{}
		return nil
	}

	*n = NewNumber(f)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Float returns NaN for an absent value so that arithmetic on it propagates absence.
func (n Number) Float() float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Value
}

func (n Number) String() string {
	if !n.Valid {
		return NotAvailable
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

const NotAvailable = "N/A"
