package indicator

import (
	"bytes"
	"encoding/json"
)

// Value is a single indicator reading. Readings inside an indicator's warm-up
// window are not valid and must never be treated as zero.
type Value struct {
	V     float64
	Valid bool
}

// Some returns a valid reading.
func Some(v float64) Value {
	return Value{V: v, Valid: true}
}

// Float64 returns the reading and whether it is defined.
func (v Value) Float64() (float64, bool) {
	return v.V, v.Valid
}

// Or returns the reading, or fallback when it is undefined.
func (v Value) Or(fallback float64) float64 {
	if !v.Valid {
		return fallback
	}
	return v.V
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.V)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// Series is a sequence of readings aligned by index with the input prices.
type Series []Value

// newSeries returns a series of n undefined readings.
func newSeries(n int) Series {
	return make(Series, n)
}

// At returns the reading at i, undefined when i is out of range.
func (s Series) At(i int) Value {
	if i < 0 || i >= len(s) {
		return Value{}
	}
	return s[i]
}

// Last returns the most recent defined reading.
func (s Series) Last() Value {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Valid {
			return s[i]
		}
	}
	return Value{}
}

// Floats returns the defined readings in order, dropping the warm-up window.
func (s Series) Floats() []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if v.Valid {
			out = append(out, v.V)
		}
	}
	return out
}
