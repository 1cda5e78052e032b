package contracts

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Float is a real value that may be absent.
// Absent values marshal to JSON null; NaN and ±Inf are treated as absent.
// ⭐ SSOT: every mean or rate in the pipeline is a Float
type Float struct {
	V     float64
	Valid bool
}

// Some returns a present Float (NaN and ±Inf become absent)
func Some(v float64) Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Float{}
	}
	return Float{V: v, Valid: true}
}

// None returns an absent Float
func None() Float {
	return Float{}
}

// Ratio returns num/den, absent when den is zero
func Ratio(num, den float64) Float {
	if den == 0 {
		return Float{}
	}
	return Some(num / den)
}

// Ptr returns a pointer to the value, or nil when absent
func (f Float) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.V
	return &v
}

// Or returns the value, or def when absent
func (f Float) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.V
}

// Scale multiplies a present value by k
func (f Float) Scale(k float64) Float {
	if !f.Valid {
		return f
	}
	return Some(f.V * k)
}

// String renders the value for tables; absent values render as "-"
func (f Float) String() string {
	if !f.Valid {
		return "-"
	}
	return strconv.FormatFloat(f.V, 'f', 3, 64)
}

// MarshalJSON implements json.Marshaler
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid || math.IsNaN(f.V) || math.IsInf(f.V, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f.V)
}

// UnmarshalJSON implements json.Unmarshaler
func (f *Float) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Float{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Some(v)
	return nil
}
