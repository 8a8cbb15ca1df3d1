package inference

import "strconv"

// Prediction is the raw model output for one request. No clamping or unit
// conversion is applied.
type Prediction struct {
	Value float64
}

// Formatted renders the value with exactly two decimal places.
func (p Prediction) Formatted() string {
	return strconv.FormatFloat(p.Value, 'f', 2, 64)
}
