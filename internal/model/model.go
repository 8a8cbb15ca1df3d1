// Package model holds the pre-trained regressors that turn an encoded feature
// row into a pollution score. Regressors are immutable once built and are safe
// for concurrent use.
package model

import (
	"errors"
	"fmt"
	"math"
)

// NumFeatures is the width of a feature row.
const NumFeatures = 3

// Feature column indices, in the order the model was trained on.
const (
	ColumnCountry = iota
	ColumnAirQuality
	ColumnPM25
)

// ErrInference wraps every failure raised while producing predictions.
var ErrInference = errors.New("model inference failed")

// Features is one input row: (country_code, air_quality, pm25). Values are
// passed through as given; no range checks or clamping happen here.
type Features struct {
	CountryCode int
	AirQuality  float64
	PM25        float64
}

// Vector returns the row in training column order.
func (f Features) Vector() []float64 {
	v := make([]float64, NumFeatures)
	v[ColumnCountry] = float64(f.CountryCode)
	v[ColumnAirQuality] = f.AirQuality
	v[ColumnPM25] = f.PM25
	return v
}

// Regressor predicts one value per input row.
type Regressor interface {
	Predict(rows []Features) ([]float64, error)
	Kind() string
}

// Func adapts a plain function to Regressor. Useful for tests and for
// wrapping remote models.
type Func func(rows []Features) ([]float64, error)

func (f Func) Predict(rows []Features) ([]float64, error) { return f(rows) }

func (f Func) Kind() string { return "func" }

func inferenceErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInference, fmt.Sprintf(format, args...))
}

func checkFinite(name string, vals ...float64) error {
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s[%d] is not finite", name, i)
		}
	}
	return nil
}
