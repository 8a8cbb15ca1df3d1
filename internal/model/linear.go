package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// KindLinear identifies an ordinary least squares model.
const KindLinear = "linear"

// Linear computes intercept + coefficients·row.
type Linear struct {
	coef      *mat.VecDense
	intercept float64
}

// NewLinear validates and builds a linear model. coefficients must have one
// entry per feature column.
func NewLinear(coefficients []float64, intercept float64) (*Linear, error) {
	if len(coefficients) != NumFeatures {
		return nil, fmt.Errorf("linear model needs %d coefficients, got %d", NumFeatures, len(coefficients))
	}
	if err := checkFinite("coefficients", coefficients...); err != nil {
		return nil, err
	}
	if err := checkFinite("intercept", intercept); err != nil {
		return nil, err
	}
	c := make([]float64, NumFeatures)
	copy(c, coefficients)
	return &Linear{coef: mat.NewVecDense(NumFeatures, c), intercept: intercept}, nil
}

// Predict evaluates all rows in one matrix-vector product.
func (l *Linear) Predict(rows []Features) ([]float64, error) {
	if len(rows) == 0 {
		return nil, inferenceErr("no rows to predict")
	}
	data := make([]float64, 0, len(rows)*NumFeatures)
	for _, r := range rows {
		data = append(data, r.Vector()...)
	}
	x := mat.NewDense(len(rows), NumFeatures, data)

	var y mat.VecDense
	y.MulVec(x, l.coef)

	out := make([]float64, len(rows))
	for i := range out {
		out[i] = y.AtVec(i) + l.intercept
	}
	return out, nil
}

func (l *Linear) Kind() string { return KindLinear }
