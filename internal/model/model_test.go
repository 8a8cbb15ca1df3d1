package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeaturesVectorOrder(t *testing.T) {
	f := Features{CountryCode: 7, AirQuality: 50, PM25: 10}
	assert.Equal(t, []float64{7, 50, 10}, f.Vector())
}

func TestLinear(t *testing.T) {
	m, err := NewLinear([]float64{0.5, 0.1, 0.2}, 3)
	require.NoError(t, err)
	assert.Equal(t, KindLinear, m.Kind())

	got, err := m.Predict([]Features{
		{CountryCode: 2, AirQuality: 50, PM25: 10},
		{CountryCode: 0, AirQuality: 0, PM25: 0},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 3+1+5+2, got[0], 1e-9)
	assert.InDelta(t, 3, got[1], 1e-9)
}

func TestLinearRejectsBadSpec(t *testing.T) {
	_, err := NewLinear([]float64{1, 2}, 0)
	assert.ErrorContains(t, err, "3 coefficients")

	_, err = NewLinear([]float64{1, math.NaN(), 2}, 0)
	assert.ErrorContains(t, err, "not finite")

	_, err = NewLinear([]float64{1, 1, 1}, math.Inf(1))
	assert.ErrorContains(t, err, "intercept")
}

func TestLinearEmptyInput(t *testing.T) {
	m, err := NewLinear([]float64{1, 1, 1}, 0)
	require.NoError(t, err)

	_, err = m.Predict(nil)
	assert.True(t, errors.Is(err, ErrInference))
}

// stump splits on air quality at 100.
func stump(low, high float64) Tree {
	return Tree{
		Left:      []int{1, -1, -1},
		Right:     []int{2, -1, -1},
		Feature:   []int{ColumnAirQuality, 0, 0},
		Threshold: []float64{100, 0, 0},
		Value:     []float64{0, low, high},
	}
}

func TestForestMean(t *testing.T) {
	f, err := NewForest(ForestSpec{Trees: []Tree{stump(1, 3), stump(3, 5)}})
	require.NoError(t, err)
	assert.Equal(t, KindForest, f.Kind())

	got, err := f.Predict([]Features{
		{AirQuality: 100},
		{AirQuality: 100.5},
	})
	require.NoError(t, err)
	assert.InDelta(t, 2, got[0], 1e-9, "threshold is inclusive on the left")
	assert.InDelta(t, 4, got[1], 1e-9)
}

func TestForestSum(t *testing.T) {
	f, err := NewForest(ForestSpec{
		Aggregation:  AggregateSum,
		LearningRate: 0.5,
		BaseScore:    10,
		Trees:        []Tree{stump(2, 4), stump(2, 4)},
	})
	require.NoError(t, err)

	got, err := f.Predict([]Features{{AirQuality: 150}})
	require.NoError(t, err)
	assert.InDelta(t, 10+0.5*8, got[0], 1e-9)
}

func TestForestNaNGoesRight(t *testing.T) {
	f, err := NewForest(ForestSpec{Trees: []Tree{stump(1, 9)}})
	require.NoError(t, err)

	got, err := f.Predict([]Features{{AirQuality: math.NaN()}})
	require.NoError(t, err)
	assert.Equal(t, 9.0, got[0])
}

func TestForestValidation(t *testing.T) {
	cases := map[string]Tree{
		"no nodes":        {},
		"length mismatch": {Left: []int{-1}, Right: []int{-1, -1}, Feature: []int{0}, Threshold: []float64{0}, Value: []float64{1}},
		"backward child":  {Left: []int{0}, Right: []int{0}, Feature: []int{0}, Threshold: []float64{0}, Value: []float64{1}},
		"bad feature": {
			Left: []int{1, -1, -1}, Right: []int{2, -1, -1},
			Feature: []int{5, 0, 0}, Threshold: []float64{0, 0, 0}, Value: []float64{0, 1, 2},
		},
		"half leaf": {Left: []int{-1}, Right: []int{3}, Feature: []int{0}, Threshold: []float64{0}, Value: []float64{1}},
	}
	for name, tree := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewForest(ForestSpec{Trees: []Tree{tree}})
			assert.Error(t, err)
		})
	}

	t.Run("no trees", func(t *testing.T) {
		_, err := NewForest(ForestSpec{})
		assert.ErrorContains(t, err, "no trees")
	})

	t.Run("unknown aggregation", func(t *testing.T) {
		_, err := NewForest(ForestSpec{Aggregation: "median", Trees: []Tree{stump(1, 2)}})
		assert.ErrorContains(t, err, "median")
	})
}

func TestFunc(t *testing.T) {
	var r Regressor = Func(func(rows []Features) ([]float64, error) {
		return []float64{float64(len(rows))}, nil
	})
	got, err := r.Predict(make([]Features, 4))
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, got)
	assert.Equal(t, "func", r.Kind())
}
