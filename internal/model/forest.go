package model

import (
	"fmt"
)

// KindForest identifies a decision tree ensemble.
const KindForest = "forest"

// Aggregation strategies for combining tree outputs.
const (
	// AggregateMean averages leaf values (random forest).
	AggregateMean = "mean"
	// AggregateSum adds learning_rate * leaf to a base score (gradient boosting).
	AggregateSum = "sum"
)

// Tree is a binary regression tree in flat array form. Node i is a leaf when
// Left[i] == -1; otherwise rows with x[Feature[i]] <= Threshold[i] descend to
// Left[i] and all others (including NaN) to Right[i].
type Tree struct {
	Left      []int     `json:"children_left"`
	Right     []int     `json:"children_right"`
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Value     []float64 `json:"value"`
}

// ForestSpec is the serialized form of an ensemble.
type ForestSpec struct {
	Aggregation  string  `json:"aggregation"`
	LearningRate float64 `json:"learning_rate,omitempty"`
	BaseScore    float64 `json:"base_score,omitempty"`
	Trees        []Tree  `json:"trees"`
}

// Forest evaluates an ensemble of regression trees.
type Forest struct {
	trees        []Tree
	aggregation  string
	learningRate float64
	baseScore    float64
}

// NewForest validates every tree and builds the ensemble.
func NewForest(spec ForestSpec) (*Forest, error) {
	if len(spec.Trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	agg := spec.Aggregation
	if agg == "" {
		agg = AggregateMean
	}
	lr := spec.LearningRate
	switch agg {
	case AggregateMean:
	case AggregateSum:
		if lr == 0 {
			lr = 1
		}
		if err := checkFinite("learning_rate", lr); err != nil {
			return nil, err
		}
		if err := checkFinite("base_score", spec.BaseScore); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown forest aggregation %q", agg)
	}
	for i, t := range spec.Trees {
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return &Forest{
		trees:        spec.Trees,
		aggregation:  agg,
		learningRate: lr,
		baseScore:    spec.BaseScore,
	}, nil
}

// Predict evaluates each row against every tree.
func (f *Forest) Predict(rows []Features) ([]float64, error) {
	if len(rows) == 0 {
		return nil, inferenceErr("no rows to predict")
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		x := r.Vector()
		var sum float64
		for _, t := range f.trees {
			sum += t.eval(x)
		}
		switch f.aggregation {
		case AggregateSum:
			out[i] = f.baseScore + f.learningRate*sum
		default:
			out[i] = sum / float64(len(f.trees))
		}
	}
	return out, nil
}

func (f *Forest) Kind() string { return KindForest }

func (t Tree) eval(x []float64) float64 {
	node := 0
	for t.Left[node] != -1 {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return t.Value[node]
}

// validate guarantees eval terminates and never indexes out of range: children
// always point forward, so every path is acyclic.
func (t Tree) validate() error {
	n := len(t.Value)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.Left) != n || len(t.Right) != n || len(t.Feature) != n || len(t.Threshold) != n {
		return fmt.Errorf("node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		l, r := t.Left[i], t.Right[i]
		if l == -1 {
			if r != -1 {
				return fmt.Errorf("node %d has a right child but no left child", i)
			}
			if err := checkFinite("value", t.Value[i]); err != nil {
				return fmt.Errorf("node %d: %w", i, err)
			}
			continue
		}
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has invalid children %d/%d", i, l, r)
		}
		if f := t.Feature[i]; f < 0 || f >= NumFeatures {
			return fmt.Errorf("node %d splits on unknown feature %d", i, f)
		}
	}
	return nil
}
