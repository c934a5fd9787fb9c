package model

import (
	"math/rand"
)

// DecisionTreeRegressor is a CART regressor splitting on variance reduction.
type DecisionTreeRegressor struct {
	TreeParams

	root        *treeNode
	nFeatures   int
	importances []float64
}

// NewDecisionTreeRegressor defaults to MaxDepth 10, MinSamplesSplit 5,
// MinSamplesLeaf 2 and RandomState 42.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	defaults := []Option{
		WithMaxDepth(10),
		WithMinSamplesSplit(5),
		WithMinSamplesLeaf(2),
		WithRandomState(42),
	}
	return &DecisionTreeRegressor{TreeParams: newTreeParams(append(defaults, opts...))}
}

func (t *DecisionTreeRegressor) Fit(X [][]float64, y []float64) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.fitIndices(X, y, idx)
}

func (t *DecisionTreeRegressor) fitIndices(X [][]float64, y []float64, idx []int) error {
	p, err := validateXY("regtree", X, len(y))
	if err != nil {
		return err
	}
	g := &grower{
		params:    t.TreeParams,
		X:         X,
		nFeatures: p,
		rnd:       rand.New(rand.NewSource(t.RandomState)),
		newCrit:   func() criterion { return &mseCriterion{y: y} },
		leaf: func(idx []int) *treeNode {
			sum := 0.0
			for _, i := range idx {
				sum += y[i]
			}
			return &treeNode{Leaf: true, N: len(idx), Value: sum / float64(len(idx))}
		},
	}
	t.nFeatures = p
	t.root = g.fit(idx)
	t.importances = g.importances
	return nil
}

// Predict returns the leaf mean for every row; an unfitted tree predicts zeros.
func (t *DecisionTreeRegressor) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if t.root == nil {
		return out
	}
	for i := range X {
		out[i] = t.root.find(X[i]).Value
	}
	return out
}

func (t *DecisionTreeRegressor) FeatureImportances() []float64 {
	return append([]float64(nil), t.importances...)
}

func (t *DecisionTreeRegressor) Depth() int  { return t.root.depth() }
func (t *DecisionTreeRegressor) Leaves() int { return t.root.leaves() }

func (t *DecisionTreeRegressor) MarshalBinary() ([]byte, error) {
	if t.root == nil {
		return nil, errorf("regtree", ErrNotTrained)
	}
	return encodeTree(treeState{Params: t.TreeParams, Root: t.root, NFeatures: t.nFeatures, Importances: t.importances})
}

func (t *DecisionTreeRegressor) UnmarshalBinary(data []byte) error {
	s, err := decodeTree(data)
	if err != nil {
		return err
	}
	t.TreeParams, t.root, t.nFeatures, t.importances = s.Params, s.Root, s.NFeatures, s.Importances
	return nil
}
