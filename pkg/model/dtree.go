package model

import (
	"bytes"
	"encoding/gob"
	"math"
	"math/rand"
	"sort"
)

// ---------------------------
// Types & options
// ---------------------------

// DecisionTreeClassifier is a CART-style classifier.
type DecisionTreeClassifier struct {
	TreeParams

	// internals
	root        *treeNode
	classes     []int // unique class labels (order used by probas)
	nFeatures   int
	importances []float64
}

// treeState is the gob form shared by both tree kinds.
type treeState struct {
	Params      TreeParams
	Root        *treeNode
	Classes     []int
	NFeatures   int
	Importances []float64
}

// NewDecisionTreeClassifier creates a tree with gini impurity and no depth limit by default.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	return &DecisionTreeClassifier{TreeParams: newTreeParams(opts)}
}

// Fit builds the tree. y holds integer class labels encoded as float64.
func (t *DecisionTreeClassifier) Fit(X [][]float64, y []float64) error {
	labels := make([]int, len(y))
	for i, v := range y {
		labels[i] = int(math.Round(v))
	}
	return t.FitLabels(X, labels)
}

// FitLabels builds the tree from integer class labels.
func (t *DecisionTreeClassifier) FitLabels(X [][]float64, y []int) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.fitIndices(X, y, idx)
}

// fitIndices grows the tree on the rows named by idx (duplicates allowed).
func (t *DecisionTreeClassifier) fitIndices(X [][]float64, y []int, idx []int) error {
	p, err := validateXY("dtree", X, len(y))
	if err != nil {
		return err
	}

	// collect class labels
	set := map[int]struct{}{}
	for _, v := range y {
		set[v] = struct{}{}
	}
	t.classes = t.classes[:0]
	for c := range set {
		t.classes = append(t.classes, c)
	}
	sort.Ints(t.classes)

	yIdx := make([]int, len(y))
	for i, v := range y {
		yIdx[i] = sort.SearchInts(t.classes, v)
	}
	nClasses := len(t.classes)

	g := &grower{
		params:    t.TreeParams,
		X:         X,
		nFeatures: p,
		rnd:       rand.New(rand.NewSource(t.RandomState)),
		newCrit: func() criterion {
			return &classCriterion{
				y:       yIdx,
				entropy: t.Criterion == "entropy",
				total:   make([]int, nClasses),
				left:    make([]int, nClasses),
			}
		},
		leaf: func(idx []int) *treeNode {
			counts := make([]int, nClasses)
			for _, i := range idx {
				counts[yIdx[i]]++
			}
			return &treeNode{Leaf: true, N: len(idx), Probas: countsToProbas(counts)}
		},
	}
	t.nFeatures = p
	t.root = g.fit(idx)
	t.importances = g.importances
	return nil
}

// Classes returns the sorted class labels seen during Fit.
func (t *DecisionTreeClassifier) Classes() []int { return append([]int(nil), t.classes...) }

// Predict returns the most probable class per row. Ties go to the smaller label.
func (t *DecisionTreeClassifier) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range t.PredictLabels(X) {
		out[i] = float64(row)
	}
	return out
}

// PredictLabels is Predict with integer labels.
func (t *DecisionTreeClassifier) PredictLabels(X [][]float64) []int {
	out := make([]int, len(X))
	if t.root == nil {
		return out
	}
	for i := range X {
		out[i] = t.classes[argmaxFloat(t.root.find(X[i]).Probas)]
	}
	return out
}

func (t *DecisionTreeClassifier) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		if t.root == nil {
			continue
		}
		out[i] = append([]float64(nil), t.root.find(X[i]).Probas...)
	}
	return out
}

// FeatureImportances returns the normalized total impurity decrease per feature.
func (t *DecisionTreeClassifier) FeatureImportances() []float64 {
	return append([]float64(nil), t.importances...)
}

// Depth returns the depth of the fitted tree.
func (t *DecisionTreeClassifier) Depth() int { return t.root.depth() }

// Leaves returns the number of leaves.
func (t *DecisionTreeClassifier) Leaves() int { return t.root.leaves() }

// MarshalBinary implements encoding.BinaryMarshaler using gob.
func (t *DecisionTreeClassifier) MarshalBinary() ([]byte, error) {
	if t.root == nil {
		return nil, errorf("dtree", ErrNotTrained)
	}
	return encodeTree(treeState{t.TreeParams, t.root, t.classes, t.nFeatures, t.importances})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using gob.
func (t *DecisionTreeClassifier) UnmarshalBinary(data []byte) error {
	s, err := decodeTree(data)
	if err != nil {
		return err
	}
	t.TreeParams, t.root, t.classes, t.nFeatures, t.importances = s.Params, s.Root, s.Classes, s.NFeatures, s.Importances
	return nil
}

func encodeTree(s treeState) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, errorf("dtree: encode", err)
	}
	return buf.Bytes(), nil
}

func decodeTree(data []byte) (treeState, error) {
	var s treeState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return s, errorf("dtree: decode", err)
	}
	return s, nil
}

func countsToProbas(counts []int) []float64 {
	n := 0
	for _, c := range counts {
		n += c
	}
	out := make([]float64, len(counts))
	if n == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = float64(c) / float64(n)
	}
	return out
}

func argmaxFloat(arr []float64) int {
	best := 0
	for i := 1; i < len(arr); i++ {
		if arr[i] > arr[best] {
			best = i
		}
	}
	return best
}
