package model

import (
	"bytes"
	"encoding/gob"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// forest holds the options shared by both random forest kinds.
type forest struct {
	NEstimators int
	Bootstrap   bool
	Tree        TreeParams
}

// ForestOption functional config for random forests
type ForestOption func(*forest)

func WithNEstimators(n int) ForestOption { return func(f *forest) { f.NEstimators = n } }
func WithBootstrap(b bool) ForestOption  { return func(f *forest) { f.Bootstrap = b } }

// WithTreeOptions configures every tree; RandomState is the base seed,
// tree i is grown with RandomState+i.
func WithTreeOptions(opts ...Option) ForestOption {
	return func(f *forest) {
		for _, o := range opts {
			o(&f.Tree)
		}
	}
}

func newForest(opts []ForestOption) forest {
	f := forest{
		NEstimators: 100,
		Bootstrap:   true,
		Tree:        newTreeParams([]Option{WithRandomState(42)}),
	}
	for _, o := range opts {
		o(&f)
	}
	if f.NEstimators < 1 {
		f.NEstimators = 1
	}
	if f.Tree.MinSamplesLeaf < 1 {
		f.Tree.MinSamplesLeaf = 1
	}
	return f
}

// sample returns the hyperparameters and bootstrap sample for tree idx.
func (f forest) sample(idx, n int) (TreeParams, []int) {
	p := f.Tree
	p.RandomState = f.Tree.RandomState + int64(idx)
	treeRand := rand.New(rand.NewSource(p.RandomState))

	// Bootstrap sampling: an index slice, not a copy of the data.
	sampleIndices := make([]int, n)
	for j := 0; j < n; j++ {
		if f.Bootstrap {
			sampleIndices[j] = treeRand.Intn(n)
		} else {
			sampleIndices[j] = j
		}
	}
	return p, sampleIndices
}

// grow fits NEstimators trees concurrently, one goroutine each.
func (f forest) grow(n int, fit func(i int, p TreeParams, idx []int) error) error {
	var wg sync.WaitGroup
	errCh := make(chan error, f.NEstimators)
	for i := 0; i < f.NEstimators; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, idx := f.sample(i, n)
			if err := fit(i, p, idx); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	return <-errCh
}

func meanImportances(all [][]float64) []float64 {
	if len(all) == 0 {
		return nil
	}
	out := make([]float64, len(all[0]))
	for _, imp := range all {
		for j, v := range imp {
			out[j] += v / float64(len(all))
		}
	}
	return out
}

// ---------------------------
// Regressor
// ---------------------------

// RandomForestRegressor averages bootstrapped regression trees.
type RandomForestRegressor struct {
	forest
	Trees []*DecisionTreeRegressor
}

// NewRandomForestRegressor defaults to 100 unpruned trees with seed 42.
func NewRandomForestRegressor(opts ...ForestOption) *RandomForestRegressor {
	return &RandomForestRegressor{forest: newForest(opts)}
}

func (rf *RandomForestRegressor) Fit(X [][]float64, y []float64) error {
	if _, err := validateXY("randomforest", X, len(y)); err != nil {
		return err
	}
	rf.Trees = make([]*DecisionTreeRegressor, rf.NEstimators)
	return rf.grow(len(X), func(i int, p TreeParams, idx []int) error {
		tree := &DecisionTreeRegressor{TreeParams: p}
		if err := tree.fitIndices(X, y, idx); err != nil {
			return err
		}
		rf.Trees[i] = tree
		return nil
	})
}

// Predict returns the mean of the tree predictions.
func (rf *RandomForestRegressor) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(rf.Trees) == 0 {
		return out
	}
	for _, t := range rf.Trees {
		for i, v := range t.Predict(X) {
			out[i] += v
		}
	}
	for i := range out {
		out[i] /= float64(len(rf.Trees))
	}
	return out
}

func (rf *RandomForestRegressor) FeatureImportances() []float64 {
	all := make([][]float64, len(rf.Trees))
	for i, t := range rf.Trees {
		all[i] = t.importances
	}
	return meanImportances(all)
}

// ---------------------------
// Classifier
// ---------------------------

// RandomForestClassifier takes the majority vote of bootstrapped trees.
type RandomForestClassifier struct {
	forest
	Trees   []*DecisionTreeClassifier
	classes []int
}

func NewRandomForestClassifier(opts ...ForestOption) *RandomForestClassifier {
	return &RandomForestClassifier{forest: newForest(opts)}
}

func (rf *RandomForestClassifier) Fit(X [][]float64, y []float64) error {
	labels := make([]int, len(y))
	for i, v := range y {
		labels[i] = int(math.Round(v))
	}
	return rf.FitLabels(X, labels)
}

func (rf *RandomForestClassifier) FitLabels(X [][]float64, y []int) error {
	if _, err := validateXY("randomforest", X, len(y)); err != nil {
		return err
	}
	rf.classes = uniqueSorted(y)
	rf.Trees = make([]*DecisionTreeClassifier, rf.NEstimators)
	return rf.grow(len(X), func(i int, p TreeParams, idx []int) error {
		tree := &DecisionTreeClassifier{TreeParams: p}
		if err := tree.fitIndices(X, y, idx); err != nil {
			return err
		}
		rf.Trees[i] = tree
		return nil
	})
}

func (rf *RandomForestClassifier) Classes() []int { return append([]int(nil), rf.classes...) }

// Predict returns the majority vote of all trees. Ties go to the smaller label.
func (rf *RandomForestClassifier) Predict(X [][]float64) []float64 {
	n := len(X)
	finalPred := make([]float64, n)
	if len(rf.Trees) == 0 {
		return finalPred
	}
	allPreds := make([][]int, len(rf.Trees))
	var wg sync.WaitGroup
	for j, tree := range rf.Trees {
		wg.Add(1)
		go func(j int, t *DecisionTreeClassifier) {
			defer wg.Done()
			allPreds[j] = t.PredictLabels(X)
		}(j, tree)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		counts := make(map[int]int)
		for j := range allPreds {
			counts[allPreds[j][i]]++
		}
		bestClass, maxCount := 0, -1
		for _, cls := range rf.classes {
			if counts[cls] > maxCount {
				bestClass, maxCount = cls, counts[cls]
			}
		}
		finalPred[i] = float64(bestClass)
	}
	return finalPred
}

// PredictProba averages the tree distributions, aligned with Classes().
func (rf *RandomForestClassifier) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range out {
		out[i] = make([]float64, len(rf.classes))
	}
	for _, t := range rf.Trees {
		probas := t.PredictProba(X)
		for i, row := range probas {
			for k, p := range row {
				out[i][indexOf(rf.classes, t.classes[k])] += p / float64(len(rf.Trees))
			}
		}
	}
	return out
}

func (rf *RandomForestClassifier) FeatureImportances() []float64 {
	all := make([][]float64, len(rf.Trees))
	for i, t := range rf.Trees {
		all[i] = t.importances
	}
	return meanImportances(all)
}

// ---------------------------
// gob
// ---------------------------

type forestState struct {
	NEstimators int
	Bootstrap   bool
	Tree        TreeParams
	Trees       []treeState
	Classes     []int
}

func (f forest) state() forestState {
	return forestState{NEstimators: f.NEstimators, Bootstrap: f.Bootstrap, Tree: f.Tree}
}

func (f *forest) restore(s forestState) {
	f.NEstimators, f.Bootstrap, f.Tree = s.NEstimators, s.Bootstrap, s.Tree
}

func encodeForest(s forestState) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, errorf("randomforest: encode", err)
	}
	return buf.Bytes(), nil
}

func decodeForest(data []byte) (forestState, error) {
	var s forestState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return s, errorf("randomforest: decode", err)
	}
	return s, nil
}

func (rf *RandomForestRegressor) MarshalBinary() ([]byte, error) {
	if len(rf.Trees) == 0 {
		return nil, errorf("randomforest", ErrNotTrained)
	}
	s := rf.state()
	for _, t := range rf.Trees {
		s.Trees = append(s.Trees, treeState{Params: t.TreeParams, Root: t.root, NFeatures: t.nFeatures, Importances: t.importances})
	}
	return encodeForest(s)
}

func (rf *RandomForestRegressor) UnmarshalBinary(data []byte) error {
	s, err := decodeForest(data)
	if err != nil {
		return err
	}
	rf.restore(s)
	rf.Trees = make([]*DecisionTreeRegressor, len(s.Trees))
	for i, ts := range s.Trees {
		rf.Trees[i] = &DecisionTreeRegressor{TreeParams: ts.Params, root: ts.Root, nFeatures: ts.NFeatures, importances: ts.Importances}
	}
	return nil
}

func (rf *RandomForestClassifier) MarshalBinary() ([]byte, error) {
	if len(rf.Trees) == 0 {
		return nil, errorf("randomforest", ErrNotTrained)
	}
	s := rf.state()
	s.Classes = rf.classes
	for _, t := range rf.Trees {
		s.Trees = append(s.Trees, treeState{t.TreeParams, t.root, t.classes, t.nFeatures, t.importances})
	}
	return encodeForest(s)
}

func (rf *RandomForestClassifier) UnmarshalBinary(data []byte) error {
	s, err := decodeForest(data)
	if err != nil {
		return err
	}
	rf.restore(s)
	rf.classes = s.Classes
	rf.Trees = make([]*DecisionTreeClassifier, len(s.Trees))
	for i, ts := range s.Trees {
		rf.Trees[i] = &DecisionTreeClassifier{TreeParams: ts.Params, root: ts.Root, classes: ts.Classes, nFeatures: ts.NFeatures, importances: ts.Importances}
	}
	return nil
}

func uniqueSorted(y []int) []int {
	set := map[int]struct{}{}
	for _, v := range y {
		set[v] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}
