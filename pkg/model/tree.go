package model

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// TreeParams are the CART hyperparameters shared by trees and forests.
type TreeParams struct {
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	MaxFeatures         int     // 0 => use all features, >0 => number of features sampled per split
	MinImpurityDecrease float64 // minimal weighted impurity decrease to accept a split
	Criterion           string  // classifiers only: "gini" (default) or "entropy"
	RandomState         int64   // seed for feature subsampling
}

// Option functional config
type Option func(*TreeParams)

func WithMaxDepth(d int) Option         { return func(p *TreeParams) { p.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option  { return func(p *TreeParams) { p.MinSamplesSplit = n } }
func WithMinSamplesLeaf(n int) Option   { return func(p *TreeParams) { p.MinSamplesLeaf = n } }
func WithMaxFeatures(k int) Option      { return func(p *TreeParams) { p.MaxFeatures = k } }
func WithCriterion(c string) Option     { return func(p *TreeParams) { p.Criterion = c } }
func WithRandomState(seed int64) Option { return func(p *TreeParams) { p.RandomState = seed } }
func WithMinImpurityDecrease(v float64) Option {
	return func(p *TreeParams) { p.MinImpurityDecrease = v }
}

func newTreeParams(opts []Option) TreeParams {
	p := TreeParams{
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       "gini",
		RandomState:     time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(&p)
	}
	if p.MinSamplesLeaf < 1 {
		p.MinSamplesLeaf = 1
	}
	return p
}

// treeNode is one node of a fitted tree. Fields are exported for gob.
type treeNode struct {
	Leaf      bool
	Feature   int
	Threshold float64 // x <= Threshold => Left
	Left      *treeNode
	Right     *treeNode

	N      int
	Value  float64   // regression leaf mean
	Probas []float64 // classification leaf distribution, aligned with classes
}

func (n *treeNode) find(x []float64) *treeNode {
	node := n
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}

func (n *treeNode) depth() int {
	if n == nil || n.Leaf {
		return 0
	}
	return 1 + max(n.Left.depth(), n.Right.depth())
}

func (n *treeNode) leaves() int {
	if n == nil {
		return 0
	}
	if n.Leaf {
		return 1
	}
	return n.Left.leaves() + n.Right.leaves()
}

// criterion tracks the loss (impurity x count) of a node while samples move,
// in ascending feature order, from the right child into the left one.
type criterion interface {
	reset(idx []int)
	push(i int)
	loss() (node, left, right float64)
}

// grower builds a tree top-down. leaf turns a sample set into a terminal node.
type grower struct {
	params      TreeParams
	X           [][]float64
	newCrit     func() criterion
	leaf        func(idx []int) *treeNode
	rnd         *rand.Rand
	nFeatures   int
	total       float64
	importances []float64
}

// A struct to hold the results of a single feature's best split search.
type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	leftIdx   []int
	rightIdx  []int
}

// pair is a named type for a value and its original index.
type pair struct {
	v float64
	i int
}

func (g *grower) fit(idx []int) *treeNode {
	g.total = float64(len(idx))
	g.importances = make([]float64, g.nFeatures)
	root := g.grow(idx, 0)

	sum := 0.0
	for _, v := range g.importances {
		sum += v
	}
	if sum > 0 {
		for j := range g.importances {
			g.importances[j] /= sum
		}
	}
	return root
}

func (g *grower) grow(idx []int, depth int) *treeNode {
	p := g.params
	if len(idx) < p.MinSamplesSplit || len(idx) < 2*p.MinSamplesLeaf || (p.MaxDepth > 0 && depth >= p.MaxDepth) {
		return g.leaf(idx)
	}
	c := g.newCrit()
	c.reset(idx)
	if parent, _, _ := c.loss(); parent <= 1e-12 {
		return g.leaf(idx)
	}

	feats := g.candidateFeatures()
	results := make([]splitResult, len(feats))
	var wg sync.WaitGroup

	// Parallel search for the best split for each feature.
	for k, f := range feats {
		wg.Add(1)
		go func(k, f int) {
			defer wg.Done()
			results[k] = g.splitFeature(idx, f)
		}(k, f)
	}
	wg.Wait()

	best := splitResult{feature: -1}
	for _, r := range results {
		if r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}
	if best.feature < 0 || best.gain <= 1e-12 || best.gain/g.total < p.MinImpurityDecrease {
		return g.leaf(idx)
	}

	g.importances[best.feature] += best.gain / g.total
	return &treeNode{
		Feature:   best.feature,
		Threshold: best.threshold,
		N:         len(idx),
		Left:      g.grow(best.leftIdx, depth+1),
		Right:     g.grow(best.rightIdx, depth+1),
	}
}

func (g *grower) candidateFeatures() []int {
	p := g.nFeatures
	featIndices := make([]int, p)
	for j := 0; j < p; j++ {
		featIndices[j] = j
	}
	if g.params.MaxFeatures > 0 && g.params.MaxFeatures < p {
		g.rnd.Shuffle(p, func(i, j int) { featIndices[i], featIndices[j] = featIndices[j], featIndices[i] })
		featIndices = featIndices[:g.params.MaxFeatures]
		sort.Ints(featIndices)
	}
	return featIndices
}

// splitFeature scans every threshold between distinct values of feature f.
func (g *grower) splitFeature(idx []int, f int) splitResult {
	result := splitResult{feature: -1}

	valid := make([]pair, len(idx))
	for k, ii := range idx {
		valid[k] = pair{g.X[ii][f], ii}
	}
	sort.SliceStable(valid, func(a, b int) bool { return valid[a].v < valid[b].v })

	c := g.newCrit()
	c.reset(idx)
	minLeaf := g.params.MinSamplesLeaf
	split := -1
	for s := 1; s < len(valid); s++ {
		c.push(valid[s-1].i)
		if valid[s].v == valid[s-1].v {
			continue
		}
		if s < minLeaf || len(valid)-s < minLeaf {
			continue
		}
		node, l, r := c.loss()
		gain := node - l - r
		if gain > result.gain {
			result.gain = gain
			result.feature = f
			result.threshold = (valid[s-1].v + valid[s].v) / 2.0
			split = s
		}
	}
	if split < 0 {
		return splitResult{feature: -1}
	}
	result.leftIdx = indicesFromPairs(valid[:split])
	result.rightIdx = indicesFromPairs(valid[split:])
	return result
}

func indicesFromPairs(pairs []pair) []int {
	out := make([]int, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.i)
	}
	return out
}

// ---------------------------
// Criteria
// ---------------------------

// mseCriterion measures the sum of squared errors around the mean.
type mseCriterion struct {
	y                  []float64
	n, nl              int
	sum, sumSq         float64
	leftSum, leftSumSq float64
}

func (c *mseCriterion) reset(idx []int) {
	c.n, c.nl = len(idx), 0
	c.sum, c.sumSq, c.leftSum, c.leftSumSq = 0, 0, 0, 0
	for _, i := range idx {
		c.sum += c.y[i]
		c.sumSq += c.y[i] * c.y[i]
	}
}

func (c *mseCriterion) push(i int) {
	c.nl++
	c.leftSum += c.y[i]
	c.leftSumSq += c.y[i] * c.y[i]
}

func (c *mseCriterion) loss() (node, left, right float64) {
	return sse(c.n, c.sum, c.sumSq),
		sse(c.nl, c.leftSum, c.leftSumSq),
		sse(c.n-c.nl, c.sum-c.leftSum, c.sumSq-c.leftSumSq)
}

func sse(n int, sum, sumSq float64) float64 {
	if n == 0 {
		return 0
	}
	return math.Max(0, sumSq-sum*sum/float64(n))
}

// classCriterion measures count x gini (or entropy) over class indices.
type classCriterion struct {
	y       []int
	entropy bool
	total   []int
	left    []int
	n, nl   int
}

func (c *classCriterion) reset(idx []int) {
	for k := range c.total {
		c.total[k], c.left[k] = 0, 0
	}
	c.n, c.nl = len(idx), 0
	for _, i := range idx {
		c.total[c.y[i]]++
	}
}

func (c *classCriterion) push(i int) {
	c.nl++
	c.left[c.y[i]]++
}

func (c *classCriterion) loss() (node, left, right float64) {
	imp := giniFromCounts
	if c.entropy {
		imp = entropyFromCounts
	}
	rc := make([]int, len(c.total))
	for k := range rc {
		rc[k] = c.total[k] - c.left[k]
	}
	return float64(c.n) * imp(c.total), float64(c.nl) * imp(c.left), float64(c.n-c.nl) * imp(rc)
}

func giniFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := float64(c) / n
		res += p * (1 - p)
	}
	return res
}

func entropyFromCounts(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		res -= p * math.Log2(p)
	}
	return res
}

func validateXY(prefix string, X [][]float64, n int) (int, error) {
	if len(X) == 0 {
		return 0, errorf(prefix, ErrEmptyInput)
	}
	if n != len(X) {
		return 0, errorf(prefix, ErrShapeMismatch)
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return 0, errorf(prefix, ErrShapeMismatch)
		}
	}
	return p, nil
}
