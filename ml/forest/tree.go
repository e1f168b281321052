package forest

import (
	"math/rand"
	"sort"
)

// impurityFloor treats a node as pure.
const impurityFloor = 1e-12

type node struct {
	feature   int // -1 marks a leaf
	threshold float64
	left      *node
	right     *node
	value     []float64 // class probabilities, or the single mean for regression
}

func (n *node) leaf(x []float64) *node {
	cur := n
	for cur.feature >= 0 {
		if x[cur.feature] <= cur.threshold {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}
	return cur
}

// builder grows one tree at a time over a bootstrap sample of row indices.
type builder struct {
	task     Task
	X        [][]float64
	yClass   []int
	yReg     []float64
	nClasses int

	maxFeatures int
	maxDepth    int
	minSplit    int
	minLeaf     int

	rnd        *rand.Rand
	importance []float64
}

type split struct {
	feature   int
	threshold float64
	pos       int     // rows [0,pos) of the sorted order go left
	cost      float64 // weighted child impurity, n_l*imp_l + n_r*imp_r
	order     []int
}

func (b *builder) build(idx []int, depth int) *node {
	value, cost := b.summarize(idx)
	leaf := &node{feature: -1, value: value}

	if len(idx) < b.minSplit || len(idx) < 2*b.minLeaf {
		return leaf
	}
	if b.maxDepth > 0 && depth >= b.maxDepth {
		return leaf
	}
	if cost <= impurityFloor || b.constantTarget(idx) {
		return leaf
	}

	best, ok := b.bestSplit(idx)
	if !ok {
		return leaf
	}

	if decrease := cost - best.cost; decrease > 0 {
		b.importance[best.feature] += decrease
	}

	left := append([]int(nil), best.order[:best.pos]...)
	right := append([]int(nil), best.order[best.pos:]...)

	return &node{
		feature:   best.feature,
		threshold: best.threshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

// summarize returns the leaf value of a node and its total impurity
// (n * gini for classification, sum of squared errors for regression).
func (b *builder) summarize(idx []int) ([]float64, float64) {
	n := float64(len(idx))
	if b.task == Classification {
		counts := make([]float64, b.nClasses)
		for _, i := range idx {
			counts[b.yClass[i]]++
		}
		sumSq := 0.0
		for c := range counts {
			sumSq += counts[c] * counts[c]
			counts[c] /= n
		}
		return counts, n - sumSq/n
	}

	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += b.yReg[i]
		sumSq += b.yReg[i] * b.yReg[i]
	}
	sse := sumSq - sum*sum/n
	if sse < 0 {
		sse = 0
	}
	return []float64{sum / n}, sse
}

func (b *builder) constantTarget(idx []int) bool {
	if b.task == Classification {
		return false
	}
	first := b.yReg[idx[0]]
	for _, i := range idx[1:] {
		if b.yReg[i] != first {
			return false
		}
	}
	return true
}

// bestSplit visits features in random order until maxFeatures non-constant
// features have been evaluated.
func (b *builder) bestSplit(idx []int) (split, bool) {
	var best split
	found := false
	visited := 0

	for _, f := range b.rnd.Perm(len(b.X[0])) {
		if visited >= b.maxFeatures {
			break
		}

		order := append([]int(nil), idx...)
		sort.SliceStable(order, func(a, c int) bool {
			return b.X[order[a]][f] < b.X[order[c]][f]
		})
		if b.X[order[0]][f] == b.X[order[len(order)-1]][f] {
			continue
		}
		visited++

		cand, ok := b.scan(order, f)
		if ok && (!found || cand.cost < best.cost) {
			best = cand
			found = true
		}
	}
	return best, found
}

// scan sweeps the sorted rows once, updating child statistics incrementally.
func (b *builder) scan(order []int, f int) (split, bool) {
	n := len(order)
	var best split
	found := false

	consider := func(pos int, cost float64) {
		lo := b.X[order[pos-1]][f]
		hi := b.X[order[pos]][f]
		if lo == hi || pos < b.minLeaf || n-pos < b.minLeaf {
			return
		}
		if found && cost >= best.cost {
			return
		}
		thr := lo + (hi-lo)/2
		if thr >= hi {
			thr = lo
		}
		best = split{feature: f, threshold: thr, pos: pos, cost: cost, order: order}
		found = true
	}

	if b.task == Classification {
		left := make([]float64, b.nClasses)
		right := make([]float64, b.nClasses)
		for _, i := range order {
			right[b.yClass[i]]++
		}
		leftSq, rightSq := 0.0, 0.0
		for _, c := range right {
			rightSq += c * c
		}

		for pos := 1; pos < n; pos++ {
			c := b.yClass[order[pos-1]]
			leftSq += 2*left[c] + 1
			left[c]++
			rightSq -= 2*right[c] - 1
			right[c]--

			nl, nr := float64(pos), float64(n-pos)
			cost := (nl - leftSq/nl) + (nr - rightSq/nr)
			consider(pos, cost)
		}
		return best, found
	}

	totalSum, totalSq := 0.0, 0.0
	for _, i := range order {
		totalSum += b.yReg[i]
		totalSq += b.yReg[i] * b.yReg[i]
	}
	leftSum, leftSq := 0.0, 0.0
	for pos := 1; pos < n; pos++ {
		y := b.yReg[order[pos-1]]
		leftSum += y
		leftSq += y * y

		nl, nr := float64(pos), float64(n-pos)
		rightSum, rightSq := totalSum-leftSum, totalSq-leftSq
		cost := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
		consider(pos, cost)
	}
	return best, found
}
