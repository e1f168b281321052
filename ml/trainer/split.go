package trainer

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrDegenerateSplit is returned when a partition would be empty.
var ErrDegenerateSplit = errors.New("degenerate train/test split")

// Split holds the row indices of the train and test partitions.
type Split struct {
	Train []int
	Test  []int
}

// TrainTestSplit shuffles n row indices with a seeded source and carves off
// ceil(testRatio*n) rows for testing. The same n, ratio and seed always yield
// the same partition.
func TrainTestSplit(n int, testRatio float64, seed int64) (Split, error) {
	if testRatio <= 0 || testRatio >= 1 {
		return Split{}, fmt.Errorf("%w: test ratio %v must be in (0, 1)", ErrDegenerateSplit, testRatio)
	}

	nTest := int(math.Ceil(testRatio * float64(n)))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return Split{}, fmt.Errorf("%w: %d rows give %d train / %d test", ErrDegenerateSplit, n, nTrain, nTest)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n) // #nosec G404
	return Split{Train: perm[nTest:], Test: perm[:nTest]}, nil
}

func selectRows(X [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = X[j]
	}
	return out
}

func selectInts(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}

func selectFloats(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
