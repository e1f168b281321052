// Package forest implements bagged CART random forests for classification and regression.
package forest

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	// ErrEmptyTrainingSet is returned when there are no rows to fit on.
	ErrEmptyTrainingSet = errors.New("empty training set")
	// ErrShapeMismatch is returned when rows, targets or feature widths disagree.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidConfig is returned for a forest configuration that cannot be fitted.
	ErrInvalidConfig = errors.New("invalid forest config")
	// ErrInvalidLabel is returned when a class label falls outside [0, nClasses).
	ErrInvalidLabel = errors.New("invalid class label")
)

// Task selects the kind of model a forest is.
type Task int

const (
	// Classification forests vote on class probabilities.
	Classification Task = iota
	// Regression forests average tree outputs.
	Regression
)

func (t Task) String() string {
	if t == Regression {
		return "regression"
	}
	return "classification"
}

// Config holds the forest hyperparameters.
type Config struct {
	Trees           int
	MaxDepth        int // 0 grows until leaves are pure
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 picks floor(sqrt(p)) for classification and p for regression
	Seed            int64
}

// DefaultConfig returns 100 fully grown trees seeded with 42.
func DefaultConfig() Config {
	return Config{
		Trees:           100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Seed:            42,
	}
}

func (c Config) validate() error {
	if c.Trees < 1 {
		return fmt.Errorf("%w: trees must be >= 1, got %d", ErrInvalidConfig, c.Trees)
	}
	if c.MaxDepth < 0 || c.MaxFeatures < 0 {
		return fmt.Errorf("%w: negative depth or feature count", ErrInvalidConfig)
	}
	return nil
}

func (c Config) maxFeatures(task Task, p int) int {
	m := c.MaxFeatures
	if m == 0 {
		if task == Classification {
			m = int(math.Sqrt(float64(p)))
		} else {
			m = p
		}
	}
	if m < 1 {
		m = 1
	}
	if m > p {
		m = p
	}
	return m
}

// Forest is a fitted ensemble of decision trees.
type Forest struct {
	task        Task
	nFeatures   int
	nClasses    int
	trees       []*node
	importances []float64
}

// FitClassifier fits a classification forest. Labels must lie in [0, nClasses).
func FitClassifier(X [][]float64, y []int, nClasses int, cfg Config) (*Forest, error) {
	if err := checkShape(X, len(y)); err != nil {
		return nil, err
	}
	if nClasses < 1 {
		return nil, fmt.Errorf("%w: nClasses must be >= 1", ErrInvalidConfig)
	}
	for i, label := range y {
		if label < 0 || label >= nClasses {
			return nil, fmt.Errorf("%w: row %d has label %d (nClasses=%d)", ErrInvalidLabel, i, label, nClasses)
		}
	}

	return fit(&builder{task: Classification, X: X, yClass: y, nClasses: nClasses}, cfg)
}

// FitRegressor fits a regression forest.
func FitRegressor(X [][]float64, y []float64, cfg Config) (*Forest, error) {
	if err := checkShape(X, len(y)); err != nil {
		return nil, err
	}
	return fit(&builder{task: Regression, X: X, yReg: y}, cfg)
}

func checkShape(X [][]float64, nTargets int) error {
	if len(X) == 0 {
		return ErrEmptyTrainingSet
	}
	if len(X) != nTargets {
		return fmt.Errorf("%w: %d rows but %d targets", ErrShapeMismatch, len(X), nTargets)
	}
	p := len(X[0])
	if p == 0 {
		return fmt.Errorf("%w: rows have no features", ErrShapeMismatch)
	}
	for i, row := range X {
		if len(row) != p {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrShapeMismatch, i, len(row), p)
		}
	}
	return nil
}

func fit(b *builder, cfg Config) (*Forest, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p := len(b.X[0])
	b.maxFeatures = cfg.maxFeatures(b.task, p)
	b.maxDepth = cfg.MaxDepth
	b.minSplit = max(cfg.MinSamplesSplit, 2)
	b.minLeaf = max(cfg.MinSamplesLeaf, 1)

	f := &Forest{
		task:        b.task,
		nFeatures:   p,
		nClasses:    b.nClasses,
		trees:       make([]*node, cfg.Trees),
		importances: make([]float64, p),
	}

	seeds := rand.New(rand.NewSource(cfg.Seed)) // #nosec G404
	n := len(b.X)
	for t := range f.trees {
		b.rnd = rand.New(rand.NewSource(seeds.Int63())) // #nosec G404
		b.importance = make([]float64, p)

		sample := make([]int, n)
		for i := range sample {
			sample[i] = b.rnd.Intn(n)
		}
		f.trees[t] = b.build(sample, 0)

		total := 0.0
		for _, v := range b.importance {
			total += v
		}
		if total > 0 {
			for j, v := range b.importance {
				f.importances[j] += v / total
			}
		}
	}

	total := 0.0
	for _, v := range f.importances {
		total += v
	}
	if total > 0 {
		for j := range f.importances {
			f.importances[j] /= total
		}
	}
	return f, nil
}

// Task reports whether the forest classifies or regresses.
func (f *Forest) Task() Task { return f.task }

// NumTrees returns the ensemble size.
func (f *Forest) NumTrees() int { return len(f.trees) }

// NumFeatures returns the expected input width.
func (f *Forest) NumFeatures() int { return f.nFeatures }

// NumClasses returns the number of classes of a classifier, 0 for a regressor.
func (f *Forest) NumClasses() int { return f.nClasses }

// FeatureImportances returns the mean impurity decrease per feature, summing to 1
// unless no tree ever split.
func (f *Forest) FeatureImportances() []float64 {
	out := make([]float64, len(f.importances))
	copy(out, f.importances)
	return out
}

func (f *Forest) checkInput(x []float64) error {
	if len(x) != f.nFeatures {
		return fmt.Errorf("%w: got %d features, want %d", ErrShapeMismatch, len(x), f.nFeatures)
	}
	return nil
}

// PredictProba returns the averaged class probabilities of one row.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if f.task != Classification {
		return nil, fmt.Errorf("%w: probabilities need a classifier", ErrInvalidConfig)
	}
	if err := f.checkInput(x); err != nil {
		return nil, err
	}

	proba := make([]float64, f.nClasses)
	for _, t := range f.trees {
		for c, p := range t.leaf(x).value {
			proba[c] += p
		}
	}
	for c := range proba {
		proba[c] /= float64(len(f.trees))
	}
	return proba, nil
}

// PredictClass returns the most probable class of one row. Ties go to the lower code.
func (f *Forest) PredictClass(x []float64) (int, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	best := 0
	for c, p := range proba {
		if p > proba[best] {
			best = c
		}
	}
	return best, nil
}

// PredictValue returns the averaged tree output of one row.
func (f *Forest) PredictValue(x []float64) (float64, error) {
	if f.task != Regression {
		return 0, fmt.Errorf("%w: values need a regressor", ErrInvalidConfig)
	}
	if err := f.checkInput(x); err != nil {
		return 0, err
	}

	sum := 0.0
	for _, t := range f.trees {
		sum += t.leaf(x).value[0]
	}
	return sum / float64(len(f.trees)), nil
}

// PredictClasses classifies every row.
func (f *Forest) PredictClasses(X [][]float64) ([]int, error) {
	out := make([]int, len(X))
	for i, x := range X {
		c, err := f.PredictClass(x)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}

// PredictValues regresses every row.
func (f *Forest) PredictValues(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, x := range X {
		v, err := f.PredictValue(x)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
