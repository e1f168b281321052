package forest

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig(trees int) Config {
	cfg := DefaultConfig()
	cfg.Trees = trees
	return cfg
}

func TestClassifierSeparatesClasses(t *testing.T) {
	var X [][]float64
	var y []int
	for i := 0; i < 20; i++ {
		X = append(X, []float64{float64(i)})
		label := 0
		if i >= 10 {
			label = 1
		}
		y = append(y, label)
	}

	f, err := FitClassifier(X, y, 2, smallConfig(25))
	require.NoError(t, err)
	assert.Equal(t, Classification, f.Task())
	assert.Equal(t, 25, f.NumTrees())
	assert.Equal(t, 2, f.NumClasses())

	for _, x := range []float64{-3, 0, 2, 4} {
		c, err := f.PredictClass([]float64{x})
		require.NoError(t, err)
		assert.Equal(t, 0, c, "x=%v", x)
	}
	for _, x := range []float64{15, 17, 19, 40} {
		c, err := f.PredictClass([]float64{x})
		require.NoError(t, err)
		assert.Equal(t, 1, c, "x=%v", x)
	}

	proba, err := f.PredictProba([]float64{1})
	require.NoError(t, err)
	require.Len(t, proba, 2)
	assert.InDelta(t, 1.0, proba[0]+proba[1], 1e-9)
}

func TestRegressorLearnsStep(t *testing.T) {
	var X [][]float64
	var y []float64
	for i := 0; i < 40; i++ {
		X = append(X, []float64{float64(i), 3})
		if i < 20 {
			y = append(y, 10)
		} else {
			y = append(y, 50)
		}
	}

	f, err := FitRegressor(X, y, smallConfig(30))
	require.NoError(t, err)
	assert.Equal(t, Regression, f.Task())

	low, err := f.PredictValue([]float64{5, 3})
	require.NoError(t, err)
	assert.InDelta(t, 10, low, 1e-9)

	high, err := f.PredictValue([]float64{35, 3})
	require.NoError(t, err)
	assert.InDelta(t, 50, high, 1e-9)

	imp := f.FeatureImportances()
	assert.InDelta(t, 1.0, imp[0], 1e-9, "the constant column can never split")
	assert.Zero(t, imp[1])
}

func noisyData(n int, seed int64) ([][]float64, []int, []float64) {
	rnd := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	labels := make([]int, n)
	values := make([]float64, n)
	for i := range X {
		signal := rnd.Float64() * 10
		noise := rnd.Float64()
		X[i] = []float64{signal, noise, float64(rnd.Intn(3))}
		labels[i] = int(signal) % 3
		values[i] = signal*2 + noise
	}
	return X, labels, values
}

func TestFitIsDeterministic(t *testing.T) {
	X, labels, values := noisyData(120, 9)

	c1, err := FitClassifier(X, labels, 3, smallConfig(15))
	require.NoError(t, err)
	c2, err := FitClassifier(X, labels, 3, smallConfig(15))
	require.NoError(t, err)

	p1, err := c1.PredictClasses(X)
	require.NoError(t, err)
	p2, err := c2.PredictClasses(X)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.Equal(t, c1.FeatureImportances(), c2.FeatureImportances())

	r1, err := FitRegressor(X, values, smallConfig(15))
	require.NoError(t, err)
	r2, err := FitRegressor(X, values, smallConfig(15))
	require.NoError(t, err)

	v1, err := r1.PredictValues(X)
	require.NoError(t, err)
	v2, err := r2.PredictValues(X)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestImportancesFavourSignal(t *testing.T) {
	X, _, values := noisyData(200, 4)

	f, err := FitRegressor(X, values, smallConfig(20))
	require.NoError(t, err)

	imp := f.FeatureImportances()
	require.Len(t, imp, 3)
	sum := 0.0
	for _, v := range imp {
		assert.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, imp[0], imp[1])
	assert.Greater(t, imp[0], imp[2])
}

func TestMaxDepthLimitsTrees(t *testing.T) {
	X, _, values := noisyData(100, 2)
	cfg := smallConfig(5)
	cfg.MaxDepth = 1

	f, err := FitRegressor(X, values, cfg)
	require.NoError(t, err)

	distinct := make(map[float64]bool)
	for _, x := range X {
		v, err := f.PredictValue(x)
		require.NoError(t, err)
		distinct[v] = true
	}
	assert.LessOrEqual(t, len(distinct), 32, "5 stumps give at most 2^5 outputs")
}

func TestFitErrors(t *testing.T) {
	_, err := FitClassifier(nil, nil, 2, DefaultConfig())
	assert.ErrorIs(t, err, ErrEmptyTrainingSet)

	_, err = FitRegressor([][]float64{{1}, {2}}, []float64{1}, DefaultConfig())
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = FitRegressor([][]float64{{1}, {2, 3}}, []float64{1, 2}, DefaultConfig())
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = FitClassifier([][]float64{{1}, {2}}, []int{0, 2}, 2, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidLabel)

	_, err = FitRegressor([][]float64{{1}, {2}}, []float64{1, 2}, smallConfig(0))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPredictErrors(t *testing.T) {
	X := [][]float64{{1, 1}, {2, 2}, {3, 3}}

	c, err := FitClassifier(X, []int{0, 1, 1}, 2, smallConfig(3))
	require.NoError(t, err)
	_, err = c.PredictClass([]float64{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = c.PredictValue([]float64{1, 1})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	r, err := FitRegressor(X, []float64{1, 2, 3}, smallConfig(3))
	require.NoError(t, err)
	_, err = r.PredictProba([]float64{1, 1})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSingleRowFits(t *testing.T) {
	f, err := FitClassifier([][]float64{{4, 2}}, []int{1}, 3, smallConfig(4))
	require.NoError(t, err)

	c, err := f.PredictClass([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, c)
}
