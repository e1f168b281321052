package trainer

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatinsight/portal-backend/dataset"
	"github.com/threatinsight/portal-backend/ml/features"
	"github.com/threatinsight/portal-backend/ml/forest"
	"github.com/threatinsight/portal-backend/ml/labelenc"
)

func TestTrainTestSplitSizes(t *testing.T) {
	tests := []struct {
		n         int
		wantTrain int
		wantTest  int
	}{
		{n: 10, wantTrain: 8, wantTest: 2},
		{n: 5, wantTrain: 4, wantTest: 1},
		{n: 3001, wantTrain: 2400, wantTest: 601},
		{n: 2, wantTrain: 1, wantTest: 1},
	}

	for _, tt := range tests {
		s, err := TrainTestSplit(tt.n, 0.2, 42)
		require.NoError(t, err)
		assert.Len(t, s.Train, tt.wantTrain, "n=%d", tt.n)
		assert.Len(t, s.Test, tt.wantTest, "n=%d", tt.n)

		all := append(append([]int(nil), s.Train...), s.Test...)
		sort.Ints(all)
		for i, v := range all {
			assert.Equal(t, i, v, "partitions must cover every row exactly once")
		}
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	a, err := TrainTestSplit(100, 0.2, 42)
	require.NoError(t, err)
	b, err := TrainTestSplit(100, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTrainTestSplitDegenerate(t *testing.T) {
	_, err := TrainTestSplit(1, 0.2, 42)
	assert.ErrorIs(t, err, ErrDegenerateSplit)
	_, err = TrainTestSplit(0, 0.2, 42)
	assert.ErrorIs(t, err, ErrDegenerateSplit)
	_, err = TrainTestSplit(10, 1.5, 42)
	assert.ErrorIs(t, err, ErrDegenerateSplit)
}

func TestClassificationReport(t *testing.T) {
	report := ClassificationReport([]int{0, 0, 1, 1}, []int{0, 1, 1, 1}, []string{"a", "b"})

	require.Len(t, report.Classes, 2)
	assert.InDelta(t, 0.75, report.Accuracy, 1e-9)

	a := report.Classes[0]
	assert.Equal(t, "a", a.Label)
	assert.InDelta(t, 1.0, a.Precision, 1e-9)
	assert.InDelta(t, 0.5, a.Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, a.F1, 1e-9)
	assert.Equal(t, 2, a.Support)

	b := report.Classes[1]
	assert.InDelta(t, 2.0/3.0, b.Precision, 1e-9)
	assert.InDelta(t, 1.0, b.Recall, 1e-9)
	assert.InDelta(t, 0.8, b.F1, 1e-9)

	assert.InDelta(t, (1+2.0/3.0)/2, report.MacroAvg.Precision, 1e-9)
	assert.InDelta(t, (1+2.0/3.0)/2, report.WeightedAvg.Precision, 1e-9)
	assert.Equal(t, 4, report.WeightedAvg.Support)
}

func TestClassificationReportZeroDivision(t *testing.T) {
	report := ClassificationReport([]int{0, 0}, []int{1, 1}, []string{"a", "b"})

	require.Len(t, report.Classes, 2)
	assert.Zero(t, report.Classes[0].Precision)
	assert.Zero(t, report.Classes[0].Recall)
	assert.Zero(t, report.Classes[1].F1)
	assert.Zero(t, report.Classes[1].Support)
}

func TestRegressionMetrics(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	assert.InDelta(t, 0.5, MeanAbsoluteError(yTrue, []float64{1.5, 2.5, 2.5, 4.5}), 1e-9)
	assert.InDelta(t, 1.0, R2(yTrue, yTrue), 1e-9)
	assert.InDelta(t, 0.0, R2(yTrue, []float64{2.5, 2.5, 2.5, 2.5}), 1e-9)
	assert.InDelta(t, 1.0, R2([]float64{3, 3}, []float64{3, 3}), 1e-9)
	assert.InDelta(t, 0.0, R2([]float64{3, 3}, []float64{2, 3}), 1e-9)
}

func TestRankImportances(t *testing.T) {
	ranked := RankImportances([]string{"a", "b", "c"}, []float64{0.2, 0.5, 0.3})
	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].Feature)
	assert.Equal(t, "c", ranked[1].Feature)
	assert.Equal(t, "a", ranked[2].Feature)
}

func trainingInput(t *testing.T, rows int) ([][]float64, Targets) {
	t.Helper()
	table := dataset.NewTable(dataset.Generate(rows, 21))
	set, err := labelenc.FitTable(table)
	require.NoError(t, err)

	X, err := features.NewAssembler(set).Matrix(table)
	require.NoError(t, err)

	attackEnc, err := set.Encoder(dataset.ColAttackType)
	require.NoError(t, err)
	industryEnc, err := set.Encoder(dataset.ColTargetIndustry)
	require.NoError(t, err)

	attackLabels, err := table.Labels(dataset.ColAttackType)
	require.NoError(t, err)
	industryLabels, err := table.Labels(dataset.ColTargetIndustry)
	require.NoError(t, err)
	loss, err := table.Numbers(dataset.ColFinancialLoss)
	require.NoError(t, err)

	attack, err := attackEnc.EncodeAll(attackLabels)
	require.NoError(t, err)
	industry, err := industryEnc.EncodeAll(industryLabels)
	require.NoError(t, err)

	return X, Targets{
		AttackType:      attack,
		AttackClasses:   attackEnc.Classes(),
		TargetIndustry:  industry,
		IndustryClasses: industryEnc.Classes(),
		FinancialLoss:   loss,
	}
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Forest.Trees = 10
	return cfg
}

func TestTrainIsDeterministic(t *testing.T) {
	X, targets := trainingInput(t, 150)

	first, err := Train(X, targets, fastConfig())
	require.NoError(t, err)
	second, err := Train(X, targets, fastConfig())
	require.NoError(t, err)

	assert.Equal(t, first.Split, second.Split)
	assert.Equal(t, first.HeldOut, second.HeldOut)
	assert.Equal(t, first.Performance, second.Performance)

	assert.Equal(t, 120, first.Performance.TrainRows)
	assert.Equal(t, 30, first.Performance.TestRows)
	assert.Len(t, first.HeldOut.AttackType, 30)
	assert.Len(t, first.Performance.AttackImportance, features.Width)
	assert.Equal(t, forest.Classification, first.Models.AttackType.Task())
	assert.Equal(t, forest.Regression, first.Models.FinancialLoss.Task())
	assert.Equal(t, forest.Classification, first.Models.TargetIndustry.Task())
}

func TestTrainHeldOutStaysInVocabulary(t *testing.T) {
	X, targets := trainingInput(t, 80)

	res, err := Train(X, targets, fastConfig())
	require.NoError(t, err)

	for _, c := range res.HeldOut.AttackType {
		assert.GreaterOrEqual(t, c, 0)
		assert.Less(t, c, len(targets.AttackClasses))
	}
	assert.GreaterOrEqual(t, res.Performance.AttackType.Accuracy, 0.0)
	assert.LessOrEqual(t, res.Performance.AttackType.Accuracy, 1.0)
}

func TestTrainRejectsBadInput(t *testing.T) {
	X, targets := trainingInput(t, 20)

	targets.FinancialLoss = targets.FinancialLoss[:5]
	_, err := Train(X, targets, fastConfig())
	assert.ErrorIs(t, err, forest.ErrShapeMismatch)

	_, targets = trainingInput(t, 20)
	_, err = Train(X[:1], Targets{
		AttackType:      targets.AttackType[:1],
		AttackClasses:   targets.AttackClasses,
		TargetIndustry:  targets.TargetIndustry[:1],
		IndustryClasses: targets.IndustryClasses,
		FinancialLoss:   targets.FinancialLoss[:1],
	}, fastConfig())
	assert.ErrorIs(t, err, ErrDegenerateSplit)
}
