// Package trainer fits the attack-type, financial-loss and target-industry forests.
package trainer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/threatinsight/portal-backend/ml/features"
	"github.com/threatinsight/portal-backend/ml/forest"
	"github.com/threatinsight/portal-backend/model"
)

// Config controls the split and the forests.
type Config struct {
	TestRatio float64
	Seed      int64
	Forest    forest.Config
}

// DefaultConfig holds out 20% of rows with seed 42 and grows 100 trees per model.
func DefaultConfig() Config {
	return Config{
		TestRatio: 0.2,
		Seed:      42,
		Forest:    forest.DefaultConfig(),
	}
}

// Targets are the three label columns, already encoded where categorical.
type Targets struct {
	AttackType      []int
	AttackClasses   []string
	TargetIndustry  []int
	IndustryClasses []string
	FinancialLoss   []float64
}

// Models holds the three fitted forests.
type Models struct {
	AttackType     *forest.Forest
	FinancialLoss  *forest.Forest
	TargetIndustry *forest.Forest
}

// HeldOut holds each model's predictions on its test partition.
type HeldOut struct {
	AttackType     []int
	FinancialLoss  []float64
	TargetIndustry []int
}

// Result is the outcome of one training run.
type Result struct {
	Models      Models
	Split       Split
	HeldOut     HeldOut
	Performance model.ModelPerformance
}

// Train partitions the rows independently for each target and fits one forest
// per target. Any failure aborts the whole run.
func Train(X [][]float64, targets Targets, cfg Config) (*Result, error) {
	n := len(X)
	if len(targets.AttackType) != n || len(targets.TargetIndustry) != n || len(targets.FinancialLoss) != n {
		return nil, fmt.Errorf("%w: %d rows but targets of length %d/%d/%d", forest.ErrShapeMismatch,
			n, len(targets.AttackType), len(targets.FinancialLoss), len(targets.TargetIndustry))
	}

	res := &Result{}

	attackSplit, err := TrainTestSplit(n, cfg.TestRatio, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("attack type split: %w", err)
	}
	res.Split = attackSplit
	res.Models.AttackType, err = fitClassifier("attack_type", X, targets.AttackType, len(targets.AttackClasses), attackSplit, cfg)
	if err != nil {
		return nil, err
	}

	lossSplit, err := TrainTestSplit(n, cfg.TestRatio, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("financial loss split: %w", err)
	}
	res.Models.FinancialLoss, err = fitRegressor("financial_loss", X, targets.FinancialLoss, lossSplit, cfg)
	if err != nil {
		return nil, err
	}

	industrySplit, err := TrainTestSplit(n, cfg.TestRatio, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("target industry split: %w", err)
	}
	res.Models.TargetIndustry, err = fitClassifier("target_industry", X, targets.TargetIndustry, len(targets.IndustryClasses), industrySplit, cfg)
	if err != nil {
		return nil, err
	}

	if err := res.evaluate(X, targets, attackSplit, lossSplit, industrySplit); err != nil {
		return nil, err
	}
	return res, nil
}

func fitClassifier(target string, X [][]float64, y []int, nClasses int, s Split, cfg Config) (*forest.Forest, error) {
	start := time.Now()
	f, err := forest.FitClassifier(selectRows(X, s.Train), selectInts(y, s.Train), nClasses, cfg.Forest)
	if err != nil {
		return nil, fmt.Errorf("fit %s classifier: %w", target, err)
	}
	logFit("RandomForestClassifier", target, len(s.Train), time.Since(start))
	return f, nil
}

func fitRegressor(target string, X [][]float64, y []float64, s Split, cfg Config) (*forest.Forest, error) {
	start := time.Now()
	f, err := forest.FitRegressor(selectRows(X, s.Train), selectFloats(y, s.Train), cfg.Forest)
	if err != nil {
		return nil, fmt.Errorf("fit %s regressor: %w", target, err)
	}
	logFit("RandomForestRegressor", target, len(s.Train), time.Since(start))
	return f, nil
}

func logFit(name, target string, samples int, d time.Duration) {
	zap.L().Info("model fitted",
		zap.String("model.name", name),
		zap.String("ml.operation", "fit"),
		zap.String("ml.target", target),
		zap.Int("data.samples", samples),
		zap.Duration("duration", d),
	)
}

func (r *Result) evaluate(X [][]float64, t Targets, attack, loss, industry Split) error {
	var err error

	r.HeldOut.AttackType, err = r.Models.AttackType.PredictClasses(selectRows(X, attack.Test))
	if err != nil {
		return fmt.Errorf("evaluate attack type: %w", err)
	}
	r.HeldOut.FinancialLoss, err = r.Models.FinancialLoss.PredictValues(selectRows(X, loss.Test))
	if err != nil {
		return fmt.Errorf("evaluate financial loss: %w", err)
	}
	r.HeldOut.TargetIndustry, err = r.Models.TargetIndustry.PredictClasses(selectRows(X, industry.Test))
	if err != nil {
		return fmt.Errorf("evaluate target industry: %w", err)
	}

	names := features.Names[:]
	lossTrue := selectFloats(t.FinancialLoss, loss.Test)
	r.Performance = model.ModelPerformance{
		TrainRows:      len(attack.Train),
		TestRows:       len(attack.Test),
		AttackType:     ClassificationReport(selectInts(t.AttackType, attack.Test), r.HeldOut.AttackType, t.AttackClasses),
		TargetIndustry: ClassificationReport(selectInts(t.TargetIndustry, industry.Test), r.HeldOut.TargetIndustry, t.IndustryClasses),
		FinancialLoss: model.RegressionReport{
			MAE: MeanAbsoluteError(lossTrue, r.HeldOut.FinancialLoss),
			R2:  R2(lossTrue, r.HeldOut.FinancialLoss),
		},
		AttackImportance:   RankImportances(names, r.Models.AttackType.FeatureImportances()),
		LossImportance:     RankImportances(names, r.Models.FinancialLoss.FeatureImportances()),
		IndustryImportance: RankImportances(names, r.Models.TargetIndustry.FeatureImportances()),
	}
	return nil
}
