// Package pipeline runs load, encode, assemble and train as one synchronous
// chain and packages everything a render needs into a Session.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/threatinsight/portal-backend/dataset"
	"github.com/threatinsight/portal-backend/insights"
	"github.com/threatinsight/portal-backend/internal/metrics"
	"github.com/threatinsight/portal-backend/ml/features"
	"github.com/threatinsight/portal-backend/ml/labelenc"
	"github.com/threatinsight/portal-backend/ml/predictor"
	"github.com/threatinsight/portal-backend/ml/trainer"
	"github.com/threatinsight/portal-backend/model"
)

// Session is the product of one pipeline run. It is built per request and
// never shared.
type Session struct {
	Source    string
	Table     *dataset.Table
	Encoders  *labelenc.Set
	Assembler *features.Assembler
	Training  *trainer.Result
	Predictor *predictor.Predictor
	Dashboard model.Dashboard
	Findings  model.Findings
	Options   model.FormOptions
	Elapsed   time.Duration
}

// Performance is the held-out evaluation of the three models.
func (s *Session) Performance() model.ModelPerformance {
	return s.Training.Performance
}

// Report bundles the dashboard, evaluation and findings.
func (s *Session) Report() model.Report {
	return model.Report{
		Dashboard:   s.Dashboard,
		Performance: s.Training.Performance,
		Findings:    s.Findings,
	}
}

// Runner executes the pipeline against a source. Metrics may be nil.
type Runner struct {
	Source  Source
	Config  trainer.Config
	Metrics *metrics.Registry
}

// Run executes the pipeline once with no metrics.
func Run(ctx context.Context, src Source, cfg trainer.Config) (*Session, error) {
	r := &Runner{Source: src, Config: cfg}
	return r.Run(ctx)
}

// Run loads the table, fits the encoders and the three forests, and derives the
// dashboard, findings and form options. Any stage error aborts the run.
func (r *Runner) Run(ctx context.Context) (*Session, error) {
	start := time.Now()
	s, err := r.run(ctx)
	if r.Metrics != nil {
		r.Metrics.RecordPipelineRun(r.Source.Name(), err)
	}
	if err != nil {
		zap.S().Errorf("Pipeline run from %s failed: %v", r.Source.Name(), err)
		return nil, err
	}
	s.Elapsed = time.Since(start)
	zap.S().Infof("Pipeline run from %s finished: %d rows in %s", s.Source, s.Table.Len(), s.Elapsed)
	return s, nil
}

func (r *Runner) run(ctx context.Context) (*Session, error) {
	s := &Session{Source: r.Source.Name()}

	err := r.stage(ctx, "load", func() error {
		var err error
		s.Table, err = r.Source.Load(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if r.Metrics != nil {
		r.Metrics.DatasetRows.Set(float64(s.Table.Len()))
	}

	var X [][]float64
	var targets trainer.Targets
	err = r.stage(ctx, "encode", func() error {
		var err error
		if s.Encoders, err = labelenc.FitTable(s.Table); err != nil {
			return err
		}
		s.Assembler = features.NewAssembler(s.Encoders)
		if X, err = s.Assembler.Matrix(s.Table); err != nil {
			return err
		}
		targets, err = buildTargets(s.Table, s.Encoders)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, "train", func() error {
		var err error
		s.Training, err = trainer.Train(X, targets, r.Config)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Predictor = predictor.New(s.Encoders, s.Assembler, s.Training)
	if r.Metrics != nil {
		r.Metrics.ModelAccuracy.WithLabelValues("attack_type").Set(s.Training.Performance.AttackType.Accuracy)
		r.Metrics.ModelAccuracy.WithLabelValues("target_industry").Set(s.Training.Performance.TargetIndustry.Accuracy)
	}

	err = r.stage(ctx, "insights", func() error {
		s.Dashboard = insights.Dashboard(s.Table)
		s.Options = insights.FormOptions(s.Table)
		var err error
		s.Findings, err = insights.Findings(s.Table, s.Dashboard, s.Training.Performance)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// stage runs fn unless ctx is already done, and times it.
func (r *Runner) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	start := time.Now()
	err := fn()
	if r.Metrics != nil {
		r.Metrics.ObserveStage(name, time.Since(start))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func buildTargets(t *dataset.Table, set *labelenc.Set) (trainer.Targets, error) {
	var targets trainer.Targets

	attackEnc, err := set.Encoder(dataset.ColAttackType)
	if err != nil {
		return targets, err
	}
	industryEnc, err := set.Encoder(dataset.ColTargetIndustry)
	if err != nil {
		return targets, err
	}

	attack, err := t.Labels(dataset.ColAttackType)
	if err != nil {
		return targets, err
	}
	industry, err := t.Labels(dataset.ColTargetIndustry)
	if err != nil {
		return targets, err
	}

	if targets.AttackType, err = attackEnc.EncodeAll(attack); err != nil {
		return targets, err
	}
	if targets.TargetIndustry, err = industryEnc.EncodeAll(industry); err != nil {
		return targets, err
	}
	if targets.FinancialLoss, err = t.Numbers(dataset.ColFinancialLoss); err != nil {
		return targets, err
	}
	targets.AttackClasses = attackEnc.Classes()
	targets.IndustryClasses = industryEnc.Classes()
	return targets, nil
}
