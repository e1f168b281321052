// Package predictor runs the trained models against a single user scenario.
package predictor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/threatinsight/portal-backend/dataset"
	"github.com/threatinsight/portal-backend/ml/features"
	"github.com/threatinsight/portal-backend/ml/labelenc"
	"github.com/threatinsight/portal-backend/ml/trainer"
	"github.com/threatinsight/portal-backend/model"
)

const topFeatureCount = 3

// Predictor binds the encoders, assembler and fitted models of one pipeline run.
type Predictor struct {
	encoders  *labelenc.Set
	assembler *features.Assembler
	models    trainer.Models
	top       []string
	now       func() time.Time
}

// New creates a predictor from a finished training run.
func New(encoders *labelenc.Set, assembler *features.Assembler, res *trainer.Result) *Predictor {
	top := make([]string, 0, topFeatureCount)
	for _, fi := range res.Performance.AttackImportance {
		if len(top) == topFeatureCount {
			break
		}
		top = append(top, fi.Feature)
	}
	return &Predictor{
		encoders:  encoders,
		assembler: assembler,
		models:    res.Models,
		top:       top,
		now:       time.Now,
	}
}

// Predict assembles the scenario, invokes each model once and decodes the
// categorical outputs. Labels outside the training vocabulary fail with
// labelenc.ErrUnseenLabel.
func (p *Predictor) Predict(s model.Scenario) (model.Prediction, error) {
	vec, err := p.assembler.Scenario(s)
	if err != nil {
		return model.Prediction{}, err
	}
	x := vec.Slice()

	attackCode, err := p.models.AttackType.PredictClass(x)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("predict attack type: %w", err)
	}
	industryCode, err := p.models.TargetIndustry.PredictClass(x)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("predict target industry: %w", err)
	}
	loss, err := p.models.FinancialLoss.PredictValue(x)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("predict financial loss: %w", err)
	}

	attack, err := p.encoders.Decode(dataset.ColAttackType, attackCode)
	if err != nil {
		return model.Prediction{}, err
	}
	industry, err := p.encoders.Decode(dataset.ColTargetIndustry, industryCode)
	if err != nil {
		return model.Prediction{}, err
	}

	pred := model.Prediction{
		ID:             uuid.NewString(),
		AttackType:     attack,
		TargetIndustry: industry,
		FinancialLoss:  loss,
		TopFeatures:    append([]string(nil), p.top...),
		Narrative:      Narrative(attack, industry, loss),
		Scenario:       s,
		PredictedAt:    p.now().UTC(),
	}

	zap.S().Infof("Prediction %s: %s against %s, estimated loss %.2fM", pred.ID, attack, industry, loss)
	return pred, nil
}

// Narrative is the short scenario analysis shown next to a prediction.
func Narrative(attack, industry string, loss float64) string {
	return fmt.Sprintf("This prediction suggests a %s attack targeting the %s sector. "+
		"Expected financial impact: $%.2f Million. "+
		"Based on the input parameters, this scenario has a moderate to high risk profile.",
		attack, industry, loss)
}
