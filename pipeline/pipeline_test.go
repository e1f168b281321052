package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatinsight/portal-backend/dataset"
	"github.com/threatinsight/portal-backend/internal/metrics"
	"github.com/threatinsight/portal-backend/ml/labelenc"
	"github.com/threatinsight/portal-backend/ml/trainer"
	"github.com/threatinsight/portal-backend/model"
)

func writeDataset(t *testing.T, rows int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "threats.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, dataset.WriteCSV(f, dataset.Generate(rows, 9)))
	return path
}

func fastConfig() trainer.Config {
	cfg := trainer.DefaultConfig()
	cfg.Forest.Trees = 6
	return cfg
}

type failingSource struct{ err error }

func (s failingSource) Name() string { return "failing" }

func (s failingSource) Load(context.Context) (*dataset.Table, error) { return nil, s.err }

func TestRunBuildsSession(t *testing.T) {
	path := writeDataset(t, 100)

	s, err := Run(context.Background(), FileSource{Path: path}, fastConfig())
	require.NoError(t, err)

	assert.Equal(t, "file", s.Source)
	assert.Equal(t, 100, s.Table.Len())
	assert.Equal(t, 100, s.Dashboard.Rows)
	assert.Equal(t, 80, s.Performance().TrainRows)
	assert.Equal(t, 20, s.Performance().TestRows)
	assert.NotEmpty(t, s.Options.Countries)
	assert.NotEmpty(t, s.Findings.Text)

	report := s.Report()
	assert.Equal(t, s.Dashboard, report.Dashboard)
	assert.Equal(t, s.Findings, report.Findings)
}

func TestRunIsDeterministic(t *testing.T) {
	path := writeDataset(t, 90)

	a, err := Run(context.Background(), FileSource{Path: path}, fastConfig())
	require.NoError(t, err)
	b, err := Run(context.Background(), FileSource{Path: path}, fastConfig())
	require.NoError(t, err)

	assert.Equal(t, a.Training.Split, b.Training.Split)
	assert.Equal(t, a.Training.HeldOut, b.Training.HeldOut)
	assert.Equal(t, a.Report(), b.Report())
}

func TestSessionPredict(t *testing.T) {
	s, err := Run(context.Background(), FileSource{Path: writeDataset(t, 80)}, fastConfig())
	require.NoError(t, err)

	scenario := model.Scenario{
		Country:           s.Options.Countries[0],
		AttackSource:      s.Options.AttackSources[0],
		VulnerabilityType: s.Options.VulnerabilityTypes[0],
		DefenseMechanism:  s.Options.DefenseMechanisms[0],
		Year:              s.Options.YearDefault,
		AffectedUsers:     s.Options.UsersDefault,
		ResolutionHours:   s.Options.HoursDefault,
	}
	pred, err := s.Predictor.Predict(scenario)
	require.NoError(t, err)

	attacks, err := s.Encoders.Classes(dataset.ColAttackType)
	require.NoError(t, err)
	assert.Contains(t, attacks, pred.AttackType)

	scenario.DefenseMechanism = "Prayer"
	_, err = s.Predictor.Predict(scenario)
	assert.ErrorIs(t, err, labelenc.ErrUnseenLabel)
}

func TestRunMissingFile(t *testing.T) {
	_, err := Run(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")}, fastConfig())
	assert.ErrorIs(t, err, dataset.ErrNotFound)
}

func TestRunDegenerateTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, dataset.WriteCSV(f, dataset.Generate(1, 1)))
	require.NoError(t, f.Close())

	_, err = Run(context.Background(), FileSource{Path: path}, fastConfig())
	assert.ErrorIs(t, err, trainer.ErrDegenerateSplit)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, FileSource{Path: writeDataset(t, 20)}, fastConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerRecordsMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	boom := errors.New("boom")

	_, err := (&Runner{Source: failingSource{err: boom}, Config: fastConfig(), Metrics: reg}).Run(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = (&Runner{Source: FileSource{Path: writeDataset(t, 40)}, Config: fastConfig(), Metrics: reg}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.PipelineRunsTotal.WithLabelValues("failing", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.PipelineRunsTotal.WithLabelValues("file", "success")))
	assert.Equal(t, 40.0, testutil.ToFloat64(reg.DatasetRows))
}
