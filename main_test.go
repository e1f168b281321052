package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatinsight/portal-backend/dataset"
	"github.com/threatinsight/portal-backend/model"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateThenReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threats.csv")

	out, err := run(t, "generate", "--rows", "50", "--seed", "4", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 50 incidents")

	table, err := dataset.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, table.Len())

	t.Setenv("PORTAL_DATA_PATH", path)
	t.Setenv("PORTAL_TREES", "5")

	out, err = run(t, "report", "--format", "json", "--log-level", "error")
	require.NoError(t, err)
	var report model.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 50, report.Dashboard.Rows)
	assert.Equal(t, 40, report.Performance.TrainRows)
	assert.Equal(t, 10, report.Performance.TestRows)

	out, err = run(t, "report", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Incidents: 50")
}

func TestReportRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, "report", "--format", "xml")
	assert.ErrorContains(t, err, "invalid --format")
}

func TestReportMissingDataset(t *testing.T) {
	t.Setenv("PORTAL_DATA_PATH", filepath.Join(t.TempDir(), "missing.csv"))
	_, err := run(t, "report", "--log-level", "error")
	assert.ErrorIs(t, err, dataset.ErrNotFound)
}

func TestGenerateRejectsZeroRows(t *testing.T) {
	_, err := run(t, "generate", "--rows", "0", "--out", filepath.Join(t.TempDir(), "x.csv"))
	assert.Error(t, err)
}
