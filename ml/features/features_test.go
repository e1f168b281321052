package features

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatinsight/portal-backend/dataset"
	"github.com/threatinsight/portal-backend/ml/labelenc"
	"github.com/threatinsight/portal-backend/model"
)

func newAssembler(t *testing.T, table *dataset.Table) *Assembler {
	t.Helper()
	set, err := labelenc.FitTable(table)
	require.NoError(t, err)
	return NewAssembler(set)
}

func TestAssembleOrder(t *testing.T) {
	inc := model.Incident{
		Country:           "UK",
		Year:              2021,
		AttackType:        "DDoS",
		TargetIndustry:    "Banking",
		FinancialLoss:     10,
		AffectedUsers:     500,
		AttackSource:      "Insider",
		VulnerabilityType: "Zero-day",
		DefenseMechanism:  "VPN",
		ResolutionHours:   7.5,
	}
	other := inc
	other.Country = "USA"
	other.AttackSource = "Unknown"
	other.VulnerabilityType = "Weak Passwords"
	other.DefenseMechanism = "Firewall"

	a := newAssembler(t, dataset.NewTable([]model.Incident{inc, other}))

	v, err := a.Assemble(inc)
	require.NoError(t, err)
	assert.Equal(t, Vector{0, 0, 1, 1, 2021, 500, 7.5}, v)

	w, err := a.Assemble(other)
	require.NoError(t, err)
	assert.Equal(t, Vector{1, 1, 0, 0, 2021, 500, 7.5}, w)
}

func TestScenarioMatchesTrainingRow(t *testing.T) {
	table := dataset.NewTable(dataset.Generate(30, 5))
	a := newAssembler(t, table)

	row := table.Incidents[4]
	s := model.Scenario{
		Country:           row.Country,
		AttackSource:      row.AttackSource,
		VulnerabilityType: row.VulnerabilityType,
		DefenseMechanism:  row.DefenseMechanism,
		Year:              row.Year,
		AffectedUsers:     row.AffectedUsers,
		ResolutionHours:   row.ResolutionHours,
	}

	fromRow, err := a.Assemble(row)
	require.NoError(t, err)
	fromScenario, err := a.Scenario(s)
	require.NoError(t, err)
	assert.Equal(t, fromRow, fromScenario)
}

func TestAssembleUnseenLabel(t *testing.T) {
	a := newAssembler(t, dataset.NewTable(dataset.Generate(10, 1)))

	_, err := a.Scenario(model.Scenario{Country: "Atlantis"})
	assert.ErrorIs(t, err, labelenc.ErrUnseenLabel)
}

func TestMatrixWidthProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)

	properties.Property("every assembled row has exactly Width features", prop.ForAll(
		func(n int, seed uint64) bool {
			table := dataset.NewTable(dataset.Generate(n, seed+1))
			set, err := labelenc.FitTable(table)
			if err != nil {
				return false
			}
			m, err := NewAssembler(set).Matrix(table)
			if err != nil || len(m) != n {
				return false
			}
			for _, row := range m {
				if len(row) != Width {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 120),
		gen.UInt64Range(0, 1<<32),
	))

	properties.TestingRun(t)
}
