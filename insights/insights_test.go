package insights

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatinsight/portal-backend/dataset"
	"github.com/threatinsight/portal-backend/model"
)

func sampleTable() *dataset.Table {
	row := func(country string, year int, attack, industry string, loss float64, users int64, hours float64) model.Incident {
		return model.Incident{
			Country:           country,
			Year:              year,
			AttackType:        attack,
			TargetIndustry:    industry,
			FinancialLoss:     loss,
			AffectedUsers:     users,
			AttackSource:      "Hacker Group",
			VulnerabilityType: "Zero-day",
			DefenseMechanism:  "Firewall",
			ResolutionHours:   hours,
		}
	}
	return dataset.NewTable([]model.Incident{
		row("USA", 2020, "Phishing", "Banking", 10, 100, 10),
		row("Germany", 2020, "Phishing", "Retail", 20, 200, 20),
		row("USA", 2021, "DDoS", "Banking", 30, 300, 30),
		row("France", 2021, "Ransomware", "Retail", 40, 400, 5),
		row("Germany", 2021, "DDoS", "Banking", 50, 500, 40),
	})
}

func TestLoss(t *testing.T) {
	s := Loss(sampleTable())
	assert.InDelta(t, 30.0, s.Mean, 1e-9)
	assert.InDelta(t, 30.0, s.Median, 1e-9)
	assert.InDelta(t, 250.0, s.Variance, 1e-9)
	assert.InDelta(t, math.Sqrt(250), s.StdDev, 1e-9)
}

func TestLossSingleRow(t *testing.T) {
	s := Loss(dataset.NewTable(sampleTable().Incidents[:1]))
	assert.InDelta(t, 10.0, s.Mean, 1e-9)
	assert.Zero(t, s.StdDev)
	assert.Zero(t, s.Variance)
}

func TestMedianEvenLength(t *testing.T) {
	assert.InDelta(t, 2.5, median([]float64{4, 1, 3, 2}), 1e-9)
	assert.Zero(t, median(nil))
}

func TestAttackStats(t *testing.T) {
	stats := AttackStats(sampleTable())
	require.Len(t, stats, 3)

	assert.Equal(t, model.AttackTypeStats{
		AttackType: "DDoS", Count: 2, Mean: 40, Median: 40, StdDev: 14.14, Min: 30, Max: 50,
	}, stats[0])
	assert.Equal(t, "Phishing", stats[1].AttackType)
	assert.Equal(t, 7.07, stats[1].StdDev)
	assert.Equal(t, model.AttackTypeStats{
		AttackType: "Ransomware", Count: 1, Mean: 40, Median: 40, StdDev: 0, Min: 40, Max: 40,
	}, stats[2])
}

func TestVariability(t *testing.T) {
	cv := Variability(sampleTable())
	require.Len(t, cv, 2, "single-row groups are skipped")
	assert.Equal(t, "Phishing", cv[0].AttackType)
	assert.InDelta(t, math.Sqrt(50)/15*100, cv[0].CV, 1e-9)
	assert.Equal(t, "DDoS", cv[1].AttackType)
	assert.InDelta(t, math.Sqrt(200)/40*100, cv[1].CV, 1e-9)
}

func TestVariabilitySkipsNonPositiveMean(t *testing.T) {
	tbl := dataset.NewTable([]model.Incident{
		{AttackType: "Malware", FinancialLoss: 0},
		{AttackType: "Malware", FinancialLoss: 0},
	})
	assert.Empty(t, Variability(tbl))
}

func TestAttackTrend(t *testing.T) {
	trend, labels := AttackTrend(sampleTable())
	assert.Equal(t, []string{"DDoS", "Phishing", "Ransomware"}, labels)
	require.Len(t, trend, 2)

	assert.Equal(t, 2020, trend[0].Year)
	assert.Equal(t, 2, trend[0].Total)
	assert.Equal(t, []model.CategoryCount{{Label: "DDoS", Count: 0}, {Label: "Phishing", Count: 2}, {Label: "Ransomware", Count: 0}}, trend[0].Counts)

	assert.Equal(t, 2021, trend[1].Year)
	assert.Equal(t, 3, trend[1].Total)
	assert.Equal(t, []model.CategoryCount{{Label: "DDoS", Count: 2}, {Label: "Phishing", Count: 0}, {Label: "Ransomware", Count: 1}}, trend[1].Counts)
}

func TestIndustryTrend(t *testing.T) {
	trend, labels := IndustryTrend(sampleTable())
	assert.Equal(t, []string{"Banking", "Retail"}, labels)
	require.Len(t, trend, 2)
	assert.Equal(t, []model.CategoryCount{{Label: "Banking", Count: 2}, {Label: "Retail", Count: 1}}, trend[1].Counts)
}

func TestLossTrend(t *testing.T) {
	assert.Equal(t, []model.YearValue{{Year: 2020, Value: 15}, {Year: 2021, Value: 40}}, LossTrend(sampleTable()))
}

func TestYearlyAndIndustries(t *testing.T) {
	yearly := Yearly(sampleTable())
	require.Len(t, yearly, 2)
	assert.Equal(t, "Phishing", yearly[0].MostCommonAttack)
	assert.Equal(t, 7.07, yearly[0].LossStdDev)
	assert.Equal(t, "DDoS", yearly[1].MostCommonAttack)
	assert.Equal(t, 10.0, yearly[1].LossStdDev)
	assert.Equal(t, 400.0, yearly[1].UsersMean)

	industries := Industries(sampleTable())
	require.Len(t, industries, 2)
	assert.Equal(t, model.IndustryStats{Industry: "Banking", LossMean: 30, UsersMean: 300, ResolutionMean: 26.67}, industries[0])
	assert.Equal(t, model.IndustryStats{Industry: "Retail", LossMean: 30, UsersMean: 300, ResolutionMean: 12.5}, industries[1])
}

func TestFindings(t *testing.T) {
	tbl := sampleTable()
	perf := model.ModelPerformance{
		AttackType:     model.ClassificationReport{Accuracy: 0.5},
		TargetIndustry: model.ClassificationReport{Accuracy: 0.25},
		FinancialLoss:  model.RegressionReport{MAE: 3.456, R2: 0.123},
		AttackImportance: []model.FeatureImportance{
			{Feature: "Year", Importance: 0.5},
			{Feature: "Country_encoded", Importance: 0.3},
			{Feature: "Number of Affected Users", Importance: 0.15},
			{Feature: "Attack Source_encoded", Importance: 0.05},
		},
	}

	f, err := Findings(tbl, Dashboard(tbl), perf)
	require.NoError(t, err)

	assert.InDelta(t, 27.5, f.AvgLoss, 1e-9)
	assert.Equal(t, 2021, f.HighestLossYear)
	assert.Equal(t, 40.0, f.HighestLossYearMean)
	assert.Equal(t, 2021, f.MostVolatileYear)
	assert.Equal(t, "Banking", f.MostTargetedIndustry, "ties go to the first industry")
	assert.Equal(t, "Retail", f.FastestRecoveryIndustry)
	assert.Equal(t, "Banking", f.SlowestRecoveryIndustry)
	assert.InDelta(t, 300.0, f.AvgUsersAffected, 1e-9)
	assert.Equal(t, 2021, f.PeakImpactYear)
	assert.InDelta(t, 21.0, f.AvgResolutionHours, 1e-9)
	assert.Equal(t, "Phishing", f.MostPersistentAttack)

	assert.Contains(t, f.Text, "Model Accuracy: 50.00%")
	assert.Contains(t, f.Text, "Most Important Features: Year, Country_encoded, Number of Affected Users")
	assert.Contains(t, f.Text, "R2 Score: 0.123 (explains 12.3% of variance)")
	assert.Contains(t, f.Text, "Cybersecurity Trends (2020-2021)")
	assert.Contains(t, f.Text, "Average Users Affected: 300 per incident")
	assert.Contains(t, f.Text, "Most Targeted Industry: Banking ($30.00M avg loss)")
}

func TestFindingsEmptyTable(t *testing.T) {
	tbl := dataset.NewTable(nil)
	f, err := Findings(tbl, Dashboard(tbl), model.ModelPerformance{})
	require.NoError(t, err)
	assert.Empty(t, f.MostPersistentAttack)
	assert.NotEmpty(t, f.Text)
}

func TestFormOptions(t *testing.T) {
	opts := FormOptions(sampleTable())
	assert.Equal(t, []string{"USA", "Germany", "France"}, opts.Countries)
	assert.Equal(t, []string{"Hacker Group"}, opts.AttackSources)
	assert.Equal(t, 2020, opts.YearMin)
	assert.Equal(t, 2021, opts.YearMax)
	assert.Equal(t, 2020, opts.YearDefault)
	assert.Equal(t, int64(500), opts.UsersMax)
	assert.Equal(t, int64(300), opts.UsersDefault)
	assert.Equal(t, 5.0, opts.HoursMin)
	assert.Equal(t, 40.0, opts.HoursMax)
	assert.InDelta(t, 21.0, opts.HoursDefault, 1e-9)
}

func TestGroupedThousands(t *testing.T) {
	assert.Equal(t, "1,234,567", printer.Sprintf("%.0f", 1234567.0))
}
