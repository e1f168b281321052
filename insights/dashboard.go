// Package insights computes the descriptive statistics, chart series and
// findings rendered next to the model reports.
package insights

import (
	"github.com/threatinsight/portal-backend/dataset"
	"github.com/threatinsight/portal-backend/model"
)

// Dashboard gathers every statistic and chart series for a table.
func Dashboard(t *dataset.Table) model.Dashboard {
	attackTrend, attackLabels := AttackTrend(t)
	industryTrend, industryLabels := IndustryTrend(t)
	return model.Dashboard{
		Rows:           t.Len(),
		Loss:           Loss(t),
		AttackStats:    AttackStats(t),
		Variability:    Variability(t),
		AttackTrend:    attackTrend,
		AttackLabels:   attackLabels,
		IndustryTrend:  industryTrend,
		IndustryLabels: industryLabels,
		LossTrend:      LossTrend(t),
		Yearly:         Yearly(t),
		Industries:     Industries(t),
	}
}

// Loss summarises the financial loss column with sample std and variance.
func Loss(t *dataset.Table) model.LossSummary {
	xs := values(t.Incidents, lossOf)
	std, _ := sampleStd(xs)
	return model.LossSummary{
		Mean:     mean(xs),
		Median:   median(xs),
		StdDev:   std,
		Variance: sampleVar(xs),
	}
}

// AttackStats groups financial loss by attack type, sorted by type name.
// Values are rounded to two decimals.
func AttackStats(t *dataset.Table) []model.AttackTypeStats {
	g := groupBy(t.Incidents, byAttack)
	out := make([]model.AttackTypeStats, 0, len(g.order))
	for _, attack := range g.sortedKeys(stringLess) {
		xs := values(g.rows[attack], lossOf)
		std, _ := sampleStd(xs)
		lo, hi := minMax(xs)
		out = append(out, model.AttackTypeStats{
			AttackType: attack,
			Count:      len(xs),
			Mean:       round2(mean(xs)),
			Median:     round2(median(xs)),
			StdDev:     round2(std),
			Min:        round2(lo),
			Max:        round2(hi),
		})
	}
	return out
}

// Variability returns the coefficient of variation (std/mean*100) of financial
// loss per attack type in first-seen order. Groups with a single row or a
// non-positive mean are skipped.
func Variability(t *dataset.Table) []model.Variability {
	g := groupBy(t.Incidents, byAttack)
	var out []model.Variability
	for _, attack := range g.order {
		xs := values(g.rows[attack], lossOf)
		m := mean(xs)
		std, ok := sampleStd(xs)
		if !ok || m <= 0 {
			continue
		}
		out = append(out, model.Variability{AttackType: attack, CV: std / m * 100})
	}
	return out
}

// YearBreakdown counts incidents per year and category. Years ascend, labels
// are sorted and every label appears in every year, zero-filled.
func YearBreakdown(t *dataset.Table, key func(model.Incident) string) ([]model.YearBreakdown, []string) {
	labels := groupBy(t.Incidents, key).sortedKeys(stringLess)
	years := groupBy(t.Incidents, byYear)

	out := make([]model.YearBreakdown, 0, len(years.order))
	for _, year := range years.sortedKeys(intLess) {
		counts := make(map[string]int)
		for _, inc := range years.rows[year] {
			counts[key(inc)]++
		}
		point := model.YearBreakdown{Year: year, Counts: make([]model.CategoryCount, len(labels))}
		for i, l := range labels {
			point.Counts[i] = model.CategoryCount{Label: l, Count: counts[l]}
			point.Total += counts[l]
		}
		out = append(out, point)
	}
	return out, labels
}

// AttackTrend is the per-year attack type breakdown.
func AttackTrend(t *dataset.Table) ([]model.YearBreakdown, []string) {
	return YearBreakdown(t, byAttack)
}

// IndustryTrend is the per-year target industry breakdown.
func IndustryTrend(t *dataset.Table) ([]model.YearBreakdown, []string) {
	return YearBreakdown(t, byIndustry)
}

// LossTrend is the mean financial loss per year.
func LossTrend(t *dataset.Table) []model.YearValue {
	years := groupBy(t.Incidents, byYear)
	out := make([]model.YearValue, 0, len(years.order))
	for _, year := range years.sortedKeys(intLess) {
		out = append(out, model.YearValue{Year: year, Value: mean(values(years.rows[year], lossOf))})
	}
	return out
}

// Yearly aggregates loss, users and resolution time per year, rounded to two
// decimals, with the most frequent attack type of each year. Ties go to the
// alphabetically first attack type.
func Yearly(t *dataset.Table) []model.YearlyStats {
	years := groupBy(t.Incidents, byYear)
	out := make([]model.YearlyStats, 0, len(years.order))
	for _, year := range years.sortedKeys(intLess) {
		rows := years.rows[year]
		loss := values(rows, lossOf)
		users := values(rows, usersOf)
		std, _ := sampleStd(loss)
		out = append(out, model.YearlyStats{
			Year:             year,
			LossMean:         round2(mean(loss)),
			LossMedian:       round2(median(loss)),
			LossStdDev:       round2(std),
			UsersMean:        round2(mean(users)),
			UsersMedian:      round2(median(users)),
			ResolutionMean:   round2(mean(values(rows, resolutionOf))),
			MostCommonAttack: mostCommon(rows, byAttack),
		})
	}
	return out
}

// Industries aggregates the numeric columns per target industry, sorted by name.
func Industries(t *dataset.Table) []model.IndustryStats {
	g := groupBy(t.Incidents, byIndustry)
	out := make([]model.IndustryStats, 0, len(g.order))
	for _, industry := range g.sortedKeys(stringLess) {
		rows := g.rows[industry]
		out = append(out, model.IndustryStats{
			Industry:       industry,
			LossMean:       round2(mean(values(rows, lossOf))),
			UsersMean:      round2(mean(values(rows, usersOf))),
			ResolutionMean: round2(mean(values(rows, resolutionOf))),
		})
	}
	return out
}

func mostCommon(rows []model.Incident, key func(model.Incident) string) string {
	g := groupBy(rows, key)
	best, bestCount := "", -1
	for _, k := range g.sortedKeys(stringLess) {
		if n := len(g.rows[k]); n > bestCount {
			best, bestCount = k, n
		}
	}
	return best
}
