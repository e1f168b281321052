package insights

import (
	"github.com/threatinsight/portal-backend/dataset"
	"github.com/threatinsight/portal-backend/model"
)

// FormOptions lists the scenario form choices. Categorical options keep
// first-seen order; numeric ranges and defaults come from the column min, max
// and mean, truncated to integers for year and users.
func FormOptions(t *dataset.Table) model.FormOptions {
	var opts model.FormOptions
	opts.Countries, _ = t.Unique(dataset.ColCountry)
	opts.AttackSources, _ = t.Unique(dataset.ColAttackSource)
	opts.VulnerabilityTypes, _ = t.Unique(dataset.ColVulnerabilityType)
	opts.DefenseMechanisms, _ = t.Unique(dataset.ColDefenseMechanism)

	if t.Len() == 0 {
		return opts
	}

	years := values(t.Incidents, func(inc model.Incident) float64 { return float64(inc.Year) })
	lo, hi := minMax(years)
	opts.YearMin, opts.YearMax, opts.YearDefault = int(lo), int(hi), int(mean(years))

	users := values(t.Incidents, usersOf)
	_, hi = minMax(users)
	opts.UsersMax, opts.UsersDefault = int64(hi), int64(mean(users))

	hours := values(t.Incidents, resolutionOf)
	opts.HoursMin, opts.HoursMax = minMax(hours)
	opts.HoursDefault = mean(hours)
	return opts
}
