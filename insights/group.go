package insights

import (
	"sort"

	"github.com/threatinsight/portal-backend/model"
)

// group collects row values under a key while remembering first-seen order.
type group[K comparable] struct {
	order []K
	rows  map[K][]model.Incident
}

func groupBy[K comparable](incidents []model.Incident, key func(model.Incident) K) *group[K] {
	g := &group[K]{rows: make(map[K][]model.Incident)}
	for _, inc := range incidents {
		k := key(inc)
		if _, ok := g.rows[k]; !ok {
			g.order = append(g.order, k)
		}
		g.rows[k] = append(g.rows[k], inc)
	}
	return g
}

func (g *group[K]) sortedKeys(less func(a, b K) bool) []K {
	keys := append([]K(nil), g.order...)
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return keys
}

func byYear(inc model.Incident) int { return inc.Year }
func byAttack(inc model.Incident) string { return inc.AttackType }
func byIndustry(inc model.Incident) string { return inc.TargetIndustry }
func lossOf(inc model.Incident) float64 { return inc.FinancialLoss }
func usersOf(inc model.Incident) float64 { return float64(inc.AffectedUsers) }
func resolutionOf(inc model.Incident) float64 { return inc.ResolutionHours }
func intLess(a, b int) bool { return a < b }
func stringLess(a, b string) bool { return a < b }

func values(incidents []model.Incident, get func(model.Incident) float64) []float64 {
	out := make([]float64, len(incidents))
	for i, inc := range incidents {
		out[i] = get(inc)
	}
	return out
}
