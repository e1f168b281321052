// Package dashboard implements the resolvers for dashboard metrics.
package dashboard

import (
	"github.com/graphql-go/graphql"

	"github.com/threatinsight/portal-backend/graphql/session"
	"github.com/threatinsight/portal-backend/model"
)

// ResolveOverview handles fetching the high-level dashboard metrics
func ResolveOverview(p graphql.ResolveParams) (interface{}, error) {
	s, err := session.From(p.Context)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"rows":          s.Dashboard.Rows,
		"mean_loss":     s.Dashboard.Loss.Mean,
		"median_loss":   s.Dashboard.Loss.Median,
		"std_dev_loss":  s.Dashboard.Loss.StdDev,
		"variance_loss": s.Dashboard.Loss.Variance,
	}, nil
}

// ResolveAttackStats returns the per-attack-type loss summary
func ResolveAttackStats(p graphql.ResolveParams) (interface{}, error) {
	s, err := session.From(p.Context)
	if err != nil {
		return nil, err
	}
	return s.Dashboard.AttackStats, nil
}

// ResolveVariability returns the coefficient of variation per attack type
func ResolveVariability(p graphql.ResolveParams) (interface{}, error) {
	s, err := session.From(p.Context)
	if err != nil {
		return nil, err
	}
	return s.Dashboard.Variability, nil
}

// ResolveAttackTrend returns incident counts per year and attack type
func ResolveAttackTrend(p graphql.ResolveParams) (interface{}, error) {
	s, err := session.From(p.Context)
	if err != nil {
		return nil, err
	}
	return trend(s.Dashboard.AttackLabels, s.Dashboard.AttackTrend), nil
}

// ResolveIndustryTrend returns incident counts per year and target industry
func ResolveIndustryTrend(p graphql.ResolveParams) (interface{}, error) {
	s, err := session.From(p.Context)
	if err != nil {
		return nil, err
	}
	return trend(s.Dashboard.IndustryLabels, s.Dashboard.IndustryTrend), nil
}

func trend(labels []string, years []model.YearBreakdown) map[string]interface{} {
	return map[string]interface{}{
		"labels": labels,
		"years":  years,
	}
}

// ResolveLossTrend returns the mean financial loss per year, optionally
// restricted to [fromYear, toYear]
func ResolveLossTrend(p graphql.ResolveParams) (interface{}, error) {
	s, err := session.From(p.Context)
	if err != nil {
		return nil, err
	}

	from, hasFrom := p.Args["fromYear"].(int)
	to, hasTo := p.Args["toYear"].(int)

	points := make([]model.YearValue, 0, len(s.Dashboard.LossTrend))
	for _, pt := range s.Dashboard.LossTrend {
		if hasFrom && pt.Year < from {
			continue
		}
		if hasTo && pt.Year > to {
			continue
		}
		points = append(points, pt)
	}
	return points, nil
}

// ResolveModelPerformance returns the held-out evaluation of the three models
func ResolveModelPerformance(p graphql.ResolveParams) (interface{}, error) {
	s, err := session.From(p.Context)
	if err != nil {
		return nil, err
	}
	return s.Performance(), nil
}

// ResolveFindings returns the key findings report
func ResolveFindings(p graphql.ResolveParams) (interface{}, error) {
	s, err := session.From(p.Context)
	if err != nil {
		return nil, err
	}
	return s.Findings, nil
}
