// Package dashboard defines the GraphQL queries for the dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// GetQueryFields returns the dashboard queries to be mounted in the root schema
func GetQueryFields() graphql.Fields {
	return graphql.Fields{
		// Section 1: Top Cards (Overview)
		"dashboardOverview": &graphql.Field{
			Type:    DashboardOverviewType,
			Resolve: ResolveOverview,
		},
		// Section 2: Tables (Per Attack Type)
		"dashboardAttackStats": &graphql.Field{
			Type:    graphql.NewList(AttackTypeStatsType),
			Resolve: ResolveAttackStats,
		},
		"dashboardVariability": &graphql.Field{
			Type:    graphql.NewList(VariabilityType),
			Resolve: ResolveVariability,
		},
		// Section 3: Charts (Over Time)
		"dashboardAttackTrend": &graphql.Field{
			Type:    CategoryTrendType,
			Resolve: ResolveAttackTrend,
		},
		"dashboardIndustryTrend": &graphql.Field{
			Type:    CategoryTrendType,
			Resolve: ResolveIndustryTrend,
		},
		"dashboardLossTrend": &graphql.Field{
			Type: graphql.NewList(YearValueType),
			Args: graphql.FieldConfigArgument{
				"fromYear": &graphql.ArgumentConfig{Type: graphql.Int},
				"toYear":   &graphql.ArgumentConfig{Type: graphql.Int},
			},
			Resolve: ResolveLossTrend,
		},

		// ====================================================================
		// Model Evaluation Queries
		// ====================================================================

		"modelPerformance": &graphql.Field{
			Type:    ModelPerformanceType,
			Resolve: ResolveModelPerformance,
		},
		"findings": &graphql.Field{
			Type:    FindingsType,
			Resolve: ResolveFindings,
		},
	}
}
