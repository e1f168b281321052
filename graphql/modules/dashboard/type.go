// Package dashboard defines the GraphQL types for the application dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// DashboardOverviewType represents the high-level metrics for the top cards
var DashboardOverviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DashboardOverview",
	Fields: graphql.Fields{
		"rows":          &graphql.Field{Type: graphql.Int},
		"mean_loss":     &graphql.Field{Type: graphql.Float},
		"median_loss":   &graphql.Field{Type: graphql.Float},
		"std_dev_loss":  &graphql.Field{Type: graphql.Float},
		"variance_loss": &graphql.Field{Type: graphql.Float},
	},
})

// AttackTypeStatsType represents one row of the per-attack-type summary table
var AttackTypeStatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AttackTypeStats",
	Fields: graphql.Fields{
		"attack_type": &graphql.Field{Type: graphql.String},
		"count":       &graphql.Field{Type: graphql.Int},
		"mean":        &graphql.Field{Type: graphql.Float},
		"median":      &graphql.Field{Type: graphql.Float},
		"std_dev":     &graphql.Field{Type: graphql.Float},
		"min":         &graphql.Field{Type: graphql.Float},
		"max":         &graphql.Field{Type: graphql.Float},
	},
})

// VariabilityType represents the coefficient of variation bar for an attack type
var VariabilityType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Variability",
	Fields: graphql.Fields{
		"attack_type": &graphql.Field{Type: graphql.String},
		"cv":          &graphql.Field{Type: graphql.Float},
	},
})

// CategoryCountType is one segment of a stacked bar
var CategoryCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CategoryCount",
	Fields: graphql.Fields{
		"label": &graphql.Field{Type: graphql.String},
		"count": &graphql.Field{Type: graphql.Int},
	},
})

// YearBreakdownType is one year of a stacked bar chart
var YearBreakdownType = graphql.NewObject(graphql.ObjectConfig{
	Name: "YearBreakdown",
	Fields: graphql.Fields{
		"year":   &graphql.Field{Type: graphql.Int},
		"counts": &graphql.Field{Type: graphql.NewList(CategoryCountType)},
		"total":  &graphql.Field{Type: graphql.Int},
	},
})

// CategoryTrendType bundles the series labels with the per-year points
var CategoryTrendType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CategoryTrend",
	Fields: graphql.Fields{
		"labels": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"years":  &graphql.Field{Type: graphql.NewList(YearBreakdownType)},
	},
})

// YearValueType is one point of the average loss line
var YearValueType = graphql.NewObject(graphql.ObjectConfig{
	Name: "YearValue",
	Fields: graphql.Fields{
		"year":  &graphql.Field{Type: graphql.Int},
		"value": &graphql.Field{Type: graphql.Float},
	},
})

// ============================================================================
// Model Performance Types
// ============================================================================

// ClassMetricsType represents one row of a classification report
var ClassMetricsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ClassMetrics",
	Fields: graphql.Fields{
		"label":     &graphql.Field{Type: graphql.String},
		"precision": &graphql.Field{Type: graphql.Float},
		"recall":    &graphql.Field{Type: graphql.Float},
		"f1":        &graphql.Field{Type: graphql.Float},
		"support":   &graphql.Field{Type: graphql.Int},
	},
})

// ClassificationReportType represents the held-out report of a classifier
var ClassificationReportType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ClassificationReport",
	Fields: graphql.Fields{
		"classes":      &graphql.Field{Type: graphql.NewList(ClassMetricsType)},
		"accuracy":     &graphql.Field{Type: graphql.Float},
		"macro_avg":    &graphql.Field{Type: ClassMetricsType},
		"weighted_avg": &graphql.Field{Type: ClassMetricsType},
	},
})

// RegressionReportType represents the held-out report of the loss regressor
var RegressionReportType = graphql.NewObject(graphql.ObjectConfig{
	Name: "RegressionReport",
	Fields: graphql.Fields{
		"mae": &graphql.Field{Type: graphql.Float},
		"r2":  &graphql.Field{Type: graphql.Float},
	},
})

// FeatureImportanceType represents a ranked feature of a model
var FeatureImportanceType = graphql.NewObject(graphql.ObjectConfig{
	Name: "FeatureImportance",
	Fields: graphql.Fields{
		"feature":    &graphql.Field{Type: graphql.String},
		"importance": &graphql.Field{Type: graphql.Float},
	},
})

// ModelPerformanceType represents the evaluation of all three models
var ModelPerformanceType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ModelPerformance",
	Fields: graphql.Fields{
		"train_rows":          &graphql.Field{Type: graphql.Int},
		"test_rows":           &graphql.Field{Type: graphql.Int},
		"attack_type":         &graphql.Field{Type: ClassificationReportType},
		"target_industry":     &graphql.Field{Type: ClassificationReportType},
		"financial_loss":      &graphql.Field{Type: RegressionReportType},
		"attack_importance":   &graphql.Field{Type: graphql.NewList(FeatureImportanceType)},
		"loss_importance":     &graphql.Field{Type: graphql.NewList(FeatureImportanceType)},
		"industry_importance": &graphql.Field{Type: graphql.NewList(FeatureImportanceType)},
	},
})

// FindingsType represents the key findings and the rendered report text
var FindingsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Findings",
	Fields: graphql.Fields{
		"avg_loss":                   &graphql.Field{Type: graphql.Float},
		"highest_loss_year":          &graphql.Field{Type: graphql.Int},
		"highest_loss_year_mean":     &graphql.Field{Type: graphql.Float},
		"most_volatile_year":         &graphql.Field{Type: graphql.Int},
		"most_volatile_year_std_dev": &graphql.Field{Type: graphql.Float},
		"most_targeted_industry":     &graphql.Field{Type: graphql.String},
		"most_targeted_industry_avg": &graphql.Field{Type: graphql.Float},
		"fastest_recovery_industry":  &graphql.Field{Type: graphql.String},
		"fastest_recovery_hours":     &graphql.Field{Type: graphql.Float},
		"slowest_recovery_industry":  &graphql.Field{Type: graphql.String},
		"slowest_recovery_hours":     &graphql.Field{Type: graphql.Float},
		"avg_users_affected":         &graphql.Field{Type: graphql.Float},
		"peak_impact_year":           &graphql.Field{Type: graphql.Int},
		"peak_impact_users":          &graphql.Field{Type: graphql.Float},
		"avg_resolution_hours":       &graphql.Field{Type: graphql.Float},
		"most_persistent_attack":     &graphql.Field{Type: graphql.String},
		"text":                       &graphql.Field{Type: graphql.String},
	},
})
