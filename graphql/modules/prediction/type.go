// Package prediction defines the GraphQL types for the scenario simulator.
package prediction

import (
	"github.com/graphql-go/graphql"
)

// FormOptionsType lists the values the scenario form offers. User counts are
// Float because GraphQL Int is 32-bit.
var FormOptionsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "FormOptions",
	Fields: graphql.Fields{
		"countries":           &graphql.Field{Type: graphql.NewList(graphql.String)},
		"attack_sources":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		"vulnerability_types": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"defense_mechanisms":  &graphql.Field{Type: graphql.NewList(graphql.String)},
		"year_min":            &graphql.Field{Type: graphql.Int},
		"year_max":            &graphql.Field{Type: graphql.Int},
		"year_default":        &graphql.Field{Type: graphql.Int},
		"users_max":           &graphql.Field{Type: graphql.Float},
		"users_default":       &graphql.Field{Type: graphql.Float},
		"hours_min":           &graphql.Field{Type: graphql.Float},
		"hours_max":           &graphql.Field{Type: graphql.Float},
		"hours_default":       &graphql.Field{Type: graphql.Float},
	},
})

// ScenarioType echoes the submitted scenario
var ScenarioType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Scenario",
	Fields: graphql.Fields{
		"country":            &graphql.Field{Type: graphql.String},
		"attack_source":      &graphql.Field{Type: graphql.String},
		"vulnerability_type": &graphql.Field{Type: graphql.String},
		"defense_mechanism":  &graphql.Field{Type: graphql.String},
		"year":               &graphql.Field{Type: graphql.Int},
		"affected_users":     &graphql.Field{Type: graphql.Float},
		"resolution_hours":   &graphql.Field{Type: graphql.Float},
	},
})

// ScenarioInputType is the argument of the predict query
var ScenarioInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ScenarioInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"country":            &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"attack_source":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"vulnerability_type": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"defense_mechanism":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"year":               &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Int)},
		"affected_users":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		"resolution_hours":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
	},
})

// PredictionType is the decoded output of the three models
var PredictionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Prediction",
	Fields: graphql.Fields{
		"id":              &graphql.Field{Type: graphql.String},
		"attack_type":     &graphql.Field{Type: graphql.String},
		"target_industry": &graphql.Field{Type: graphql.String},
		"financial_loss":  &graphql.Field{Type: graphql.Float},
		"top_features":    &graphql.Field{Type: graphql.NewList(graphql.String)},
		"narrative":       &graphql.Field{Type: graphql.String},
		"scenario":        &graphql.Field{Type: ScenarioType},
		"predicted_at":    &graphql.Field{Type: graphql.DateTime},
	},
})
