// Package prediction defines the GraphQL queries for the scenario simulator.
package prediction

import (
	"github.com/graphql-go/graphql"
)

// GetQueryFields returns the prediction queries to be mounted in the root schema
func GetQueryFields() graphql.Fields {
	return graphql.Fields{
		"formOptions": &graphql.Field{
			Type:    FormOptionsType,
			Resolve: ResolveFormOptions,
		},
		"predict": &graphql.Field{
			Type: PredictionType,
			Args: graphql.FieldConfigArgument{
				"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(ScenarioInputType)},
			},
			Resolve: ResolvePredict,
		},
	}
}
