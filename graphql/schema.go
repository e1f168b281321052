// Package graphql assembles the root GraphQL schema from the module query fields.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/threatinsight/portal-backend/graphql/modules/dashboard"
	"github.com/threatinsight/portal-backend/graphql/modules/prediction"
)

// CreateSchema builds the schema served at /api/v1/graphql.
func CreateSchema() (graphql.Schema, error) {
	fields := graphql.Fields{}
	for _, module := range []graphql.Fields{
		dashboard.GetQueryFields(),
		prediction.GetQueryFields(),
	} {
		for name, field := range module {
			fields[name] = field
		}
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: fields,
		}),
	})
}
