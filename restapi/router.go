// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/threatinsight/portal-backend/graphql/session"
	"github.com/threatinsight/portal-backend/internal/metrics"
	"github.com/threatinsight/portal-backend/restapi/modules/insights"
	"github.com/threatinsight/portal-backend/restapi/modules/portal"
	"github.com/threatinsight/portal-backend/restapi/modules/prediction"
)

// SetupRoutes configures the HTML portal, the REST API routes and the GraphQL endpoint.
// load is called once per request; nothing is shared between requests.
func SetupRoutes(app *fiber.App, load session.Loader, schema graphql.Schema, reg *metrics.Registry) {
	// HTML portal
	app.Get("/", portal.Index(load))
	app.Post("/predict", portal.Predict(load, reg))

	// API Group /api/v1
	api := app.Group("/api/v1")

	// GraphQL Route - Mounted within the api group to inherit path prefixes
	api.Post("/graphql", GraphQLHandler(schema, load))

	api.Get("/dashboard", insights.GetDashboard(load))
	api.Get("/options", insights.GetOptions(load))
	api.Post("/predict", prediction.PostPredict(load, reg))
}
