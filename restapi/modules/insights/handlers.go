// Package insights implements the REST API handlers for the dashboard data.
package insights

import (
	"github.com/gofiber/fiber/v2"

	"github.com/threatinsight/portal-backend/graphql/session"
)

// GetDashboard returns the statistics, chart series, model reports and findings.
func GetDashboard(load session.Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := load(c.UserContext())
		if err != nil {
			return pipelineFailure(c)
		}
		return c.JSON(s.Report())
	}
}

// GetOptions returns the scenario form options.
func GetOptions(load session.Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := load(c.UserContext())
		if err != nil {
			return pipelineFailure(c)
		}
		return c.JSON(s.Options)
	}
}

func pipelineFailure(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Failed to build the dashboard",
	})
}
