// Package prediction implements the REST API handler for scenario predictions.
package prediction

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/threatinsight/portal-backend/graphql/session"
	"github.com/threatinsight/portal-backend/internal/metrics"
	"github.com/threatinsight/portal-backend/ml/labelenc"
	"github.com/threatinsight/portal-backend/model"
)

// PostPredict runs the freshly trained models on a JSON scenario.
func PostPredict(load session.Loader, reg *metrics.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.Scenario

		// Parse request body
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		if err := req.Validate(); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}

		s, err := load(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to train models",
			})
		}

		pred, err := s.Predictor.Predict(req)
		if reg != nil {
			reg.RecordPrediction(err)
		}
		if errors.Is(err, labelenc.ErrUnseenLabel) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		if err != nil {
			zap.S().Errorf("Prediction failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Prediction failed",
			})
		}

		return c.JSON(pred)
	}
}
