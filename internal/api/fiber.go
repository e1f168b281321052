// Package api assembles the Fiber application with middleware, health and
// metrics endpoints, and the portal routes.
package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/threatinsight/portal-backend/graphql"
	"github.com/threatinsight/portal-backend/graphql/session"
	"github.com/threatinsight/portal-backend/internal/metrics"
	"github.com/threatinsight/portal-backend/restapi"
)

// Options configures the Fiber app.
type Options struct {
	AppName     string
	ReadTimeout time.Duration
	Metrics     *metrics.Registry
	// Quiet disables the request logger.
	Quiet bool
}

// NewFiberApp creates and configures a Fiber app with REST and GraphQL routes
func NewFiberApp(opts Options, load session.Loader) (*fiber.App, error) {
	schema, err := graphql.CreateSchema()
	if err != nil {
		return nil, err
	}

	if opts.AppName == "" {
		opts.AppName = "threatinsight portal API v1.0"
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 60 * time.Second
	}
	reg := opts.Metrics
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}

	app := fiber.New(fiber.Config{
		AppName:     opts.AppName,
		BodyLimit:   4 * 1024 * 1024, // 4MB
		ReadTimeout: opts.ReadTimeout,
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, HEAD, OPTIONS",
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("graphql_op", "-")
		return c.Next()
	})
	if !opts.Quiet {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} - ${latency} ${method} ${path} ${locals:graphql_op}\n",
		}))
	}
	app.Use(requestMetrics(reg))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg.GetPrometheusRegistry(), promhttp.HandlerOpts{})))

	// Setup portal, REST and GraphQL routes
	restapi.SetupRoutes(app, load, schema, reg)

	return app, nil
}

// requestMetrics records every request against its route pattern so that
// path parameters do not explode label cardinality.
func requestMetrics(reg *metrics.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		path := c.Route().Path
		if path == "" || (path == "/" && c.Path() != "/") {
			path = "unmatched"
		}
		reg.RecordHTTPRequest(c.Method(), path, strconv.Itoa(status), time.Since(start))
		return err
	}
}
