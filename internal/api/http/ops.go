package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/climate-risk-assistant/internal/scheduler"
)

// Readiness reports the latest dependency probe. *scheduler.Prober satisfies it.
type Readiness interface {
	Status() scheduler.Status
}

// RegisterOps wires liveness, readiness and metrics endpoints. A nil gatherer
// serves the default Prometheus registry.
func RegisterOps(app *fiber.App, service string, readiness Readiness, gatherer prometheus.Gatherer) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": service,
		})
	})

	app.Get("/readyz", func(c *fiber.Ctx) error {
		st := readiness.Status()
		if !st.Ready {
			return c.Status(fiber.StatusServiceUnavailable).JSON(st)
		}
		return c.JSON(st)
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
