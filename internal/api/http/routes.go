package httpapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/climate-risk-assistant/internal/report"
	"github.com/i474232898/climate-risk-assistant/internal/risk"
	"github.com/i474232898/climate-risk-assistant/internal/weather"
)

var validate = validator.New()

// ReportGenerator produces a risk report. *report.Service satisfies it.
type ReportGenerator interface {
	Generate(ctx context.Context, c weather.Coordinate, role risk.Role) (report.RiskReport, error)
}

// RegisterRoutes wires the report handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, generator ReportGenerator) {
	v1 := app.Group("/api/v1")

	v1.Post("/risk_report", func(c *fiber.Ctx) error {
		var req reportRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := req.validate(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return respond(c, generator, req)
	})

	v1.Get("/risk_report", func(c *fiber.Ctx) error {
		req, err := parseReportQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return respond(c, generator, req)
	})
}

func respond(c *fiber.Ctx, generator ReportGenerator, req reportRequest) error {
	r, err := generator.Generate(c.UserContext(), req.coordinate(), risk.Role(*req.UserType))
	if err != nil {
		return err
	}
	return c.JSON(r)
}

// reportRequest is the body of a report request. Unknown user types are
// accepted and scored with the neutral weight.
type reportRequest struct {
	Lat      *float64 `json:"lat" validate:"required"`
	Lon      *float64 `json:"lon" validate:"required"`
	UserType *string  `json:"user_type" validate:"required"`
}

func (r reportRequest) validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if !finite(*r.Lat) || !finite(*r.Lon) {
		return errors.New("lat and lon must be finite numbers")
	}
	return nil
}

func (r reportRequest) coordinate() weather.Coordinate {
	return weather.Coordinate{Lat: *r.Lat, Lon: *r.Lon}
}

func parseReportQuery(c *fiber.Ctx) (reportRequest, error) {
	var req reportRequest

	if v := c.Query("lat"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("invalid lat %q", v)
		}
		req.Lat = &lat
	}
	if v := c.Query("lon"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("invalid lon %q", v)
		}
		req.Lon = &lon
	}
	if c.Context().QueryArgs().Has("user_type") {
		role := c.Query("user_type")
		req.UserType = &role
	}

	return req, req.validate()
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
