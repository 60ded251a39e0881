package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gupta1123/fieldsales-teams/internal/api/http/handlers"
	"github.com/gupta1123/fieldsales-teams/internal/auth"
	"github.com/gupta1123/fieldsales-teams/internal/config"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Teams          *handlers.TeamsHandler
	Employees      *handlers.EmployeesHandler
	Filters        *handlers.FiltersHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimit      config.RateLimitConfig
	Logger         *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) error {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)
	api.Get("/me", handlers.Me)

	mutate := []fiber.Handler{auth.RequireCapability(auth.CanManageTeams)}
	if cfg.RateLimit.Enabled {
		logger := cfg.Logger
		if logger == nil {
			logger = zap.NewNop()
		}
		limit, err := mutationRateLimit(cfg.RateLimit.Rate, logger)
		if err != nil {
			return err
		}
		mutate = append(mutate, limit)
	}
	with := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, mutate...), h)
	}

	teams := api.Group("/teams")
	teams.Get("/", cfg.Teams.ListTeams)
	teams.Get("/pool", cfg.Teams.Pool)
	teams.Post("/", with(cfg.Teams.CreateTeam)...)
	teams.Post("/avp", with(cfg.Teams.AssignAvp)...)
	teams.Get("/:id", cfg.Teams.GetTeam)
	teams.Get("/:id/audit", cfg.Teams.History)
	teams.Put("/:id/field-officers", with(cfg.Teams.AddFieldOfficers)...)
	teams.Delete("/:id/field-officers", with(cfg.Teams.RemoveFieldOfficers)...)
	teams.Delete("/:id", with(cfg.Teams.DeleteTeam)...)

	employees := api.Group("/employees")
	employees.Get("/", cfg.Employees.ListEmployees)
	employees.Get("/field-officers", cfg.Employees.ListFieldOfficers)
	employees.Put("/:id/cities/:city", with(cfg.Employees.AssignCity)...)
	employees.Delete("/:id/cities/:city", with(cfg.Employees.RemoveCity)...)

	filters := api.Group("/filters")
	filters.Get("/:screen", cfg.Filters.Get)
	filters.Put("/:screen", cfg.Filters.Put)
	filters.Delete("/:screen", cfg.Filters.Delete)
	return nil
}
