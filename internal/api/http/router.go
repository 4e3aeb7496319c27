package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/civic-issue-service/internal/api/http/handlers"
	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Issues         *handlers.IssuesHandler
	StaffIssues    *handlers.StaffIssuesHandler
	Citizens       *handlers.CitizensHandler
	Staff          *handlers.StaffHandler
	Departments    *handlers.DepartmentsHandler
	AuthMiddleware *auth.AuthMiddleware
	RedisClient    *redis.Client
	ReportLimit    int
	Logger         *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/citizens/register", cfg.Citizens.Register)
	authGroup.Post("/citizens/login", cfg.Citizens.Login)
	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAnySession(), cfg.Staff.ChangePassword)

	api := app.Group("/api")

	api.Get("/departments", cfg.Departments.List)

	issues := api.Group("/issues")
	issues.Post("",
		cfg.AuthMiddleware.HandleOptional,
		ReportRateLimiter(cfg.RedisClient, cfg.ReportLimit, cfg.Logger),
		cfg.Issues.CreateIssue)
	issues.Get("/nearby", cfg.Issues.Nearby)
	issues.Get("",
		cfg.AuthMiddleware.Handle,
		auth.RequireStaffRole(),
		cfg.StaffIssues.ListIssues)
	issues.Get("/:id", cfg.AuthMiddleware.Handle, auth.RequireAnySession(), cfg.Issues.GetIssue)
	issues.Get("/:id/timeline", cfg.AuthMiddleware.Handle, auth.RequireAnySession(), cfg.Issues.GetTimeline)
	issues.Post("/:id/comments", cfg.AuthMiddleware.Handle, auth.RequireAnySession(), cfg.Issues.AddComment)
	issues.Patch("/:id",
		cfg.AuthMiddleware.Handle,
		auth.RequireStaffRole(),
		cfg.StaffIssues.UpdateIssue)
	issues.Post("/:id/assign",
		cfg.AuthMiddleware.Handle,
		auth.RequireMinRole(domain.RoleOfficer),
		cfg.StaffIssues.AssignIssue)
	issues.Post("/:id/escalate",
		cfg.AuthMiddleware.Handle,
		auth.RequireMinRole(domain.RoleManager),
		cfg.StaffIssues.EscalateIssue)

	my := api.Group("/my", cfg.AuthMiddleware.Handle, auth.RequireCitizen())
	my.Get("/issues", cfg.Issues.ListMyIssues)

	officers := api.Group("/officers", cfg.AuthMiddleware.Handle, auth.RequireMinRole(domain.RoleManager))
	officers.Get("", cfg.Staff.ListOfficers)
	officers.Post("", auth.RequireMinRole(domain.RoleAdmin), cfg.Staff.CreateOfficer)
	officers.Patch("/:id", auth.RequireMinRole(domain.RoleAdmin), cfg.Staff.UpdateOfficer)
}
