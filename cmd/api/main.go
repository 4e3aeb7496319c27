package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/civic-issue-service/internal/api/http"
	"github.com/spec-kit/civic-issue-service/internal/api/http/handlers"
	"github.com/spec-kit/civic-issue-service/internal/auth"
	"github.com/spec-kit/civic-issue-service/internal/config"
	"github.com/spec-kit/civic-issue-service/internal/events"
	"github.com/spec-kit/civic-issue-service/internal/observability"
	"github.com/spec-kit/civic-issue-service/internal/persistence"
	"github.com/spec-kit/civic-issue-service/internal/repository"
	"github.com/spec-kit/civic-issue-service/internal/service"
	"github.com/spec-kit/civic-issue-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	issueRepo := repository.NewIssueRepository(pool, cfg.Issue.TrackingPrefix)
	timelineRepo := repository.NewTimelineRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	officerRepo := repository.NewOfficerRepository(pool)
	citizenRepo := repository.NewCitizenRepository(pool)
	jurisdictionRepo := repository.NewJurisdictionRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		CitizenRepo: citizenRepo,
		OfficerRepo: officerRepo,
	})
	issueService := service.NewIssueService(cfg.Issue, service.IssueDependencies{
		IssueRepo:        issueRepo,
		DepartmentRepo:   departmentRepo,
		JurisdictionRepo: jurisdictionRepo,
		TimelineRepo:     timelineRepo,
		Dispatcher:       dispatcher,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		IssueRepo:      issueRepo,
		DepartmentRepo: departmentRepo,
		OfficerRepo:    officerRepo,
		Dispatcher:     dispatcher,
	})
	officerService := service.NewOfficerService(*cfg, officerRepo, departmentRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), citizenRepo, officerRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Issues:         handlers.NewIssuesHandler(issueService),
		StaffIssues:    handlers.NewStaffIssuesHandler(issueService, assignmentService),
		Citizens:       handlers.NewCitizensHandler(authService),
		Staff:          handlers.NewStaffHandler(authService, officerService),
		Departments:    handlers.NewDepartmentsHandler(departmentRepo),
		AuthMiddleware: authMiddleware,
		RedisClient:    redis.ClientHandle(),
		ReportLimit:    cfg.Issue.DailyReportLimit,
		Logger:         logger,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
