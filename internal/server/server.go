package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mansoorceksport/flexpro/internal/config"
	"github.com/mansoorceksport/flexpro/internal/domain"
	"github.com/mansoorceksport/flexpro/internal/handler"
	"github.com/mansoorceksport/flexpro/internal/middleware"
	"github.com/mansoorceksport/flexpro/internal/repository"
	"github.com/mansoorceksport/flexpro/internal/service"
	"github.com/mansoorceksport/flexpro/internal/telemetry"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	// Reports overrides the S3 report store built from Config.S3
	Reports domain.ReportRepository
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	cfg := deps.Config

	// Initialize repositories
	redisRepo := repository.NewRedisCacheRepository(deps.RedisClient)
	exerciseRepo := repository.NewCachedExerciseRepository(
		repository.NewMongoExerciseRepository(deps.MongoDB),
		redisRepo,
	)
	programRepo := repository.NewMongoProgramRepository(deps.MongoDB)

	reports := deps.Reports
	if reports == nil && cfg.S3.Enabled() {
		s3Repo, err := repository.NewS3ReportRepository(context.Background(), cfg.S3)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize S3 report storage; report export disabled")
		} else {
			reports = s3Repo
		}
	}

	// Initialize services
	catalogService := service.NewCatalogService(exerciseRepo, redisRepo, cfg.Cache.FilterTTL)
	programService := service.NewProgramService(programRepo, catalogService, redisRepo, reports, cfg.Cache.AnalyticsTTL)

	// Initialize handlers
	catalogHandler := handler.NewCatalogHandler(catalogService)
	programHandler := handler.NewProgramHandler(programService)

	app := fiber.New(fiber.Config{
		AppName:      "FlexPro Program Builder API",
		BodyLimit:    int(cfg.Server.BodyLimitMB * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(telemetry.FiberMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "flexpro-program-builder",
		})
	})

	v1 := app.Group("/v1")
	requireCoach := middleware.VerifyCoachToken(cfg.JWT.Secret)
	idempotent := middleware.IdempotencyMiddleware(deps.RedisClient, cfg.Cache.IdempotencyTTL)

	// ===========================================
	// EXERCISE CATALOG - public read, admin write
	// ===========================================
	v1.Get("/exercises", catalogHandler.ListExercises)

	adminEx := v1.Group("/exercises")
	adminEx.Use(requireCoach)
	adminEx.Use(middleware.AuthorizeRole(domain.RoleAdmin))
	adminEx.Use(idempotent)
	adminEx.Post("/", catalogHandler.CreateExercise)
	adminEx.Put("/:id", catalogHandler.UpdateExercise)
	adminEx.Delete("/:id", catalogHandler.DeleteExercise)

	// ===========================================
	// PROGRAMS - /v1/programs/* (requires 'coach' or 'admin' role)
	// ===========================================
	programs := v1.Group("/programs")
	programs.Use(requireCoach)
	programs.Use(middleware.AuthorizeRole(domain.RoleCoach, domain.RoleAdmin))
	programs.Use(idempotent)

	programs.Post("/", programHandler.CreateProgram)
	programs.Get("/", programHandler.ListPrograms)
	programs.Get("/:id", programHandler.GetProgram)
	programs.Delete("/:id", programHandler.DeleteProgram)
	programs.Post("/:id/save", programHandler.SaveProgram)

	days := programs.Group("/:id/days/:day")
	days.Post("/", programHandler.InitializeDay)
	days.Get("/", programHandler.GetDay)
	days.Delete("/", programHandler.RemoveDay)
	days.Post("/copy", programHandler.CopyDay)
	days.Post("/move", programHandler.MoveExercise)
	days.Post("/supersets", programHandler.LinkSuperset)
	days.Get("/analytics", programHandler.GetAnalytics)
	days.Get("/suggestions", programHandler.GetSuggestions)
	days.Post("/report", programHandler.CreateReport)

	days.Post("/exercises", programHandler.AddExercise)
	days.Patch("/exercises/:index", programHandler.UpdateExercise)
	days.Delete("/exercises/:index", programHandler.RemoveExercise)
	days.Post("/exercises/:index/duplicate", programHandler.DuplicateExercise)
	days.Delete("/exercises/:index/superset", programHandler.UnlinkSuperset)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := handler.StatusFor(err)
	entry := log.WithError(err).WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"status": code,
	})
	if code >= fiber.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
