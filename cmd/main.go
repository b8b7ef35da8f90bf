package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"movie-finder/internal/config"
	"movie-finder/internal/database"
	"movie-finder/internal/handler"
	"movie-finder/internal/middleware"
	"movie-finder/internal/repository"
	"movie-finder/internal/service"
	"movie-finder/internal/tmdb"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	db, err := database.NewPostgres(ctx, cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Connect to Redis (non-fatal if unavailable)
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, rate limiting in process", "error", err)
			rdb = nil
		}
	}

	// Initialize layers
	movieRepo := repository.NewMovieRepository(db)
	userRepo := repository.NewUserRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	recRepo := repository.NewRecommendationRepository(db)

	var source service.CatalogSource
	if cfg.TMDB.Enabled() {
		source = tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL)
	} else {
		slog.Info("TMDB_API_KEY not set, catalog import disabled")
	}

	handlers := handler.Handlers{
		Movies:          handler.NewMovieHandler(service.NewMovieService(movieRepo)),
		Users:           handler.NewUserHandler(service.NewUserService(userRepo)),
		Interactions:    handler.NewInteractionHandler(service.NewInteractionService(interactionRepo)),
		Recommendations: handler.NewRecommendationHandler(service.NewRecommendationService(recRepo, cfg.Recommendations)),
		Admin:           handler.NewAdminHandler(service.NewImportService(source, movieRepo)),
		AdminToken:      cfg.AdminToken,
	}
	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN not set, admin endpoints will reject all requests")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Movie Finder",
		ServerHeader: "Movie-Finder",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				slog.Error("unhandled error", "error", err, "status", code)
				return c.Status(code).JSON(handler.ErrorResponse{Error: "internal server error"})
			}
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	app.Use(middleware.Metrics())
	if cfg.RateLimit.Enabled {
		app.Use("/api", middleware.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.WindowSeconds).Handler())
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	handlers.Register(app)

	go func() {
		addr := ":" + cfg.Port
		slog.Info("starting movie finder", "addr", addr)
		if err := app.Listen(addr); err != nil {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down movie finder...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("error shutting down HTTP server", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("error closing Redis connection", "error", err)
		}
	}
	if err := db.Close(); err != nil {
		slog.Error("error closing PostgreSQL connection", "error", err)
	}
	slog.Info("movie finder shutdown complete")
}
