package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "github.com/uscann/chemtrack/docs/api" // Swagger docs
	"github.com/uscann/chemtrack/internal/config"
	"github.com/uscann/chemtrack/internal/database"
	"github.com/uscann/chemtrack/internal/handlers"
	"github.com/uscann/chemtrack/internal/logger"
	"github.com/uscann/chemtrack/internal/middleware"
	"github.com/uscann/chemtrack/internal/services"
)

// @title chemtrack API
// @version 1.0.0
// @description Laboratory chemical inventory service with multi-database support
// @termsOfService http://swagger.io/terms/

// @contact.name chemtrack maintainers
// @contact.url https://github.com/uscann/chemtrack/issues

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(logger.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Path:        cfg.LogPath,
		ServiceName: "chemtrack",
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.Connect(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               "chemtrack",
		ErrorHandler:          handlers.ErrorHandler(zlog),
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(zlog))
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("chemtrack")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	handlers.RegisterRoutes(app, handlers.Dependencies{
		DB:        db,
		Config:    cfg,
		Log:       zlog,
		Tokens:    services.NewTokenIssuer(cfg.AuthSecret, cfg.AuthTokenTTL),
		Compounds: services.NewPubChemClient(cfg.PubChemURL, cfg.PubChemTimeout),
	})

	// 404 handler
	app.Use(handlers.NotFound)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		zlog.Info("gracefully shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("shutdown failed", zap.Error(err))
		}
	}()

	zlog.Info("starting server", zap.String("port", cfg.Port), zap.String("db_type", cfg.DBType))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}

	zlog.Info("server stopped")
}
