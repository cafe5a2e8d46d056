package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartcity/hotspots/internal/config"
	"github.com/smartcity/hotspots/internal/delivery/http"
	"github.com/smartcity/hotspots/internal/generator"
	"github.com/smartcity/hotspots/internal/logger"
	"github.com/smartcity/hotspots/internal/report"
	"github.com/smartcity/hotspots/internal/repository/postgres"
	"github.com/smartcity/hotspots/internal/scheduler"
	"github.com/smartcity/hotspots/internal/service"
)

func main() {
	// Configuration
	cfg, warnings := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Env)
	for _, w := range warnings {
		log.Info(w)
	}

	// Database connection
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		p, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			err = p.Ping(ctx)
		}
		cancel()
		if err != nil {
			log.Warnf("Could not connect to database: %v", err)
			log.Info("Running with generated data only")
		} else {
			pool = p
			defer pool.Close()
			log.Info("Connected to PostgreSQL")
		}
	}

	// Dependency Injection: Repositories
	var repo service.ObservationRepository
	if pool != nil {
		repo = postgres.NewPostgresRepository(pool)
	} else {
		repo = postgres.NewGeneratorRepository(generator.Config{
			Days:  cfg.GeneratorDays,
			Start: cfg.GeneratorStart,
			Seed:  cfg.GeneratorSeed,
		})
	}

	// Dependency Injection: Services
	from, to := cfg.Window()
	analysisSvc := service.NewAnalysisService(repo, log, from, to, cfg.RefreshInterval)
	if _, err := analysisSvc.Refresh(context.Background()); err != nil {
		log.Warnf("Initial analysis failed: %v", err)
	}

	var cron *scheduler.CronScheduler
	if cfg.RefreshInterval > 0 {
		cron = scheduler.NewCronScheduler(30*time.Second, log)
		refresh := func(ctx context.Context) error {
			_, err := analysisSvc.Refresh(ctx)
			return err
		}
		if err := cron.Schedule(context.Background(), cfg.RefreshInterval, refresh); err != nil {
			log.Fatalf("Failed to schedule refresh: %v", err)
		}
	}

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Traffic Hotspots API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	handler := http.NewHandler(analysisSvc, report.NewExcelExporter(log), log)
	http.SetupRoutes(app, handler)

	// Graceful shutdown
	go func() {
		log.Infof("Server starting on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if cron != nil {
		cron.Stop()
	}
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	log.Info("Server exited gracefully")
}
