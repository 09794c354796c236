package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"volleyball-scoretracker/config"
	"volleyball-scoretracker/handlers"
	"volleyball-scoretracker/middleware"
	"volleyball-scoretracker/repositories"
	"volleyball-scoretracker/services"
	"volleyball-scoretracker/utils"
	"volleyball-scoretracker/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfgFile := os.Getenv("CONFIG_FILE")
	if cfgFile == "" {
		cfgFile = "config.yaml"
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := setupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg, log)
	if err != nil {
		log.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(registry)

	// Scoresheet archiving is optional.
	var archive services.ScoresheetQueue
	stopArchiver := func() {}
	if r2 := cfg.R2.Uploader(); r2.Enabled() {
		uploader, err := utils.NewR2Uploader(ctx, r2)
		if err != nil {
			log.Error("failed to initialize R2 client", slog.Any("error", err))
			os.Exit(1)
		}
		archiver := workers.NewScoresheetArchiver(uploader, 64, log.With(slog.String("worker", "scoresheet")))
		stopArchiver = archiver.Start()
		archive = archiver
	} else {
		log.Warn("R2 bucket not configured, scoresheet archiving disabled")
	}

	identity := services.NewIdentityProvider(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	matchService := services.NewMatchService(store, metrics, archive, log)
	guestService := services.NewGuestSessionService(store, cfg.Guest.SessionTTL, metrics, log)
	accountService := services.NewAccountService(store, identity, log)

	sched, err := guestService.StartCleanupScheduler(ctx, cfg.Guest.CleanupInterval)
	if err != nil {
		log.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sched.Shutdown(); err != nil {
			log.Error("scheduler shutdown failed", slog.Any("error", err))
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      "volleyball-scoretracker",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins(cfg.CORS.AllowedOrigins),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.GuestSessionHeader,
		MaxAge:       86400,
	}))

	handlers.SetupAuthRoutes(app, accountService)
	handlers.SetupGuestRoutes(app, guestService)
	handlers.SetupMatchRoutes(app, matchService, identity)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Error("server error", slog.Any("error", err))
			stop()
		}
	}()

	log.Info("server running",
		slog.String("addr", cfg.HTTPAddr),
		slog.String("storage", cfg.Storage.Driver),
		slog.Duration("guest_session_ttl", cfg.Guest.SessionTTL),
	)

	<-ctx.Done()
	log.Info("shutting down server")
	shutdown(app, stopArchiver, log)
}

type server interface {
	ShutdownWithTimeout(timeout time.Duration) error
}

// shutdown stops the server before the archiver, so scoresheets enqueued by
// requests still in flight are uploaded rather than dropped.
func shutdown(srv server, stopArchiver func(), log *slog.Logger) {
	if err := srv.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	stopArchiver()
	log.Info("shutdown complete")
}

func openStore(cfg *config.Config, log *slog.Logger) (repositories.Store, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		log.Warn("using in-memory store, data is lost on restart")
		return repositories.NewMemoryStore(), nil
	}

	db, err := gorm.Open(postgres.Open(cfg.Storage.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	store := repositories.NewGormStore(db)
	if err := store.AutoMigrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func allowedOrigins(raw string) string {
	origins := strings.Split(raw, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	return strings.Join(origins, ",")
}

func setupLogging(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(log)
	return log
}
