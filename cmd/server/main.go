package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpadapter "resume-builder/internal/adapter/http"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/infrastructure/config"
	"resume-builder/internal/infrastructure/logger"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/usecase"
	infra "resume-builder/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.New(nil).Fatal("failed to load config", zap.Error(err))
	}
	log := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	defer func() { _ = log.Sync() }()

	store, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	app := fiber.New(fiber.Config{
		AppName:               "resume-builder",
		BodyLimit:             cfg.HTTP.BodyLimit,
		DisableStartupMessage: cfg.IsProduction(),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: strings.Join(cfg.HTTP.CORSAllowOrigins, ",")}))
	app.Use(logger.FiberMiddleware(log))

	h := httpadapter.NewHandler(usecase.NewSectionService(store, log), log)
	h.Register(app)

	go func() {
		log.Info("server listening", zap.String("port", cfg.App.Port), zap.String("store", cfg.Store.Driver))
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}

// openStore connects the configured document store, falling back to memory
// when the database is unreachable.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (usecase.DocumentStore, func()) {
	switch cfg.Store.Driver {
	case "postgres":
		pool, err := infra.NewSectionsPool(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			log.Warn("sections DB not available, using memory store", zap.Error(err))
			break
		}
		if err := migration.RunMigrations(ctx, pool, log); err != nil {
			log.Fatal("failed to migrate sections DB", zap.Error(err))
		}
		return repo.NewPostgresStore(pool), pool.Close
	case "mongo":
		client, err := infra.NewMongoClient(ctx, cfg.Mongo.URI)
		if err != nil {
			log.Warn("mongo not available, using memory store", zap.Error(err))
			break
		}
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		return repo.NewMongoStore(coll), func() { _ = client.Disconnect(context.Background()) }
	}
	return repo.NewMemoryStore(), func() {}
}
