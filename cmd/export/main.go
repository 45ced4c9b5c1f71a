package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/domain"
	"resume-builder/internal/infrastructure/config"
	"resume-builder/internal/infrastructure/kv"
	"resume-builder/internal/infrastructure/logger"
	"resume-builder/internal/infrastructure/objectstore"
	"resume-builder/internal/usecase"
	infra "resume-builder/pkg/infrastructure"

	"go.uber.org/zap"
)

func main() {
	var (
		mode     = flag.String("mode", "", "pdf mode: print or raster (default from config)")
		htmlOnly = flag.Bool("html-only", false, "write the rendered HTML without producing a PDF")
		tplDir   = flag.String("templates", "", "directory overriding the embedded resume.html and style.css")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}
	log := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: "stderr"})
	defer func() { _ = log.Sync() }()

	if *mode == "" {
		*mode = cfg.Export.Mode
	}
	exportMode := usecase.ExportMode(*mode)
	if exportMode != usecase.ExportPrint && exportMode != usecase.ExportRaster {
		fmt.Fprintf(os.Stderr, "invalid -mode %q\n", *mode)
		os.Exit(2)
	}

	ctx := context.Background()
	if err := run(ctx, cfg, log, exportMode, *htmlOnly, *tplDir); err != nil {
		log.Error("export failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, mode usecase.ExportMode, htmlOnly bool, tplDir string) error {
	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}

	var sections domain.SectionRepository
	switch cfg.Builder.Repository {
	case "remote":
		sections = repo.NewRemoteRepository(cfg.Remote.BaseURL, cfg.Remote.Timeout, log)
	default:
		sections = usecase.NewStore(ctx, storage, log)
	}
	catalog := usecase.NewCatalog(ctx, storage, log)

	if err := usecase.NewBuilder(sections, log).EnsureHero(ctx); err != nil {
		return fmt.Errorf("ensure hero: %w", err)
	}

	objects, err := openObjects(ctx, cfg, log)
	if err != nil {
		return err
	}

	var renderer usecase.Renderer
	if !htmlOnly {
		renderer = infra.NewChromedpRenderer(cfg.Chrome.Path, cfg.Chrome.Timeout, log)
	}
	exporter := usecase.NewExporter(usecase.NewPreview(sections, catalog, renderer, tplDir, log), objects, log)

	if htmlOnly {
		loc, err := exporter.ExportHTML(ctx)
		if err != nil {
			return err
		}
		fmt.Println(loc)
		return nil
	}
	res, err := exporter.Export(ctx, mode)
	if err != nil {
		return err
	}
	fmt.Println(res.HTML)
	fmt.Println(res.PDF)
	return nil
}

func openStorage(ctx context.Context, cfg *config.Config) (kv.Storage, error) {
	switch cfg.KV.Driver {
	case "redis":
		client, err := infra.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return kv.NewRedisStorage(client, cfg.Redis.Prefix), nil
	case "memory":
		return kv.NewMemoryStorage(), nil
	}
	return kv.NewFileStorage(cfg.KV.Dir)
}

func openObjects(ctx context.Context, cfg *config.Config, log *zap.Logger) (usecase.ObjectStore, error) {
	if cfg.Export.Sink == "s3" {
		return objectstore.NewS3Store(ctx, objectstore.S3Config{
			Endpoint:     cfg.S3.Endpoint,
			Region:       cfg.S3.Region,
			Bucket:       cfg.S3.Bucket,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			UsePathStyle: cfg.S3.UsePathStyle,
			Prefix:       cfg.S3.Prefix,
		}, log)
	}
	return objectstore.NewDirStore(cfg.Export.Dir)
}
