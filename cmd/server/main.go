package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	httpadapter "homestead/internal/adapter/http"
	"homestead/internal/adapter/metrics"
	metricsinmem "homestead/internal/adapter/metrics/inmemory"
	otelmetrics "homestead/internal/adapter/metrics/otel"
	gormrepo "homestead/internal/adapter/repo/gorm"
	"homestead/internal/adapter/repo/memory"
	worldruntime "homestead/internal/adapter/world/runtime"
	"homestead/internal/app/farm"
	"homestead/internal/app/items"
	"homestead/internal/app/ports"
	"homestead/internal/app/session"
	"homestead/internal/config"
	"homestead/internal/domain/farming"
	"homestead/internal/domain/inventory"
	"homestead/internal/domain/item"
	"homestead/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg := mustLoadConfig()
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	catalog, err := item.NewCatalog(cfg.Items...)
	if err != nil {
		log.Fatalf("item catalog: %v", err)
	}
	scenes, err := worldruntime.NewProvider(sceneDefs(cfg.Scenes))
	if err != nil {
		log.Fatalf("scenes: %v", err)
	}
	tracker, err := farming.NewTracker(farming.Config{
		MaxInteractDistance: cfg.InteractDistance(),
		Tillable:            tillable(cfg.Farming.Tillable),
		Seeds:               catalog,
		Logger:              logger,
	}, farming.SceneKey(cfg.Farming.InitialScene))
	if err != nil {
		log.Fatalf("plot tracker: %v", err)
	}

	kpiRecorder := metricsinmem.NewRecorder()
	mp, metricsHandler, shutdownMetrics, err := otelmetrics.NewPrometheusProvider()
	if err != nil {
		log.Fatalf("metrics provider: %v", err)
	}
	defer func() { _ = shutdownMetrics(context.Background()) }()
	otelRecorder, err := otelmetrics.NewRecorder(mp)
	if err != nil {
		log.Fatalf("metrics recorder: %v", err)
	}
	gameMetrics := metrics.NewFanout(kpiRecorder, otelRecorder)

	svc := items.NewService(inventory.New(cfg.Inventory.StartingCapacity),
		items.WithLogger(logger),
		items.WithMetrics(gameMetrics),
	)
	svc.Subscribe(func() {
		logger.Debug("inventory changed", "capacity", svc.Capacity())
	})

	farmUC := farm.UseCase{
		Tracker:  tracker,
		Items:    svc,
		Catalog:  catalog,
		Scenes:   scenes,
		Metrics:  gameMetrics,
		Logger:   logger,
		SeedCost: cfg.Farming.SeedCost,
	}
	if _, err := farmUC.EnterScene(context.Background(), farm.EnterSceneRequest{Scene: tracker.Scene()}); err != nil {
		log.Fatalf("enter initial scene: %v", err)
	}

	saves, txManager := mustBuildRepos(cfg.Database)

	h := httpadapter.Handler{
		InventoryUC: items.UseCase{Catalog: catalog, Service: svc},
		FarmUC:      farmUC,
		SessionUC: session.UseCase{
			TxManager: txManager,
			Saves:     saves,
			Catalog:   catalog,
			Items:     svc,
			Tracker:   tracker,
			Scenes:    scenes,
			Logger:    logger,
			Now:       time.Now,
		},
		Scenes:     scenes,
		KPI:        kpiRecorder,
		Metrics:    metricsHandler,
		OwnerID:    cfg.Server.OwnerID,
		CORSOrigin: cfg.Server.CORSOrigin,
		Serial:     &sync.Mutex{},
	}

	s := server.Default(server.WithHostPorts(cfg.Server.Addr))
	h.RegisterRoutes(s)

	logger.Info("homestead server listening", "addr", cfg.Server.Addr, "scene", string(tracker.Scene()), "items", catalog.Len())
	s.Spin()
}

func mustLoadConfig() *config.Config {
	path := strings.TrimSpace(os.Getenv("HOMESTEAD_CONFIG"))
	if path == "" {
		path = "./configs/homestead.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := config.ApplyEnv(cfg, nil); err != nil {
		log.Fatalf("apply env: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config after env overrides: %v", err)
	}
	return cfg
}

func newLogger(level string) *slog.Logger {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// mustBuildRepos returns postgres repositories when a DSN is configured and
// process-local ones otherwise.
func mustBuildRepos(cfg config.DatabaseConfig) (ports.SaveRepository, ports.TxManager) {
	if cfg.DSN == "" {
		slog.Warn("HOMESTEAD_DB_DSN not set, saves are kept in memory")
		store := memory.NewStore()
		return memory.NewSaveRepo(store), memory.NewTxManager(store)
	}
	db, err := gormrepo.OpenPostgres(cfg.DSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if cfg.MigrationsDir != "" {
		if err := gormrepo.ApplyMigrations(context.Background(), db, cfg.MigrationsDir); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
	}
	return gormrepo.NewSaveRepo(db), gormrepo.NewTxManager(db)
}

func sceneDefs(in []config.SceneConfig) []worldruntime.SceneDef {
	out := make([]worldruntime.SceneDef, 0, len(in))
	for _, sc := range in {
		legend := make(map[string]world.TileKind, len(sc.Legend))
		for k, v := range sc.Legend {
			legend[k] = world.TileKind(strings.TrimSpace(v))
		}
		out = append(out, worldruntime.SceneDef{
			Key:          farming.SceneKey(sc.Key),
			CellSize:     sc.CellSize,
			Origin:       farming.Vec2{X: sc.OriginX, Y: sc.OriginY},
			Legend:       legend,
			Rows:         sc.Rows,
			Farmable:     sc.Farmable,
			TilledToken:  farming.Token(sc.TilledToken),
			PlantedToken: farming.Token(sc.PlantedToken),
		})
	}
	return out
}

func tillable(names []string) farming.TillableSet {
	terrains := make([]farming.Terrain, 0, len(names))
	for _, n := range names {
		terrains = append(terrains, farming.Terrain(strings.TrimSpace(n)))
	}
	return farming.NewTillableSet(terrains...)
}
