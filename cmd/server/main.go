package main

import (
	"context"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"PriceCompare/internal/compare"
	"PriceCompare/pkg/kit"
)

func main() {
	service := "pricecompare"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8000")

	store := openStore(log)

	svc := &compare.Service{
		Store: store,
		Synth: compare.NewDefaultSynth(),
		Log:   log,
	}
	s := &compare.Server{Service: svc, Log: log}

	reg := prometheus.NewRegistry()
	h := compare.NewHandler(s, compare.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: os.Getenv("METRICS_ENABLED") == "true",
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// openStore picks the store backend from the environment. MONGO_URL wins over
// DATABASE_URL; with neither set the service runs fully ephemeral.
func openStore(log *zap.Logger) compare.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if uri := os.Getenv("MONGO_URL"); uri != "" {
		store, err := compare.OpenMongo(ctx, uri, getenv("MONGO_DB", "pricecompare"))
		if err != nil {
			log.Fatal("mongo connect failed", zap.Error(err))
		}
		log.Info("store ready", zap.String("kind", store.Kind()))
		return store
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := compare.OpenPostgres(dsn)
		if err != nil {
			log.Fatal("postgres open failed", zap.Error(err))
		}
		store := compare.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatal("schema init failed", zap.Error(err))
		}
		log.Info("store ready", zap.String("kind", store.Kind()))
		return store
	}

	if os.Getenv("STORE") == "memory" {
		log.Info("using in-memory store")
		return compare.NewMemStore()
	}

	log.Info("no store configured, running ephemeral")
	return compare.NewNullStore()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
