package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"lipidflow/adapters/postgres"
	"lipidflow/adapters/refmet"
	"lipidflow/adapters/tabular"
	"lipidflow/app"
	"lipidflow/domain/standardize"
	"lipidflow/internal"
	"lipidflow/internal/api"
	"lipidflow/internal/config"
	"lipidflow/ports"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := internal.NewDefaultLogger()

	vocab, err := refmet.Load(cfg.Vocabulary.Path)
	if err != nil {
		log.Fatalf("vocabulary: %v", err)
	}
	logger.Info("loaded %d vocabulary entries from %s", vocab.Len(), cfg.Vocabulary.Path)

	var repo ports.DatasetRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(context.Background(), db); err != nil {
			log.Fatalf("database: %v", err)
		}
		repo = postgres.NewDatasetRepository(db)
		logger.Info("dataset persistence enabled")
	}

	service, err := app.NewImportService(app.Deps{
		Loader:               tabular.NewLoader(),
		Standardizer:         standardize.NewStandardizer(vocab),
		Repository:           repo,
		Logger:               logger,
		MaxConcurrentImports: cfg.Imports.MaxConcurrent,
	})
	if err != nil {
		log.Fatalf("service: %v", err)
	}

	server := api.NewServer(service, repo, logger)
	addr := ":" + cfg.Server.Port
	logger.Info("listening on %s", addr)
	if err := http.ListenAndServe(addr, server.Handler()); err != nil {
		log.Fatalf("server: %v", err)
	}
}
