package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/susunkata/assets"
	"github.com/robalobadob/susunkata/internal/catalog"
	"github.com/robalobadob/susunkata/internal/config"
	"github.com/robalobadob/susunkata/internal/httpserver"
	"github.com/robalobadob/susunkata/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}

	kv, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	srv := httpserver.New(httpserver.Deps{
		Config:    cfg,
		Catalog:   cat,
		Store:     kv,
		Preloader: assets.DirPreloader{Root: cfg.AssetsDir},
	})
	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).
		Int("categories", len(cat.Categories())).Msg("starting susunkata server")
	err = srv.Start(":" + cfg.Port)
	closeStore()
	if err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// openStore picks the key-value backend named by cfg.StoreBackend.
func openStore(cfg *config.Config) (store.Store, func(), error) {
	if cfg.StoreBackend == "memory" {
		return store.NewMemoryStore(), func() {}, nil
	}
	db, err := store.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}
