// cmd/susunkata-tui/main.go
//
// Terminal client. Plays against the same catalog and store as the server,
// using the single-player key space (no player prefix).
// Logs go to susunkata-tui.log because the terminal belongs to the UI.

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/susunkata/assets"
	"github.com/robalobadob/susunkata/internal/catalog"
	"github.com/robalobadob/susunkata/internal/config"
	"github.com/robalobadob/susunkata/internal/sound"
	"github.com/robalobadob/susunkata/internal/store"
	"github.com/robalobadob/susunkata/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run owns every resource so deferred closes happen before main exits.
func run() error {
	_ = godotenv.Load()
	cfg := config.Load()

	logFile, err := os.OpenFile("susunkata-tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to load catalog")
		return fmt.Errorf("load catalog: %w", err)
	}

	var kv store.Store = store.NewMemoryStore()
	if cfg.StoreBackend != "memory" {
		db, err := store.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			log.Error().Err(err).Msg("failed to open store")
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()
		kv = db
	}

	m := tui.New(tui.Options{
		Catalog:          cat,
		Store:            kv,
		Preloader:        assets.DirPreloader{Root: cfg.AssetsDir},
		QuestionsPerGame: cfg.QuestionsPerGame,
		MinQuestions:     cfg.MinQuestions,
		DailySalt:        cfg.DailySalt,
		Sounds:           bell(),
	})
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Error().Err(err).Msg("tui exited")
		return err
	}
	return nil
}

// bell rings the terminal bell on a wrong answer when SUSUNKATA_BELL is set.
func bell() sound.Player {
	if os.Getenv("SUSUNKATA_BELL") == "" {
		return sound.Mute
	}
	return sound.PlayerFunc(func(c sound.Cue) {
		if c == sound.Wrong || c == sound.Error {
			fmt.Fprint(os.Stderr, "\a")
		}
	})
}
