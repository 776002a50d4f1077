package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE", "QUESTIONS_PER_GAME", "MIN_QUESTIONS_REQUIRED", "SESSION_TTL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "5175" || cfg.StoreBackend != "sqlite" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.QuestionsPerGame != 10 || cfg.MinQuestions != 5 {
		t.Errorf("question counts = %d/%d", cfg.QuestionsPerGame, cfg.MinQuestions)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QUESTIONS_PER_GAME", "5")
	t.Setenv("MIN_QUESTIONS_REQUIRED", "garbage")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("STORE", "memory")
	cfg := Load()
	if cfg.QuestionsPerGame != 5 {
		t.Errorf("QuestionsPerGame = %d", cfg.QuestionsPerGame)
	}
	if cfg.MinQuestions != 5 {
		t.Errorf("invalid value should fall back, got %d", cfg.MinQuestions)
	}
	if cfg.SessionTTL != 15*time.Minute || cfg.StoreBackend != "memory" {
		t.Errorf("unexpected %+v", cfg)
	}
}
