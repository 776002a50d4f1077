package daily

import (
	"testing"
	"time"
)

func TestDateKeyUsesUTC(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	ts := time.Date(2026, 10, 20, 3, 0, 0, 0, jakarta) // 2026-10-19 20:00 UTC
	if got := DateKey(ts); got != "2026-10-19" {
		t.Fatalf("DateKey = %s", got)
	}
}

func TestSeed(t *testing.T) {
	day := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	a1, a2 := Seed(day, "salt", "animals")
	b1, b2 := Seed(day.Add(10*time.Hour), "salt", "animals")
	if a1 != b1 || a2 != b2 {
		t.Fatal("same day must give the same seed")
	}
	tests := []struct {
		name     string
		date     time.Time
		salt     string
		category string
	}{
		{"next day", day.Add(24 * time.Hour), "salt", "animals"},
		{"other salt", day, "pepper", "animals"},
		{"other category", day, "salt", "fruits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c1, c2 := Seed(tt.date, tt.salt, tt.category)
			if c1 == a1 && c2 == a2 {
				t.Fatal("expected a different seed")
			}
		})
	}
}
