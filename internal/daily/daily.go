// internal/daily/daily.go
//
// Daily challenge seeding: every player gets the same questions for a category on
// a given UTC date. The seed is HMAC-SHA256(salt, "YYYY-MM-DD|category").

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the PRNG seed pair for date and category.
func Seed(date time.Time, salt, category string) (uint64, uint64) {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date) + "|" + category))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16])
}
