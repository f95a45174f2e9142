// Package daily derives the shared board of the day: every player asking for
// the daily board of a mode on the same UTC date gets the same layout.
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

// Seed returns a deterministic deck seed using HMAC(salt, "YYYY-MM-DD|mode").
func Seed(date time.Time, salt, mode string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date) + "|" + mode))
	sum := h.Sum(nil)
	// first 8 bytes are plenty of entropy for a PRNG seed
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
