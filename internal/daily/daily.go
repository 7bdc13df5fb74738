// Package daily implements the daily round: every player gets the same
// computer opening word for a given UTC date and may play it once.
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

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Opening picks the day's opening word from openers.
func Opening(date time.Time, salt string, openers []string) (int, string) {
	if len(openers) == 0 {
		return 0, ""
	}
	i := WordIndex(date, salt, len(openers))
	return i, openers[i]
}
