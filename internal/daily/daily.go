// Package daily derives a deterministic secret index from the calendar
// date, so every player gets the same word on the same UTC day.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/words"
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

// Source returns a words.Source that picks the index for the current date
// as reported by now.
func Source(now func() time.Time, salt string) words.Source {
	if now == nil {
		now = time.Now
	}
	return source{now: now, salt: salt}
}

type source struct {
	now  func() time.Time
	salt string
}

func (s source) IntN(n int) int { return WordIndex(s.now(), s.salt, n) }
