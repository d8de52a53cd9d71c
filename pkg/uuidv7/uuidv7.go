// Package uuidv7 generates time-ordered UUIDs (RFC 9562 version 7) used to
// identify committed change sets.
package uuidv7

import (
	"crypto/rand"
	"io"
	"time"

	"github.com/google/uuid"
)

func New() (uuid.UUID, error) {
	return NewAt(time.Now())
}

// NewAt returns a UUIDv7 whose 48-bit millisecond prefix is taken from t.
func NewAt(t time.Time) (uuid.UUID, error) {
	var b [16]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		return uuid.Nil, err
	}

	ms := uint64(t.UnixMilli())
	for i := range 6 {
		b[i] = byte(ms >> (40 - 8*i))
	}
	b[6] = (b[6] & 0x0f) | 0x70
	b[8] = (b[8] & 0x3f) | 0x80

	return uuid.FromBytes(b[:])
}

func NewString() (string, error) {
	u, err := New()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// UnixMilli reads the timestamp prefix back out of a version 7 UUID.
func UnixMilli(u uuid.UUID) (int64, bool) {
	if u.Version() != 7 {
		return 0, false
	}
	var ms uint64
	for i := range 6 {
		ms = ms<<8 | uint64(u[i])
	}
	return int64(ms), true
}
