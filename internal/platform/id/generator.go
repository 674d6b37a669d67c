package id

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
)

const maxExternalIDLength = 64

// Generator creates opaque request identifiers.
type Generator interface {
	NewID() string
}

type RandomGenerator struct {
	fallback atomic.Uint64
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// NewID returns 16 hex characters. If the system entropy source fails the id
// degrades to a process-local counter rather than failing the request.
func (g *RandomGenerator) NewID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "local-" + strconv.FormatUint(g.fallback.Add(1), 10)
	}

	return hex.EncodeToString(buf)
}

// Accept reports whether an id supplied by a caller is safe to echo back and log.
func Accept(raw string) bool {
	if raw == "" || len(raw) > maxExternalIDLength {
		return false
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
