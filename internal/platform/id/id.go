package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Generator creates opaque plan identifiers.
type Generator interface {
	New() string
}

// RandomHex yields 8 random bytes hex encoded, short enough to type back.
type RandomHex struct{}

func (RandomHex) New() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Sequence yields fixed identifiers in order, then repeats the last one.
type Sequence struct {
	IDs  []string
	next int
}

func (s *Sequence) New() string {
	if len(s.IDs) == 0 {
		return ""
	}
	if s.next >= len(s.IDs) {
		return s.IDs[len(s.IDs)-1]
	}
	value := s.IDs[s.next]
	s.next++
	return value
}
