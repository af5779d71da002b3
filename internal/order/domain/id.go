package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const DefaultIDPrefix = "BH"

// IDGenerator builds human-friendly order ids of the form
// PREFIX-YYYYMMDD-HHMM-RRRR from the local wall clock and a random suffix in
// [1000, 9999]. Two orders placed in the same minute collide with
// probability 1/9000; nothing detects it.
type IDGenerator struct {
	Prefix string
	Now    func() time.Time
	// Intn returns a value in [0, n).
	Intn func(n int) int
}

func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	return &IDGenerator{Prefix: prefix, Now: time.Now, Intn: rand.IntN}
}

func (g *IDGenerator) NewID() string {
	return g.idAt(g.Now())
}

func (g *IDGenerator) idAt(t time.Time) string {
	t = t.Local()
	suffix := 1000 + g.Intn(9000)
	return fmt.Sprintf("%s-%04d%02d%02d-%02d%02d-%d",
		g.Prefix, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), suffix)
}
