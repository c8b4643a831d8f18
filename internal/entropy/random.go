// Package entropy provides the deterministic random stream that drives every
// gameplay roll. A stream is reseeded from the calendar date and the festival
// day, so a given day always replays the same sequence of draws.
package entropy

import (
	"math"
	"time"
)

// Source yields floats in [0, 1). The engine and the outcome tables only ever
// depend on this interface.
type Source interface {
	Float() float64
}

// Stream is a 32-bit mulberry-style generator. Not safe for concurrent use:
// draws must come from a single goroutine.
type Stream struct {
	pos uint32
}

// New creates a stream for the given seed. Only the low 32 bits are used.
func New(seed int64) *Stream {
	return &Stream{pos: uint32(seed)}
}

// Resume recreates a stream at a previously saved position.
func Resume(pos uint32) *Stream {
	return &Stream{pos: pos}
}

// Position returns the internal state so it can be persisted and resumed.
func (s *Stream) Position() uint32 {
	return s.pos
}

// Float advances the stream and returns a value in [0, 1).
func (s *Stream) Float() float64 {
	s.pos += 0x6D2B79F5
	t := s.pos
	t = (t ^ (t >> 15)) * (t | 1)
	t = t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// CalendarSeed folds a date into YYYYMMDD.
func CalendarSeed(t time.Time) int64 {
	return int64(t.Year())*10000 + int64(t.Month())*100 + int64(t.Day())
}

// DailySeed is the seed used at the start of every daily tick.
func DailySeed(t time.Time, day int) int64 {
	return CalendarSeed(t) + int64(day)
}

// InRange draws one value uniformly from [base-variance, base+variance].
func InRange(src Source, base, variance int) int {
	if variance < 0 {
		variance = -variance
	}
	span := 2*variance + 1
	return int(math.Floor(src.Float()*float64(span))) + base - variance
}

// Pick returns an index in [0, n). n must be positive.
func Pick(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Chance reports whether one draw lands below p.
func Chance(src Source, p float64) bool {
	return src.Float() < p
}
