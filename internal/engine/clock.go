package engine

import (
	"context"
	"log/slog"
	"time"
)

// DateLayout is the calendar date format stored as LastPlayedDate.
const DateLayout = "2006-01-02"

// Clock tells the simulation what the real-world time is.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns T. Tests move it with Advance.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// DateString formats t as a calendar date.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// Rollover polls clock every interval and sends the new date on out each
// time the calendar date changes. It blocks until ctx is cancelled.
func Rollover(ctx context.Context, clock Clock, interval time.Duration, out chan<- string) {
	if interval <= 0 {
		interval = time.Minute
	}
	last := DateString(clock.Now())
	slog.Debug("rollover watch started", "date", last, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("rollover watch stopped", "date", last)
			return
		case <-ticker.C:
			date := DateString(clock.Now())
			if date == last {
				continue
			}
			last = date
			select {
			case out <- date:
			case <-ctx.Done():
				return
			}
		}
	}
}
