// Package engine runs the festival simulation: player actions, the daily
// tick and the game-over state machine. A Simulation is the single owner of
// the state and is not safe for concurrent use.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talgya/mini-festival/internal/entropy"
	"github.com/talgya/mini-festival/internal/outcome"
	"github.com/talgya/mini-festival/internal/state"
	"github.com/talgya/mini-festival/internal/tuning"
	"github.com/talgya/mini-festival/internal/turnout"
)

// ErrCorruptSave is returned by a Store when a saved blob cannot be decoded.
var ErrCorruptSave = errors.New("corrupt save")

// Store persists the state blob and the daily log.
type Store interface {
	SaveState(ctx context.Context, st *state.State) error
	// LoadState reports false when nothing has been saved yet.
	LoadState(ctx context.Context, defaults *state.State) (*state.State, bool, error)
	ClearState(ctx context.Context) error
	SaveEvents(ctx context.Context, events []Event) error
}

// Event is one row of the daily log.
type Event struct {
	Day         int    `db:"day" json:"day"`
	Date        string `db:"date" json:"date"`
	Category    string `db:"category" json:"category"` // "daily", "game_over", "reset"
	Scenario    string `db:"scenario" json:"scenario"`
	Description string `db:"description" json:"description"`
}

// Simulation holds the festival state and wires the rule tables together.
type Simulation struct {
	State  *state.State
	Tuning tuning.Tuning
	Store  Store
	Clock  Clock

	rng     *entropy.Stream
	turnout *turnout.Curve

	brainstorm *outcome.Table
	scout      *outcome.Table
	promote    *outcome.Table
	events     *outcome.Table

	// Summary of the most recent daily tick, shown with the event screen.
	lastReport Report
}

// NewSimulation builds a simulation with a fresh state. Call Start to load a
// saved game instead.
func NewSimulation(t tuning.Tuning, store Store, clock Clock) (*Simulation, error) {
	events, err := dailyEvents.Reweight(t.Events)
	if err != nil {
		return nil, fmt.Errorf("daily events: %w", err)
	}
	s := &Simulation{
		Tuning:     t,
		Store:      store,
		Clock:      clock,
		brainstorm: brainstormTable,
		scout:      scoutTable,
		promote:    promoteTable,
		events:     events,
	}
	s.fresh()
	return s, nil
}

// Start loads the saved game, or begins a new one, and runs any pending
// daily tick. The returned report is empty when no tick ran.
func (s *Simulation) Start(ctx context.Context) (Report, error) {
	loaded, err := s.Load(ctx)
	if err != nil {
		return Report{}, err
	}
	if !loaded {
		slog.Info("no saved festival found, starting fresh")
		return s.tick(ctx)
	}
	return s.Catchup(ctx)
}

// Load replaces the in-memory state with the saved one. A corrupt save is
// logged and replaced by a fresh state.
func (s *Simulation) Load(ctx context.Context) (bool, error) {
	defaults := s.newState()
	st, ok, err := s.Store.LoadState(ctx, defaults)
	if errors.Is(err, ErrCorruptSave) {
		slog.Error("saved festival is unreadable, starting over", "error", err)
		s.fresh()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load state: %w", err)
	}
	if !ok {
		s.fresh()
		return false, nil
	}

	s.State = st
	if st.RNG != nil {
		s.rng = entropy.Resume(*st.RNG)
	} else {
		s.rng = entropy.New(entropy.DailySeed(s.Clock.Now(), st.Day))
	}
	s.turnout = turnout.New(st.Seed, s.Tuning.Turnout.Frequency, s.Tuning.Turnout.Amplitude)

	slog.Info("festival restored",
		"day", st.Day,
		"scenario", st.ScenarioID,
		"artists", len(st.Artists),
		"last_played", st.LastPlayedDate,
	)
	return true, nil
}

// Snapshot returns a deep copy of the state for presentation.
func (s *Simulation) Snapshot() state.State {
	return *s.State.Clone()
}

// Turnout returns the crowd factor for day.
func (s *Simulation) Turnout(day int) float64 {
	return s.turnout.Factor(day)
}

// Outlook returns the turnout factors of the next n days.
func (s *Simulation) Outlook(n int) []float64 {
	return s.turnout.Forecast(s.State.Day+1, n)
}

func (s *Simulation) newState() *state.State {
	now := s.Clock.Now()
	return state.New(state.Config{
		Date:             DateString(now),
		Seed:             entropy.CalendarSeed(now),
		StartVitals:      s.Tuning.StartVitals,
		BaseActionPoints: s.Tuning.BaseActionPoints,
		MaxArtists:       s.Tuning.MaxArtists,
		Resources:        s.Tuning.StartResources,
	})
}

func (s *Simulation) fresh() {
	s.State = s.newState()
	s.rng = entropy.New(entropy.DailySeed(s.Clock.Now(), s.State.Day))
	s.turnout = turnout.New(s.State.Seed, s.Tuning.Turnout.Frequency, s.Tuning.Turnout.Amplitude)
	s.lastReport = Report{}
}

// save records the stream position and persists the state.
func (s *Simulation) save(ctx context.Context) error {
	pos := s.rng.Position()
	s.State.RNG = &pos
	if err := s.Store.SaveState(ctx, s.State); err != nil {
		slog.Error("save failed", "day", s.State.Day, "error", err)
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// logEvents appends rows to the daily log. Failures are logged, not fatal.
func (s *Simulation) logEvents(ctx context.Context, events ...Event) {
	if err := s.Store.SaveEvents(ctx, events); err != nil {
		slog.Warn("daily log write failed", "error", err)
	}
}

// reset wipes the save and starts a new festival on day 1.
func (s *Simulation) reset(ctx context.Context, confirmed bool) (Result, error) {
	if !confirmed {
		return Result{Message: "Resetting throws away the whole festival. Repeat with confirm=yes to go ahead."}, nil
	}
	if err := s.Store.ClearState(ctx); err != nil {
		return Result{}, fmt.Errorf("clear state: %w", err)
	}
	previous := s.State.Day
	s.fresh()
	slog.Warn("festival reset", "previous_day", previous)
	s.logEvents(ctx, Event{
		Day:         s.State.Day,
		Date:        s.State.LastPlayedDate,
		Category:    "reset",
		Scenario:    s.State.ScenarioID,
		Description: fmt.Sprintf("Festival reset after day %d.", previous),
	})

	report, err := s.tick(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: strings.TrimSpace("A brand new festival begins. " + report.Text()), Changed: true}, nil
}
