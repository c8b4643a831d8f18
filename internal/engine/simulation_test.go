package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/talgya/mini-festival/internal/state"
	"github.com/talgya/mini-festival/internal/tuning"
)

var testDate = time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)

// memStore keeps the save blob in memory, going through the same JSON
// round trip as the real store.
type memStore struct {
	blob    []byte
	events  []Event
	saves   int
	saveErr error
}

func (m *memStore) SaveState(_ context.Context, st *state.State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	m.blob = data
	m.saves++
	return nil
}

func (m *memStore) LoadState(_ context.Context, defaults *state.State) (*state.State, bool, error) {
	if m.blob == nil {
		return nil, false, nil
	}
	st, _, err := state.Decode(m.blob, defaults)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	return st, true, nil
}

func (m *memStore) ClearState(context.Context) error {
	m.blob = nil
	return nil
}

func (m *memStore) SaveEvents(_ context.Context, events []Event) error {
	m.events = append(m.events, events...)
	return nil
}

func newSimWith(t *testing.T, tn tuning.Tuning, store *memStore) (*Simulation, *FixedClock) {
	t.Helper()
	clock := &FixedClock{T: testDate}
	s, err := NewSimulation(tn, store, clock)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return s, clock
}

// started returns a simulation that has run its first daily tick.
func started(t *testing.T) (*Simulation, *memStore, *FixedClock) {
	t.Helper()
	store := &memStore{}
	s, clock := newSimWith(t, tuning.Default(), store)
	if _, err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s, store, clock
}

func do(t *testing.T, s *Simulation, action string, kv ...string) Result {
	t.Helper()
	params := map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		params[kv[i]] = kv[i+1]
	}
	res, err := s.Dispatch(context.Background(), Intent{Action: action, Params: params})
	if err != nil {
		t.Fatalf("%s: %v", action, err)
	}
	return res
}

func stateJSON(t *testing.T, st *state.State) string {
	t.Helper()
	b, err := json.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestStartRunsFirstTick(t *testing.T) {
	s, store, _ := started(t)

	st := s.State
	if st.Day != 1 {
		t.Fatalf("day = %d, want 1", st.Day)
	}
	if !st.DailyEventTriggered {
		t.Error("first tick did not mark the day as triggered")
	}
	if st.ActionPoints != 10 || st.MaxActionPoints != 10 {
		t.Errorf("AP = %d/%d, want 10/10", st.ActionPoints, st.MaxActionPoints)
	}
	if !strings.HasPrefix(st.ScenarioID, eventScenarioPrefix) {
		t.Errorf("scenario = %q, want a daily event", st.ScenarioID)
	}
	// Leo plays music, Bella paints.
	if st.Resource(state.PracticeTime) != 1 || st.Resource(state.StageOutfits) != 1 {
		t.Errorf("skill yields = %v", st.Resources)
	}
	if st.Resource(state.Ideas) != 6 {
		t.Errorf("ideas = %d, want 10 minus upkeep for two artists", st.Resource(state.Ideas))
	}
	if store.blob == nil || st.RNG == nil {
		t.Error("first tick was not saved with its stream position")
	}
	if len(store.events) != 1 || store.events[0].Category != "daily" {
		t.Errorf("daily log = %+v", store.events)
	}
	if !s.LastReport().Ran || s.LastReport().Text() == "" {
		t.Error("missing report for the first tick")
	}
}

func TestRestartResumesSameStream(t *testing.T) {
	a, store, _ := started(t)
	do(t, a, "brainstorm")
	do(t, a, "gather_ideas")

	b, _ := newSimWith(t, tuning.Default(), store)
	rep, err := b.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rep.Ran {
		t.Error("restart on the same date ran the tick again")
	}
	if stateJSON(t, a.State) != stateJSON(t, b.State) {
		t.Fatal("restored state differs from the saved one")
	}

	do(t, a, "gather_funds")
	do(t, b, "gather_funds")
	if stateJSON(t, a.State) != stateJSON(t, b.State) {
		t.Fatal("restored simulation drew a different sequence")
	}
}

func TestDeterministicReplay(t *testing.T) {
	script := []Intent{
		{Action: "brainstorm"},
		{Action: "scout"},
		{Action: "promote", Params: map[string]string{"artist": "leo"}},
		{Action: "gather_ideas"},
		{Action: "gather_funds"},
		{Action: "show_surprises"},
		{Action: "street_performance"},
		{Action: "explore_hidden_place"},
		{Action: "next_day"},
		{Action: "brainstorm"},
	}
	run := func() string {
		s, _, _ := started(t)
		for _, in := range script {
			if _, err := s.Dispatch(context.Background(), in); err != nil {
				t.Fatal(err)
			}
		}
		return stateJSON(t, s.State)
	}
	if a, b := run(), run(); a != b {
		t.Fatalf("same date and script diverged:\n%s\n%s", a, b)
	}
}

func TestCorruptSaveStartsFresh(t *testing.T) {
	store := &memStore{blob: []byte("{not json")}
	s, _ := newSimWith(t, tuning.Default(), store)
	rep, err := s.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !rep.Ran || s.State.Day != 1 {
		t.Fatalf("expected a fresh day 1, got day %d ran=%v", s.State.Day, rep.Ran)
	}
	if _, _, err := state.Decode(store.blob, s.newState()); err != nil {
		t.Fatalf("fresh state was not saved over the corrupt one: %v", err)
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	s, store, _ := started(t)
	store.saveErr = errors.New("disk full")

	before := s.State.ActionPoints
	_, err := s.Dispatch(context.Background(), Intent{Action: "gather_ideas"})
	if err == nil {
		t.Fatal("expected the save error")
	}
	if s.State.ActionPoints != before-1 {
		t.Error("in-memory state should still reflect the action")
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	s, store, _ := started(t)
	do(t, s, "next_day")
	if s.State.Day != 2 {
		t.Fatalf("day = %d", s.State.Day)
	}

	res := do(t, s, "reset")
	if res.Changed || s.State.Day != 2 {
		t.Fatal("reset without confirmation changed the festival")
	}

	res = do(t, s, "reset", "confirm", "yes")
	if !res.Changed || s.State.Day != 1 {
		t.Fatalf("reset: changed=%v day=%d", res.Changed, s.State.Day)
	}
	if !s.State.DailyEventTriggered {
		t.Error("reset should run the first tick right away")
	}
	var sawReset bool
	for _, ev := range store.events {
		if ev.Category == "reset" {
			sawReset = true
		}
	}
	if !sawReset {
		t.Error("reset was not logged")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s, _, _ := started(t)
	snap := s.Snapshot()
	snap.Artists[0].Synergy = 0
	snap.Resources[state.Ideas] = -99
	if s.State.Artists[0].Synergy == 0 || s.State.Resource(state.Ideas) == -99 {
		t.Fatal("snapshot aliases the live state")
	}
}

func TestEventTextSurvivesRestart(t *testing.T) {
	a, store, _ := started(t)
	want := a.LastReport().EventText
	if want == "" {
		t.Fatal("first tick rolled no event text")
	}
	if got := a.Screen().Text; got != want {
		t.Fatalf("event screen = %q, want %q", got, want)
	}

	b, _ := newSimWith(t, tuning.Default(), store)
	if _, err := b.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if b.LastReport().Ran {
		t.Fatal("restart ran the tick again")
	}
	if got := b.Screen().Text; got != want {
		t.Fatalf("after restart the event screen = %q, want %q", got, want)
	}
}

func TestOutlookStartsTomorrow(t *testing.T) {
	s, _, _ := started(t)
	got := s.Outlook(3)
	if len(got) != 3 {
		t.Fatalf("outlook has %d days", len(got))
	}
	for i, f := range got {
		if want := s.Turnout(s.State.Day + 1 + i); f != want {
			t.Errorf("day +%d: %v, want %v", i+1, f, want)
		}
	}
}
