package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/talgya/mini-festival/internal/engine"
	"github.com/talgya/mini-festival/internal/state"
	"github.com/talgya/mini-festival/internal/tuning"
)

func openTemp(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "festival.db")
	db, err := Open(path, "festival_state")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, path
}

func defaults() *state.State {
	return state.New(state.Config{
		Date:             "2025-03-14",
		Seed:             20250314,
		StartVitals:      50,
		BaseActionPoints: 10,
		MaxArtists:       5,
		Resources:        map[state.Resource]int{state.Ideas: 10},
	})
}

func TestLoadEmptySlot(t *testing.T) {
	db, _ := openTemp(t)
	st, ok, err := db.LoadState(context.Background(), defaults())
	if err != nil || ok || st != nil {
		t.Fatalf("LoadState on empty db = %v, %v, %v", st, ok, err)
	}
}

func TestSaveLoadState(t *testing.T) {
	ctx := context.Background()
	db, _ := openTemp(t)

	st := defaults()
	st.Day = 4
	st.Creativity = 73
	st.Resources[state.Funds] = -2
	pos := uint32(987654)
	st.RNG = &pos
	if err := db.SaveState(ctx, st); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	got, ok, err := db.LoadState(ctx, defaults())
	if err != nil || !ok {
		t.Fatalf("LoadState: ok=%v err=%v", ok, err)
	}
	want, _ := json.Marshal(st)
	have, _ := json.Marshal(got)
	if string(want) != string(have) {
		t.Fatalf("round trip changed the state:\nwant %s\ngot  %s", want, have)
	}

	day, err := db.GetMeta(ctx, MetaLastDay)
	if err != nil || day != "4" {
		t.Errorf("last_day meta = %q, %v", day, err)
	}
	if saved, err := db.GetMeta(ctx, MetaSavedAt); err != nil || saved == "" {
		t.Errorf("saved_at meta = %q, %v", saved, err)
	}
}

func TestSaveOverwritesSlot(t *testing.T) {
	ctx := context.Background()
	db, _ := openTemp(t)

	for day := 1; day <= 3; day++ {
		st := defaults()
		st.Day = day
		if err := db.SaveState(ctx, st); err != nil {
			t.Fatal(err)
		}
	}
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM save_slots"); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("save_slots rows = %d, want 1", n)
	}
	got, _, err := db.LoadState(ctx, defaults())
	if err != nil || got.Day != 3 {
		t.Fatalf("loaded day %v, err %v", got, err)
	}
}

func TestLoadCorruptBlob(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{name: "bad json", blob: []byte("{not json")},
		{name: "bad zstd frame", blob: append([]byte{0x28, 0xb5, 0x2f, 0xfd}, 0x01, 0x02, 0x03)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := openTemp(t)
			if _, err := db.conn.Exec(
				"INSERT INTO save_slots (key, blob, updated_at) VALUES (?, ?, ?)",
				"festival_state", tt.blob, "now",
			); err != nil {
				t.Fatal(err)
			}
			_, _, err := db.LoadState(context.Background(), defaults())
			if !errors.Is(err, engine.ErrCorruptSave) {
				t.Fatalf("err = %v, want ErrCorruptSave", err)
			}
		})
	}
}

func TestLoadPlainJSONBlob(t *testing.T) {
	db, _ := openTemp(t)
	st := defaults()
	st.Day = 9
	data, _ := json.Marshal(st)
	if _, err := db.conn.Exec(
		"INSERT INTO save_slots (key, blob, updated_at) VALUES (?, ?, ?)",
		"festival_state", data, "now",
	); err != nil {
		t.Fatal(err)
	}
	got, ok, err := db.LoadState(context.Background(), defaults())
	if err != nil || !ok || got.Day != 9 {
		t.Fatalf("LoadState = %v, %v, %v", got, ok, err)
	}
}

func TestClearState(t *testing.T) {
	ctx := context.Background()
	db, _ := openTemp(t)
	if err := db.SaveState(ctx, defaults()); err != nil {
		t.Fatal(err)
	}
	if err := db.ClearState(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := db.LoadState(ctx, defaults()); ok {
		t.Fatal("slot survived ClearState")
	}
}

func TestRecentEventsNewestFirst(t *testing.T) {
	ctx := context.Background()
	db, _ := openTemp(t)

	if err := db.SaveEvents(ctx, nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	for day := 1; day <= 4; day++ {
		ev := engine.Event{Day: day, Date: "2025-03-14", Category: "daily", Scenario: "intro", Description: "day"}
		if err := db.SaveEvents(ctx, []engine.Event{ev}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := db.RecentEvents(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Day != 4 || got[1].Day != 3 {
		t.Fatalf("RecentEvents = %+v", got)
	}
	if got[0].Category != "daily" || got[0].Scenario != "intro" {
		t.Errorf("columns not mapped: %+v", got[0])
	}
}

func TestMeta(t *testing.T) {
	ctx := context.Background()
	db, _ := openTemp(t)
	if err := db.SaveMeta(ctx, "k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveMeta(ctx, "k", "v2"); err != nil {
		t.Fatal(err)
	}
	if v, err := db.GetMeta(ctx, "k"); err != nil || v != "v2" {
		t.Fatalf("GetMeta = %q, %v", v, err)
	}
}

func TestSimulationSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	db, path := openTemp(t)
	clock := &engine.FixedClock{T: time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)}

	a, err := engine.NewSimulation(tuning.Default(), db, clock)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Dispatch(ctx, engine.Intent{Action: "gather_ideas"}); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db2, err := Open(path, "festival_state")
	if err != nil {
		t.Fatal(err)
	}
	defer db2.Close()
	b, err := engine.NewSimulation(tuning.Default(), db2, clock)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := b.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Ran {
		t.Error("reopen on the same date ran the daily tick again")
	}
	want, _ := json.Marshal(a.State)
	have, _ := json.Marshal(b.State)
	if string(want) != string(have) {
		t.Fatal("state differs after reopening the database")
	}

	events, err := db2.RecentEvents(ctx, 10)
	if err != nil || len(events) != 1 || events[0].Day != 1 {
		t.Fatalf("daily log = %+v, %v", events, err)
	}
}

func TestCompressRoundTrip(t *testing.T) {
	data := []byte(`{"day":1,"creativity":50}`)
	blob := compress(data)
	out, err := decompress(blob)
	if err != nil || string(out) != string(data) {
		t.Fatalf("decompress = %q, %v", out, err)
	}
}
