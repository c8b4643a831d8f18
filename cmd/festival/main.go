// Command festival runs the daily festival simulation in the terminal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/talgya/mini-festival/internal/config"
	"github.com/talgya/mini-festival/internal/engine"
	"github.com/talgya/mini-festival/internal/persistence"
	"github.com/talgya/mini-festival/internal/tuning"
)

// rolloverInterval is how often the wall clock is checked for a new date.
const rolloverInterval = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Logs go to stderr so they stay out of the way of the prompt.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("invalid timezone", "error", err)
		os.Exit(1)
	}

	tn, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		slog.Error("failed to load tuning", "path", cfg.TuningPath, "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(cfg.DBPath, cfg.StorageKey)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath, "key", cfg.StorageKey)

	// ── Simulation ────────────────────────────────────────────────────
	clock := engine.SystemClock{Location: loc}
	sim, err := engine.NewSimulation(tn, db, clock)
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := sim.Start(ctx)
	if err != nil {
		slog.Error("failed to start festival", "error", err)
		os.Exit(1)
	}
	slog.Info("festival ready", "day", sim.State.Day, "date", sim.State.LastPlayedDate, "ticked", report.Ran)

	dates := make(chan string)
	go engine.Rollover(ctx, clock, rolloverInterval, dates)

	r := &repl{sim: sim, db: db, out: bufio.NewWriter(os.Stdout)}
	r.run(ctx, readLines(os.Stdin), dates)

	slog.Info("festival closed", "day", sim.State.Day)
}

// readLines feeds stdin lines into a channel that is closed at EOF.
func readLines(f *os.File) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	return lines
}
