package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/talgya/mini-festival/internal/engine"
	"github.com/talgya/mini-festival/internal/intent"
	"github.com/talgya/mini-festival/internal/persistence"
	"github.com/talgya/mini-festival/internal/state"
)

const (
	logLimit    = 10
	outlookDays = 3
)

// repl is the terminal presentation: it renders snapshots and turns typed
// lines into intents. It never touches the state directly.
type repl struct {
	sim *engine.Simulation
	db  *persistence.DB
	out *bufio.Writer

	screen engine.Screen
}

func (r *repl) run(ctx context.Context, lines <-chan string, dates <-chan string) {
	defer r.out.Flush()

	if rep := r.sim.LastReport(); rep.Ran {
		r.println(rep.Text())
	}
	r.show()

	for {
		r.prompt()
		select {
		case <-ctx.Done():
			r.println("")
			return
		case date := <-dates:
			slog.Info("calendar rolled over", "date", date)
			rep, err := r.sim.Catchup(ctx)
			if err != nil {
				r.println("Could not save the new day: " + err.Error())
				continue
			}
			if rep.Ran {
				r.println("\n" + rep.Text())
				r.show()
			}
		case line, ok := <-lines:
			if !ok {
				return
			}
			if !r.handle(ctx, strings.TrimSpace(line)) {
				return
			}
		}
	}
}

// handle processes one input line and reports whether to keep going.
func (r *repl) handle(ctx context.Context, line string) bool {
	switch strings.ToLower(line) {
	case "":
		return true
	case "quit", "exit", "q":
		return false
	case "help", "?":
		r.help()
		return true
	case "status", "s":
		r.status(ctx)
		return true
	case "choices", "look", "l":
		r.show()
		return true
	case "log":
		r.log(ctx)
		return true
	}

	var in engine.Intent
	if n, err := strconv.Atoi(line); err == nil {
		if n < 1 || n > len(r.screen.Choices) {
			r.println(fmt.Sprintf("Pick a number between 1 and %d.", len(r.screen.Choices)))
			return true
		}
		in = r.screen.Choices[n-1].Intent()
	} else {
		parsed, err := intent.Parse(line)
		if err != nil {
			r.println(err.Error() + ". Type help for commands.")
			return true
		}
		in = parsed
	}

	res, err := r.sim.Dispatch(ctx, in)
	if err != nil {
		slog.Error("action not saved", "action", in.Action, "error", err)
		r.println("Your progress could not be saved: " + err.Error())
	}
	if res.Message != "" {
		r.println(res.Message)
	}
	r.show()
	return true
}

func (r *repl) show() {
	r.screen = r.sim.Screen()
	r.println("")
	if r.screen.Text != "" {
		r.println(r.screen.Text)
	}
	for i, c := range r.screen.Choices {
		r.println(fmt.Sprintf("  %d. %s", i+1, c.Label))
	}
}

func (r *repl) status(ctx context.Context) {
	st := r.sim.Snapshot()
	r.println(fmt.Sprintf("Day %d (%s), action points %d/%d, festival level %d, turnout x%.2f",
		st.Day, st.LastPlayedDate, st.ActionPoints, st.MaxActionPoints, st.FestivalLevel, r.sim.Turnout(st.Day)))

	outlook := r.sim.Outlook(outlookDays)
	days := make([]string, len(outlook))
	for i, f := range outlook {
		days[i] = fmt.Sprintf("x%.2f", f)
	}
	r.println("  turnout outlook " + strings.Join(days, " "))

	vitals := make([]string, 0, len(state.Vitals))
	for _, v := range state.Vitals {
		vitals = append(vitals, fmt.Sprintf("%s %d", v, st.Vital(v)))
	}
	r.println("  " + strings.Join(vitals, ", "))

	res := make([]string, 0, len(state.ResourceKeys))
	for _, k := range state.ResourceKeys {
		res = append(res, fmt.Sprintf("%s %d", k, st.Resource(k)))
	}
	r.println("  " + strings.Join(res, ", "))

	for _, a := range st.Artists {
		r.println(fmt.Sprintf("  %s (%s, %s) synergy %d", a.Name, a.Personality, a.Skill, a.Synergy))
	}
	for _, k := range state.BoothKeys {
		if b := st.Booth(k); b.Built {
			r.println(fmt.Sprintf("  %s durability %d", engine.BoothName(k), b.Durability))
		}
	}
	if saved, err := r.db.GetMeta(ctx, persistence.MetaSavedAt); err == nil {
		r.println("  last saved " + saved)
	}
}

func (r *repl) log(ctx context.Context) {
	events, err := r.db.RecentEvents(ctx, logLimit)
	if err != nil {
		r.println("Could not read the festival log: " + err.Error())
		return
	}
	if len(events) == 0 {
		r.println("The festival log is empty.")
		return
	}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		r.println(fmt.Sprintf("%s day %d [%s] %s", e.Date, e.Day, e.Category, e.Description))
	}
}

func (r *repl) help() {
	names := engine.ActionNames()
	sort.Strings(names)
	r.println("Type a choice number, or an action with key=value parameters, e.g. \"promote leo\" or \"build booth=food_truck\".")
	r.println("Commands: status, choices, log, help, quit")
	r.println("Actions: " + strings.Join(names, ", "))
}

func (r *repl) prompt() {
	r.out.WriteString("> ")
	r.out.Flush()
}

func (r *repl) println(s string) {
	r.out.WriteString(s)
	r.out.WriteByte('\n')
	r.out.Flush()
}
