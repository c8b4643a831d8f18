package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/talgya/mini-festival/internal/entropy"
	"github.com/talgya/mini-festival/internal/outcome"
	"github.com/talgya/mini-festival/internal/state"
)

const (
	gameOverResources = state.GameOverPrefix + "resources"

	msgManualCap = "You can't advance the day manually any more today. Try again tomorrow."
)

// Report summarizes one daily tick.
type Report struct {
	Day       int
	Date      string
	Summary   []string
	Event     string
	EventText string
	Scenario  string
	GameOver  bool
	// Ran is false when the tick was skipped because today already ran.
	Ran bool
}

// Text renders the report as the opening message of the day.
func (r Report) Text() string {
	if !r.Ran {
		return ""
	}
	parts := []string{fmt.Sprintf("Day %d begins.", r.Day)}
	parts = append(parts, r.Summary...)
	if r.EventText != "" {
		parts = append(parts, r.EventText)
	}
	return strings.Join(parts, " ")
}

// LastReport returns the most recent daily report, if any ran this session.
func (s *Simulation) LastReport() Report {
	return s.lastReport
}

// Catchup advances the day when the calendar date moved since the last
// session, then runs the tick if it is still pending.
func (s *Simulation) Catchup(ctx context.Context) (Report, error) {
	if s.State.IsTerminal() {
		return Report{}, nil
	}
	today := DateString(s.Clock.Now())
	if s.State.AdvanceCalendar(today) {
		slog.Info("calendar day changed", "day", s.State.Day, "date", today)
	}
	return s.tick(ctx)
}

// NextDay advances the day on player request, at most ManualAdvanceCap times
// per calendar date.
func (s *Simulation) NextDay(ctx context.Context) (Result, error) {
	today := DateString(s.Clock.Now())
	if !s.State.AdvanceManually(today, s.Tuning.ManualAdvanceCap) {
		return Result{Message: msgManualCap}, nil
	}
	slog.Info("manual day advance", "day", s.State.Day, "advances", s.State.ManualDayAdvances)
	rep, err := s.tick(ctx)
	res := Result{Message: rep.Text(), Changed: true}
	if err != nil {
		return res, err
	}
	return res, nil
}

// tick runs the daily update at most once per day. Every step works on a
// copy that replaces the state only once the whole day has been computed.
func (s *Simulation) tick(ctx context.Context) (Report, error) {
	if s.State.DailyEventTriggered || s.State.IsTerminal() {
		return Report{}, nil
	}

	now := s.Clock.Now()
	work := s.State.Clone()
	s.rng = entropy.New(entropy.DailySeed(now, work.Day))
	work.BeginDay(s.Tuning.BaseActionPoints)

	rep := Report{Day: work.Day, Date: work.LastPlayedDate, Ran: true}
	rep.Summary = append(rep.Summary, s.passive(work)...)
	rep.Summary = append(rep.Summary, skills(work)...)
	rep.Summary = append(rep.Summary, s.decay(work)...)
	rep.Summary = append(rep.Summary, s.upkeep(work)...)

	// Leftovers from yesterday's screens never carry into a new day.
	sweep := state.Patch{ClearPending: true, ClearDispute: true, ClearMinigame: true}
	if over := gameOver(work, s.Tuning.Upkeep.ExhaustionPerArtist); over != "" {
		sweep.Scenario = over
		work.Apply(sweep)
		rep.GameOver = true
		rep.EventText = gameOverText[over]
	} else {
		res := s.events.Resolve(outcome.Input{State: work, Rand: s.rng})
		p := state.Merge(sweep, res.Patch)
		p.Scenario = EventScenario(res.ID)
		work.Apply(p)
		rep.Event = res.ID
		rep.EventText = res.Message
	}
	rep.Scenario = work.ScenarioID
	work.EventText = rep.EventText

	s.State = work
	s.lastReport = rep

	slog.Info("daily report",
		"day", rep.Day,
		"event", rep.Event,
		"scenario", rep.Scenario,
		"game_over", rep.GameOver,
		"ap", work.ActionPoints,
		"max_ap", work.MaxActionPoints,
	)

	category := "daily"
	if rep.GameOver {
		category = "game_over"
		slog.Warn("festival over", "day", rep.Day, "reason", rep.Scenario)
	}
	s.logEvents(ctx, Event{
		Day:         rep.Day,
		Date:        rep.Date,
		Category:    category,
		Scenario:    rep.Scenario,
		Description: rep.Text(),
	})

	if err := s.save(ctx); err != nil {
		return rep, err
	}
	return rep, nil
}

// passive applies the stat interaction rules in order. Each rule sees the
// changes made by the rules before it.
func (s *Simulation) passive(work *state.State) []string {
	pv := s.Tuning.Passive
	var out []string
	apply := func(p state.Patch, msg string) {
		work.Apply(p)
		out = append(out, msg)
	}
	draw := func(base, variance int) int {
		return entropy.InRange(s.rng, base, variance)
	}
	everyArtist := func(p *state.Patch, base, variance, sign int) {
		for _, a := range work.Artists {
			p.AddSynergy(a.ID, sign*draw(base, variance))
		}
	}

	if work.Creativity >= pv.High {
		apply(state.Patch{Bonus: map[string]float64{state.BonusGenerationSuccess: 0.1}},
			"High creativity makes gathering more likely to succeed today.")
	}
	if work.Creativity < pv.Low {
		n := draw(5, 2)
		var p state.Patch
		p.AddVital(state.Passion, -n)
		apply(p, fmt.Sprintf("Drained creativity dampens your passion. (-%d passion)", n))
	}

	if work.Passion >= pv.High {
		apply(state.Patch{MaxActionPoints: 1, RefillActionPoints: true},
			"Overflowing passion gives you an extra action point.")
	}
	if work.Passion < pv.Low {
		target := max(pv.MinMaxActionPoints, work.MaxActionPoints-1)
		apply(state.Patch{MaxActionPoints: target - work.MaxActionPoints},
			"Fading passion costs you an action point.")
	}

	if work.Relationships >= pv.High {
		energy, rec := draw(5, 2), draw(5, 2)
		var p state.Patch
		p.AddVital(state.Energy, energy)
		p.AddVital(state.Recognition, rec)
		everyArtist(&p, 2, 1, 1)
		apply(p, fmt.Sprintf("Strong relationships lift the whole festival. (+%d energy, +%d recognition)", energy, rec))
	}
	if work.Relationships < pv.Low {
		energy, rec := draw(5, 2), draw(5, 2)
		var p state.Patch
		p.AddVital(state.Energy, -energy)
		p.AddVital(state.Recognition, -rec)
		apply(p, fmt.Sprintf("Weak relationships dull the festival. (-%d energy, -%d recognition)", energy, rec))
	}

	if work.Energy >= pv.High {
		n := draw(5, 2)
		var p state.Patch
		p.AddVital(state.Creativity, n)
		msg := fmt.Sprintf("Your energy sparks new creativity. (+%d creativity)", n)
		if entropy.Chance(s.rng, pv.TicketChance) {
			t := draw(1, 1)
			p.AddResource(state.SpecialGuestTickets, t)
			msg += fmt.Sprintf(" You also found special guest tickets! (+%d special_guest_tickets)", t)
		}
		apply(p, msg)
	}
	if work.Energy < pv.Low {
		n := draw(5, 2)
		p := state.Patch{Bonus: map[string]float64{state.BonusExtraDecay: 1}}
		p.AddVital(state.Creativity, -n)
		msg := fmt.Sprintf("Low energy costs creativity and the booths wear faster. (-%d creativity)", n)
		if entropy.Chance(s.rng, pv.WasteChance) {
			ap := draw(1, 0)
			p.ActionPoints = -ap
			msg += fmt.Sprintf(" Sloppy work wasted an action point. (-%d action points)", ap)
		}
		apply(p, msg)
	}

	if work.Recognition >= pv.High {
		var p state.Patch
		everyArtist(&p, 2, 1, 1)
		funds := int(math.Round(float64(draw(3, 1)) * s.turnout.Factor(work.Day)))
		p.AddResource(state.Funds, funds)
		apply(p, fmt.Sprintf("Your fame deepens the artists' trust and draws donations. (+%d funds)", funds))
	}
	if work.Recognition < pv.Low {
		var p state.Patch
		everyArtist(&p, 5, 2, -1)
		apply(p, "Low recognition shakes the artists' trust.")
	}
	return out
}

// skills adds each artist's daily contribution.
func skills(work *state.State) []string {
	var p state.Patch
	var out []string
	for _, a := range work.Artists {
		r, ok := skillYield[a.Skill]
		if !ok {
			continue
		}
		p.AddResource(r, 1)
		out = append(out, fmt.Sprintf("%s's %s brought in extra %s.", a.Name, a.Skill, strings.ReplaceAll(string(r), "_", " ")))
	}
	work.Apply(p)
	return out
}

func (s *Simulation) decay(work *state.State) []string {
	amount := s.Tuning.DecayPerDay + int(work.Bonus[state.BonusExtraDecay])
	var p state.Patch
	var out []string
	for _, key := range state.BoothKeys {
		b := work.Booth(key)
		if !b.Built {
			continue
		}
		p.ChangeBooth(key, state.BoothChange{Decay: amount})
		if b.Durability-amount <= 0 {
			out = append(out, fmt.Sprintf("The %s fell apart and needs rebuilding!", BoothName(key)))
		}
	}
	work.Apply(p)
	return out
}

func (s *Simulation) upkeep(work *state.State) []string {
	u := s.Tuning.Upkeep
	var p state.Patch
	p.AddResource(state.Ideas, -u.IdeasPerArtist*len(work.Artists))
	work.Apply(p)
	if work.Resource(state.Ideas) >= 0 {
		return nil
	}
	var penalty state.Patch
	penalty.AddVital(state.Creativity, -u.ShortfallPenalty)
	work.Apply(penalty)
	return []string{fmt.Sprintf("The artists are struggling without enough ideas! (-%d creativity)", u.ShortfallPenalty)}
}

// gameOver returns the terminal scenario the state has fallen into, or "".
// Vitals are checked in priority order before resources.
func gameOver(st *state.State, exhaustionPerArtist int) string {
	for _, stat := range state.Vitals {
		if st.Vital(stat) <= state.VitalMin {
			return state.GameOverPrefix + string(stat)
		}
	}
	if st.Resource(state.Ideas) < -exhaustionPerArtist*len(st.Artists) {
		return gameOverResources
	}
	return ""
}
