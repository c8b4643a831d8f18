package engine

import (
	"fmt"
	"math"

	"github.com/talgya/mini-festival/internal/entropy"
	"github.com/talgya/mini-festival/internal/state"
)

var gatherVerbs = map[state.Resource]string{
	state.Ideas:        "You came up with new ideas!",
	state.Participants: "You signed up new participants!",
	state.Funds:        "You raised funds!",
}

var gatherFailures = map[state.Resource]string{
	state.Ideas:        "You couldn't come up with anything usable.",
	state.Participants: "Nobody signed up this time.",
	state.Funds:        "The fundraising fell flat.",
}

// GatherChance is the success probability of a gathering action.
func (s *Simulation) GatherChance() float64 {
	g := s.Tuning.Gather
	chance := g.BaseChance + float64(s.State.FestivalLevel)*g.LevelStep + s.State.Bonus[state.BonusGenerationSuccess]
	return math.Min(g.MaxChance, chance)
}

func (s *Simulation) doGather(r state.Resource) step {
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	if !entropy.Chance(s.rng, s.GatherChance()) {
		return charged(state.Patch{}, gatherFailures[r])
	}
	amt := s.Tuning.Gather.Amount
	n := entropy.InRange(s.rng, amt.Base, amt.Variance)
	var p state.Patch
	p.AddResource(r, n)
	return charged(p, fmt.Sprintf("%s (+%d %s)", gatherVerbs[r], n, r))
}

func (s *Simulation) doStreetPerformance() step {
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	p := state.Patch{Scenario: ScenarioSurprises}
	var msg string
	switch r := s.rng.Float(); {
	case r < 0.1:
		ideas := entropy.InRange(s.rng, 30, 10)
		crowd := s.turnout.Scale(entropy.InRange(s.rng, 20, 5), s.State.Day)
		funds := entropy.InRange(s.rng, 15, 5)
		p.AddResource(state.Ideas, ideas)
		p.AddResource(state.Participants, crowd)
		p.AddResource(state.Funds, funds)
		msg = fmt.Sprintf("The street performance was a huge hit! (+%d ideas, +%d participants, +%d funds)", ideas, crowd, funds)
	case r < 0.4:
		n := entropy.InRange(s.rng, 10, 5)
		p.AddVital(state.Recognition, n)
		msg = fmt.Sprintf("The street performance went well. (+%d recognition)", n)
	case r < 0.7:
		n := entropy.InRange(s.rng, 5, 2)
		p.AddVital(state.Recognition, -n)
		msg = fmt.Sprintf("The street performance flopped. (-%d recognition)", n)
	default:
		msg = "The street performance came to nothing."
	}
	return charged(p, msg)
}

func (s *Simulation) doExploreHiddenPlace() step {
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	p := state.Patch{Scenario: ScenarioSurprises}
	var msg string
	switch r := s.rng.Float(); {
	case r < 0.2:
		n := entropy.InRange(s.rng, 3, 1)
		p.AddResource(state.SpecialGuestTickets, n)
		msg = fmt.Sprintf("The hidden place was full of surprises. You found special guest tickets! (+%d special_guest_tickets)", n)
	case r < 0.6:
		n := entropy.InRange(s.rng, 10, 5)
		p.AddResource(state.Ideas, n)
		msg = fmt.Sprintf("Exploring gave you ideas. (+%d ideas)", n)
	default:
		msg = "You found nothing of note."
	}
	return charged(p, msg)
}
