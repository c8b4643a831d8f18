package engine

import (
	"fmt"

	"github.com/talgya/mini-festival/internal/entropy"
	"github.com/talgya/mini-festival/internal/state"
)

// Event responses only run while their event screen is showing.

func (s *Simulation) onEvent(id string) bool {
	return s.State.ScenarioID == EventScenario(id)
}

func (s *Simulation) doHandleDispute(artistID string) step {
	d := s.State.Dispute
	if !s.onEvent(EventArtistDispute) || d == nil {
		return note(msgUnavailable)
	}
	var first, second string
	switch artistID {
	case d.First:
		first, second = d.First, d.Second
	case d.Second:
		first, second = d.Second, d.First
	default:
		return note("Choose whose side to hear first: artist=<id>.")
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}

	gain := entropy.InRange(s.rng, 10, 3)
	loss := entropy.InRange(s.rng, 5, 2)
	cre := entropy.InRange(s.rng, 5, 2)
	rel := entropy.InRange(s.rng, 5, 2)

	p := state.Patch{Scenario: ScenarioDisputeResolved, ClearDispute: true}
	p.AddSynergy(first, gain)
	p.AddSynergy(second, -loss)
	p.AddVital(state.Creativity, cre)
	p.AddVital(state.Relationships, rel)
	return charged(p, fmt.Sprintf(
		"You heard %s out first and their synergy rose. %s's synergy dipped a little. (+%d %s synergy, -%d %s synergy, +%d creativity, +%d relationships)",
		s.artistName(first), s.artistName(second), gain, s.artistName(first), loss, s.artistName(second), cre, rel))
}

func (s *Simulation) doMediateDispute() step {
	if !s.onEvent(EventArtistDispute) || s.State.Dispute == nil {
		return note(msgUnavailable)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	rel := entropy.InRange(s.rng, 10, 3)
	cre := entropy.InRange(s.rng, 5, 2)
	pas := entropy.InRange(s.rng, 5, 2)
	p := state.Patch{Scenario: ScenarioDisputeResolved, ClearDispute: true}
	p.AddVital(state.Relationships, rel)
	p.AddVital(state.Creativity, cre)
	p.AddVital(state.Passion, pas)
	return charged(p, fmt.Sprintf(
		"Your mediation turned the disagreement between %s and %s into harmony. (+%d relationships, +%d creativity, +%d passion)",
		s.artistName(s.State.Dispute.First), s.artistName(s.State.Dispute.Second), rel, cre, pas))
}

func (s *Simulation) doIgnoreDispute() step {
	if !s.onEvent(EventArtistDispute) || s.State.Dispute == nil {
		return note(msgUnavailable)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	rel := entropy.InRange(s.rng, 10, 3)
	cre := entropy.InRange(s.rng, 5, 2)
	p := state.Patch{Scenario: ScenarioDisputeResolved, ClearDispute: true}
	p.AddVital(state.Relationships, -rel)
	p.AddVital(state.Creativity, -cre)
	for _, a := range s.State.Artists {
		p.AddSynergy(a.ID, -5)
	}
	return charged(p, fmt.Sprintf(
		"You ignored the disagreement. Resentment grew and the mood sagged. (-%d relationships, -%d creativity, -5 synergy for everyone)",
		rel, cre))
}

// secondWind is the extra action point some responses cost on top of the
// guard. It reports false when the budget is already spent.
func (s *Simulation) secondWind() bool {
	return s.State.ActionPoints-1 >= 1
}

func (s *Simulation) doSeekInspiration() step {
	if !s.onEvent(EventInspirationBlock) {
		return note(msgUnavailable)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	p := state.Patch{Scenario: state.ScenarioIntro}
	if !s.secondWind() {
		return charged(p, "You don't have the action points left to chase new inspiration.")
	}
	cre := entropy.InRange(s.rng, 10, 3)
	pas := entropy.InRange(s.rng, 5, 2)
	p.ActionPoints = -1
	p.AddVital(state.Creativity, cre)
	p.AddVital(state.Passion, pas)
	return charged(p, fmt.Sprintf("New surroundings brought your inspiration back. (+%d creativity, +%d passion)", cre, pas))
}

func (s *Simulation) doWaitForInspiration() step {
	if !s.onEvent(EventInspirationBlock) {
		return note(msgUnavailable)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	cre := entropy.InRange(s.rng, 10, 3)
	pas := entropy.InRange(s.rng, 5, 2)
	p := state.Patch{Scenario: state.ScenarioIntro}
	p.AddVital(state.Creativity, -cre)
	p.AddVital(state.Passion, -pas)
	return charged(p, fmt.Sprintf("You rested and waited, but creativity and passion slipped. (-%d creativity, -%d passion)", cre, pas))
}

func (s *Simulation) doReconnect() step {
	if !s.onEvent(EventRelationshipCrisis) {
		return note(msgUnavailable)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	p := state.Patch{Scenario: state.ScenarioIntro}
	if !s.secondWind() {
		return charged(p, "You don't have the action points left to reach out to the artists.")
	}
	rel := entropy.InRange(s.rng, 10, 3)
	rec := entropy.InRange(s.rng, 5, 2)
	p.ActionPoints = -1
	p.AddVital(state.Relationships, rel)
	p.AddVital(state.Recognition, rec)
	return charged(p, fmt.Sprintf("You talked things through with the artists and mended the rift. (+%d relationships, +%d recognition)", rel, rec))
}

func (s *Simulation) doPersonalTime() step {
	if !s.onEvent(EventRelationshipCrisis) {
		return note(msgUnavailable)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	rel := entropy.InRange(s.rng, 10, 3)
	rec := entropy.InRange(s.rng, 5, 2)
	p := state.Patch{Scenario: state.ScenarioIntro}
	p.AddVital(state.Relationships, -rel)
	p.AddVital(state.Recognition, -rec)
	return charged(p, fmt.Sprintf("You took some time alone, and the distance showed. (-%d relationships, -%d recognition)", rel, rec))
}

func (s *Simulation) pendingArtist() *state.Artist {
	if !s.onEvent(EventNewArtist) {
		return nil
	}
	return s.State.PendingArtist
}

func (s *Simulation) doWelcomeArtist() step {
	a := s.pendingArtist()
	if a == nil {
		return note(msgUnavailable)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	p := state.Patch{Scenario: state.ScenarioIntro, ClearPending: true}
	if len(s.State.Artists) >= s.State.MaxArtists {
		return charged(p, fmt.Sprintf("There's no room on the roster for %s.", a.Name))
	}
	cre := entropy.InRange(s.rng, 10, 3)
	pas := entropy.InRange(s.rng, 5, 2)
	rel := entropy.InRange(s.rng, 5, 2)
	recruit := *a
	p.Recruit = &recruit
	p.AddVital(state.Creativity, cre)
	p.AddVital(state.Passion, pas)
	p.AddVital(state.Relationships, rel)
	return charged(p, fmt.Sprintf("%s joined the festival! (+%d creativity, +%d passion, +%d relationships)", a.Name, cre, pas, rel))
}

func (s *Simulation) doObserveArtist() step {
	a := s.pendingArtist()
	if a == nil {
		return note(msgUnavailable)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	p := state.Patch{Scenario: state.ScenarioIntro, ClearPending: true}
	if s.rng.Float() < 0.7 {
		n := entropy.InRange(s.rng, 5, 2)
		p.AddVital(state.Passion, n)
		return charged(p, fmt.Sprintf("Watching %s work was inspiring. (+%d passion)", a.Name, n))
	}
	n := entropy.InRange(s.rng, 5, 2)
	p.AddVital(state.Creativity, -n)
	return charged(p, fmt.Sprintf("Your hesitation with %s left a poor impression. (-%d creativity)", a.Name, n))
}

func (s *Simulation) doRejectArtist() step {
	a := s.pendingArtist()
	if a == nil {
		return note(msgUnavailable)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	cre := entropy.InRange(s.rng, 10, 3)
	pas := entropy.InRange(s.rng, 5, 2)
	rel := entropy.InRange(s.rng, 5, 2)
	p := state.Patch{Scenario: state.ScenarioIntro, ClearPending: true}
	p.AddVital(state.Creativity, -cre)
	p.AddVital(state.Passion, -pas)
	p.AddVital(state.Relationships, -rel)
	return charged(p, fmt.Sprintf("You politely turned %s away. (-%d creativity, -%d passion, -%d relationships)", a.Name, cre, pas, rel))
}

func (s *Simulation) doAcceptPatronage() step {
	if !s.onEvent(EventAnonymousPatron) {
		return note(msgUnavailable)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	pt := s.Tuning.Patronage
	p := state.Patch{Scenario: state.ScenarioIntro}
	if s.State.Resource(state.Funds) < pt.Funds {
		return charged(p, fmt.Sprintf("You need %d funds to take the offer.", pt.Funds))
	}
	p.AddResource(state.Funds, -pt.Funds)
	p.AddResource(state.SpecialGuestTickets, pt.Tickets)
	return charged(p, fmt.Sprintf("You accepted the patron's offer. (-%d funds, +%d special_guest_tickets)", pt.Funds, pt.Tickets))
}

func (s *Simulation) doDeclinePatronage() step {
	if !s.onEvent(EventAnonymousPatron) {
		return note(msgUnavailable)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	return charged(state.Patch{Scenario: state.ScenarioIntro}, "You declined the offer. The patron left, disappointed.")
}

func (s *Simulation) artistName(id string) string {
	if i := s.State.ArtistByID(id); i >= 0 {
		return s.State.Artists[i].Name
	}
	return id
}
