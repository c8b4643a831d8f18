package engine

import (
	"fmt"

	"github.com/talgya/mini-festival/internal/entropy"
	"github.com/talgya/mini-festival/internal/outcome"
	"github.com/talgya/mini-festival/internal/state"
)

// Daily event IDs. The event screen's scenario ID is EventScenario(id).
const (
	EventRain                = "rain"
	EventViralMoment         = "viral_moment"
	EventArtistDispute       = "artist_dispute"
	EventNewArtist           = "new_artist"
	EventAnonymousPatron     = "anonymous_patron"
	EventInspirationBlock    = "inspiration_block"
	EventRelationshipCrisis  = "relationship_crisis"
	EventUnexpectedSuccess   = "unexpected_success"
	EventTechnicalDifficulty = "technical_difficulty"
)

const eventScenarioPrefix = "daily_event_"

// EventScenario is the scenario shown after a daily event fires.
func EventScenario(id string) string {
	return eventScenarioPrefix + id
}

var dailyEvents = outcome.MustTable("daily_events", []outcome.Candidate{
	{
		ID:     EventRain,
		Weight: 10,
		Effect: func(in outcome.Input) outcome.Result {
			n := roll(in, 10, 5)
			var p state.Patch
			p.AddVital(state.Energy, -n)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"Rain fell all day and the outdoor work stalled. (-%d energy)", n)}
		},
	},
	{
		ID:     EventViralMoment,
		Weight: 10,
		Effect: func(in outcome.Input) outcome.Result {
			n := roll(in, 10, 5)
			var p state.Patch
			p.AddVital(state.Recognition, n)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"A clip from the festival went viral overnight! (+%d recognition)", n)}
		},
	},
	{
		ID:     EventArtistDispute,
		When:   func(in outcome.Input) bool { return len(in.State.Artists) >= 2 },
		Weight: 15,
		Effect: func(in outcome.Input) outcome.Result {
			n := len(in.State.Artists)
			i := entropy.Pick(in.Rand, n)
			j := entropy.Pick(in.Rand, n-1)
			if j >= i {
				j++
			}
			a, b := in.State.Artists[i], in.State.Artists[j]
			return outcome.Result{
				Patch: state.Patch{SetDispute: &state.Dispute{First: a.ID, Second: b.ID}},
				Message: fmt.Sprintf(
					"%s and %s disagree about the creative direction. Both are waiting for your call.", a.Name, b.Name),
			}
		},
	},
	{
		ID: EventNewArtist,
		When: func(in outcome.Input) bool {
			return in.State.Standing(state.MainStage) && len(in.State.Artists) < in.State.MaxArtists
		},
		Weight: 10,
		Effect: func(in outcome.Input) outcome.Result {
			a := generateArtist(in)
			return outcome.Result{
				Patch: state.Patch{StageArtist: &a},
				Message: fmt.Sprintf(
					"%s, a %s artist skilled in %s, came to see the main stage and wants to join.",
					a.Name, personalityLabel(a.Personality), a.Skill),
			}
		},
	},
	{
		ID:     EventAnonymousPatron,
		When:   func(in outcome.Input) bool { return in.State.Standing(state.MainStage) },
		Weight: 10,
		Effect: func(outcome.Input) outcome.Result {
			return outcome.Result{Message: "An anonymous patron wants to trade special guest tickets for festival funds."}
		},
	},
	{
		ID:     EventInspirationBlock,
		When:   func(in outcome.Input) bool { return in.State.Creativity < 50 },
		Weight: 12,
		Effect: func(outcome.Input) outcome.Result {
			return outcome.Result{Message: "Inspiration dried up. The festival feels stuck."}
		},
	},
	{
		ID:     EventRelationshipCrisis,
		When:   func(in outcome.Input) bool { return in.State.Relationships < 50 },
		Weight: 15,
		Effect: func(outcome.Input) outcome.Result {
			return outcome.Result{Message: "Relationships with the artists are shaky. Nobody is talking to each other."}
		},
	},
	{
		ID:     EventUnexpectedSuccess,
		Weight: 7,
		Effect: func(in outcome.Input) outcome.Result {
			rec, funds := roll(in, 15, 5), roll(in, 10, 5)
			var p state.Patch
			p.AddVital(state.Recognition, rec)
			p.AddResource(state.Funds, funds)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"A small side event turned into an unexpected success! (+%d recognition, +%d funds)", rec, funds)}
		},
	},
	{
		ID:     EventTechnicalDifficulty,
		Weight: 8,
		Effect: func(in outcome.Input) outcome.Result {
			energy, cre := roll(in, 10, 5), roll(in, 5, 2)
			var p state.Patch
			p.AddVital(state.Energy, -energy)
			p.AddVital(state.Creativity, -cre)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"The sound system broke down mid-rehearsal. (-%d energy, -%d creativity)", energy, cre)}
		},
	},
})
