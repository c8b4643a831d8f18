package minigame

import (
	"fmt"

	"github.com/talgya/mini-festival/internal/state"
)

// Reward is the vital-stat payout of a finished minigame.
type Reward struct {
	Vitals  map[state.Stat]int
	Message string
}

type tier struct {
	min     int
	vitals  map[state.Stat]int
	message string
}

var sketchTiers = []tier{
	{min: 51, vitals: map[state.Stat]int{state.Creativity: 15, state.Passion: 10, state.Relationships: 5, state.Energy: 5},
		message: "You became a master of idea sketching!"},
	{min: 21, vitals: map[state.Stat]int{state.Creativity: 10, state.Passion: 5, state.Relationships: 3},
		message: "A great idea sketch!"},
	{min: 0, vitals: map[state.Stat]int{state.Creativity: 5},
		message: "You finished a new idea sketch."},
}

var flatRewards = map[string]Reward{
	"artist_collab": {
		Vitals:  map[state.Stat]int{state.Relationships: 2, state.Passion: 1},
		Message: "You completed the artist collaboration challenge.",
	},
	"theme_planning": {
		Vitals:  map[state.Stat]int{state.Creativity: 2, state.Energy: 1},
		Message: "You finished planning the festival theme.",
	},
	"promo_strategy": {
		Vitals:  map[state.Stat]int{state.Recognition: 2, state.Relationships: 1},
		Message: "You ran the promotion strategy simulation.",
	},
	"audience_survey": {
		Vitals:  map[state.Stat]int{state.Energy: 2, state.Recognition: 1},
		Message: "You completed the audience satisfaction survey.",
	},
}

// RewardFor converts a final score into stat deltas for the given game.
func RewardFor(id string, score int) Reward {
	if id == (Sketch{}).ID() {
		for _, t := range sketchTiers {
			if score >= t.min {
				return Reward{Vitals: copyVitals(t.vitals), Message: t.message}
			}
		}
		return Reward{Message: "You finished the idea sketch, but it earned no reward."}
	}
	if r, ok := flatRewards[id]; ok {
		return Reward{Vitals: copyVitals(r.Vitals), Message: r.Message}
	}
	return Reward{Message: fmt.Sprintf("You finished the minigame %s.", id)}
}

// Patch turns the reward into a state patch.
func (r Reward) Patch() state.Patch {
	var p state.Patch
	for stat, d := range r.Vitals {
		p.AddVital(stat, d)
	}
	return p
}

func copyVitals(m map[state.Stat]int) map[state.Stat]int {
	out := make(map[state.Stat]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
