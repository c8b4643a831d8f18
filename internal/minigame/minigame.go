// Package minigame defines the pluggable daily minigames. Each game keeps its
// own scratch state as opaque JSON; the engine only stores it and hands it
// back, then turns the final score into a reward.
package minigame

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/mini-festival/internal/entropy"
)

// Game is one minigame. Implementations must be pure functions of their
// scratch state so a save can resume mid-game.
type Game interface {
	ID() string
	Name() string
	Description() string
	// Start creates fresh scratch state.
	Start(src entropy.Source) (json.RawMessage, error)
	// Submit feeds one player input. done reports that the game has concluded.
	Submit(scratch json.RawMessage, input string) (next json.RawMessage, done bool, err error)
	// Score returns the final score for the scratch state.
	Score(scratch json.RawMessage) (int, error)
	// Status renders the scratch state for display.
	Status(scratch json.RawMessage) string
}

var catalog = []Game{
	Sketch{},
	Fixed{id: "artist_collab", name: "Artist Collaboration Challenge", description: "Team up with different artists to produce the best piece you can.", score: 10},
	Fixed{id: "theme_planning", name: "Festival Theme Planning", description: "Come up with an original theme for the festival.", score: 15},
	Fixed{id: "promo_strategy", name: "Promotion Strategy Simulation", description: "Simulate a campaign that gets the most reach out of the least budget.", score: 20},
	Fixed{id: "audience_survey", name: "Audience Satisfaction Survey", description: "Survey the audience and fold their feedback into the festival.", score: 25},
}

// Games returns the catalog in rotation order.
func Games() []Game {
	return append([]Game(nil), catalog...)
}

// ForDay picks the game for a festival day. Day 1 plays the first game.
func ForDay(day int) Game {
	i := (day - 1) % len(catalog)
	if i < 0 {
		i += len(catalog)
	}
	return catalog[i]
}

// Lookup finds a game by ID.
func Lookup(id string) (Game, error) {
	for _, g := range catalog {
		if g.ID() == id {
			return g, nil
		}
	}
	return nil, fmt.Errorf("unknown minigame %q", id)
}
