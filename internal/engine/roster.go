package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/talgya/mini-festival/internal/entropy"
	"github.com/talgya/mini-festival/internal/outcome"
	"github.com/talgya/mini-festival/internal/state"
)

var (
	recruitNames         = []string{"Lucy", "Milo", "Nina", "Oscar", "Penny"}
	recruitPersonalities = []string{"passionate", "free_spirit", "creative", "sociable"}
	recruitSkills        = []string{"performance", "art", "writing"}
)

// artistNamespace scopes generated artist IDs.
var artistNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("festival.artist"))

const recruitSynergy = 50

// generateArtist rolls a candidate for the new-artist event. The ID is a
// name-based UUID of the save seed, day and name, so a replayed day yields
// the same artist.
func generateArtist(in outcome.Input) state.Artist {
	name := recruitNames[entropy.Pick(in.Rand, len(recruitNames))]
	personality := recruitPersonalities[entropy.Pick(in.Rand, len(recruitPersonalities))]
	skill := recruitSkills[entropy.Pick(in.Rand, len(recruitSkills))]

	key := fmt.Sprintf("%d/%d/%s", in.State.Seed, in.State.Day, name)
	return state.Artist{
		ID:          uuid.NewSHA1(artistNamespace, []byte(key)).String(),
		Name:        name,
		Personality: personality,
		Skill:       skill,
		Synergy:     recruitSynergy,
	}
}

func personalityLabel(p string) string {
	return strings.ReplaceAll(p, "_", "-")
}

// skillYield is the resource an artist with a given skill adds each day.
var skillYield = map[string]state.Resource{
	"music":   state.PracticeTime,
	"art":     state.StageOutfits,
	"writing": state.PerformanceFees,
}
