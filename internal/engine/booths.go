package engine

import (
	"fmt"
	"strings"

	"github.com/talgya/mini-festival/internal/entropy"
	"github.com/talgya/mini-festival/internal/state"
)

var boothNames = map[state.BoothKey]string{
	state.FoodTruck:   "Food Truck",
	state.CraftBooth:  "Craft Booth",
	state.MainStage:   "Main Stage",
	state.IdeaLounge:  "Idea Lounge",
	state.MediaStudio: "Media Studio",
}

// ParseBooth validates a booth key from player input.
func ParseBooth(key string) (state.BoothKey, bool) {
	k := state.BoothKey(key)
	_, ok := boothNames[k]
	return k, ok
}

// BoothName returns the display name of a booth.
func BoothName(key state.BoothKey) string {
	if n, ok := boothNames[key]; ok {
		return n
	}
	return string(key)
}

func affordable(st *state.State, cost map[state.Resource]int) bool {
	for r, n := range cost {
		if st.Resource(r) < n {
			return false
		}
	}
	return true
}

// formatCost renders a cost map in resource display order.
func formatCost(cost map[state.Resource]int) string {
	parts := make([]string, 0, len(cost))
	for _, r := range state.ResourceKeys {
		if n, ok := cost[r]; ok && n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", r, n))
		}
	}
	return strings.Join(parts, ", ")
}

func (s *Simulation) doBuild(key string) step {
	booth, ok := ParseBooth(key)
	if !ok {
		return note("Choose a booth to build: booth=<key>.")
	}
	recipe, ok := s.Tuning.Booths[booth]
	if !ok {
		return note(msgUnavailable)
	}
	if s.State.Booth(booth).Built {
		return note(fmt.Sprintf("The %s is already built.", BoothName(booth)))
	}
	if recipe.Requires != "" && !s.State.Standing(recipe.Requires) {
		return note(fmt.Sprintf("The %s needs a standing %s first.", BoothName(booth), BoothName(recipe.Requires)))
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	if !affordable(s.State, recipe.Cost) {
		return charged(state.Patch{}, fmt.Sprintf("Not enough resources to build the %s (needs %s).",
			BoothName(booth), formatCost(recipe.Cost)))
	}

	p := state.Patch{FestivalLevel: recipe.Level}
	for r, n := range recipe.Cost {
		p.AddResource(r, -n)
	}
	p.ChangeBooth(booth, state.BoothChange{Build: true})

	// Vitals order keeps the draw sequence stable across map iteration.
	var gains []string
	for _, stat := range state.Vitals {
		rg, ok := recipe.Bonus[stat]
		if !ok {
			continue
		}
		n := entropy.InRange(s.rng, rg.Base, rg.Variance)
		p.AddVital(stat, n)
		gains = append(gains, fmt.Sprintf("%+d %s", n, stat))
	}
	msg := fmt.Sprintf("You built the %s!", BoothName(booth))
	if len(gains) > 0 {
		msg += " (" + strings.Join(gains, ", ") + ")"
	}
	if recipe.Level > 0 {
		msg += fmt.Sprintf(" The festival grew to level %d.", s.State.FestivalLevel+recipe.Level)
	}
	return charged(p, msg)
}

func (s *Simulation) doMaintain(key string) step {
	booth, ok := ParseBooth(key)
	if !ok {
		return note("Choose a booth to repair: booth=<key>.")
	}
	b := s.State.Booth(booth)
	if !b.Built {
		return note(fmt.Sprintf("The %s hasn't been built.", BoothName(booth)))
	}
	if b.Durability >= state.DurabilityMax {
		return note(fmt.Sprintf("The %s is in perfect shape.", BoothName(booth)))
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	cost := s.Tuning.MaintainCost
	if !affordable(s.State, cost) {
		return charged(state.Patch{}, fmt.Sprintf("Not enough resources to repair the %s (needs %s).",
			BoothName(booth), formatCost(cost)))
	}

	var p state.Patch
	for r, n := range cost {
		p.AddResource(r, -n)
	}
	p.ChangeBooth(booth, state.BoothChange{Repair: true})
	return charged(p, fmt.Sprintf("You repaired the %s. Durability is back to %d.", BoothName(booth), state.DurabilityMax))
}
