package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talgya/mini-festival/internal/minigame"
	"github.com/talgya/mini-festival/internal/state"
)

const msgAlreadyPerformed = "You already played today's performance."

func (s *Simulation) doPlayMinigame() step {
	if s.State.Daily.MinigamePlayed {
		return note(msgAlreadyPerformed)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	game := minigame.ForDay(s.State.Day)
	scratch, err := game.Start(s.rng)
	if err != nil {
		slog.Error("minigame start failed", "game", game.ID(), "error", err)
		return note(msgUnavailable)
	}
	p := state.Patch{
		Scenario: state.MinigamePrefix + game.ID(),
		Minigame: &state.MinigameState{ID: game.ID(), Data: scratch},
	}
	p.Daily.MinigamePlayed = true
	return charged(p, fmt.Sprintf("%s: %s %s", game.Name(), game.Description(), game.Status(scratch)))
}

// activeGame resolves the running minigame. A game missing from the catalog
// is reported as nil so the caller can close it.
func (s *Simulation) activeGame() minigame.Game {
	g, err := minigame.Lookup(s.State.Minigame.ID)
	if err != nil {
		slog.Warn("active minigame not in catalog", "game", s.State.Minigame.ID)
		return nil
	}
	return g
}

func (s *Simulation) doMinigameInput(value string) step {
	if !s.State.InMinigame() {
		return note(msgUnavailable)
	}
	game := s.activeGame()
	if game == nil {
		return commit(state.Patch{ClearMinigame: true, Scenario: state.ScenarioIntro}, "That performance can no longer be played.")
	}
	next, done, err := game.Submit(s.State.Minigame.Data, value)
	if err != nil {
		slog.Warn("minigame input rejected", "game", game.ID(), "error", err)
		return note(msgUnavailable)
	}
	if done {
		return s.finishMinigame(game, next)
	}
	return commit(state.Patch{Minigame: &state.MinigameState{ID: game.ID(), Data: next}}, game.Status(next))
}

func (s *Simulation) doMinigameEnd() step {
	if !s.State.InMinigame() {
		return note(msgUnavailable)
	}
	game := s.activeGame()
	if game == nil {
		return commit(state.Patch{ClearMinigame: true, Scenario: state.ScenarioIntro}, "That performance can no longer be played.")
	}
	return s.finishMinigame(game, s.State.Minigame.Data)
}

func (s *Simulation) finishMinigame(game minigame.Game, scratch json.RawMessage) step {
	score, err := game.Score(scratch)
	if err != nil {
		slog.Warn("minigame score unreadable", "game", game.ID(), "error", err)
		score = 0
	}
	reward := minigame.RewardFor(game.ID(), score)
	p := reward.Patch()
	p.ClearMinigame = true
	p.Scenario = state.ScenarioIntro

	var gains []string
	for _, stat := range state.Vitals {
		if n := reward.Vitals[stat]; n != 0 {
			gains = append(gains, fmt.Sprintf("%+d %s", n, stat))
		}
	}
	msg := fmt.Sprintf("%s Final score: %d.", reward.Message, score)
	if len(gains) > 0 {
		msg += " (" + strings.Join(gains, ", ") + ")"
	}
	slog.Info("minigame finished", "game", game.ID(), "score", score)
	return commit(p, msg)
}

func (s *Simulation) minigameScreen() (string, []Choice) {
	game := s.activeGame()
	if game == nil {
		return "The performance has ended.", []Choice{{Label: "Finish", Action: "minigame_end"}}
	}
	text := fmt.Sprintf("%s: %s %s", game.Name(), game.Description(), game.Status(s.State.Minigame.Data))
	return text, []Choice{
		{Label: "Submit (value=<text>)", Action: "minigame_input"},
		{Label: "Finish the performance", Action: "minigame_end"},
	}
}
