package minigame

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/mini-festival/internal/entropy"
)

// Fixed is a minigame with a predetermined score. Any input ends it.
type Fixed struct {
	id          string
	name        string
	description string
	score       int
}

type fixedState struct {
	Score int `json:"score"`
}

func (f Fixed) ID() string          { return f.id }
func (f Fixed) Name() string        { return f.name }
func (f Fixed) Description() string { return f.description }

func (f Fixed) Start(entropy.Source) (json.RawMessage, error) {
	return json.Marshal(fixedState{Score: f.score})
}

func (f Fixed) Submit(scratch json.RawMessage, _ string) (json.RawMessage, bool, error) {
	return scratch, true, nil
}

func (f Fixed) Score(scratch json.RawMessage) (int, error) {
	var st fixedState
	if err := json.Unmarshal(scratch, &st); err != nil {
		return 0, fmt.Errorf("%s state: %w", f.id, err)
	}
	return st.Score, nil
}

func (f Fixed) Status(json.RawMessage) string {
	return f.description
}
