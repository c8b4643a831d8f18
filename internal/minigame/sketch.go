package minigame

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/talgya/mini-festival/internal/entropy"
)

var sketchKeywords = []string{
	"passion", "festival", "creativity", "relationships", "energy",
	"recognition", "freedom", "inspiration", "communication", "experience",
}

const (
	sketchTargetWords = 3
	sketchMatchBonus  = 100
)

// Sketch asks the player to jot down ideas around three target keywords.
// Every idea scores twice its length; naming a target keyword as the first
// word of any idea adds a flat bonus at the end.
type Sketch struct{}

type sketchState struct {
	Target string   `json:"target"`
	Ideas  []string `json:"ideas"`
	Score  int      `json:"score"`
}

func (Sketch) ID() string   { return "idea_sketch" }
func (Sketch) Name() string { return "New Idea Sketch" }
func (Sketch) Description() string {
	return "Combine the given keywords into new ideas. The more original and rich the ideas, the higher the score."
}

func (Sketch) Start(src entropy.Source) (json.RawMessage, error) {
	words := append([]string(nil), sketchKeywords...)
	for i := len(words) - 1; i > 0; i-- {
		j := entropy.Pick(src, i+1)
		words[i], words[j] = words[j], words[i]
	}
	return json.Marshal(sketchState{Target: strings.Join(words[:sketchTargetWords], " ")})
}

func (Sketch) Submit(scratch json.RawMessage, input string) (json.RawMessage, bool, error) {
	st, err := decodeSketch(scratch)
	if err != nil {
		return nil, false, err
	}
	idea := strings.TrimSpace(input)
	if idea == "" {
		return scratch, false, nil
	}
	st.Ideas = append(st.Ideas, idea)
	st.Score += utf8.RuneCountInString(idea) * 2
	next, err := json.Marshal(st)
	return next, false, err
}

func (Sketch) Score(scratch json.RawMessage) (int, error) {
	st, err := decodeSketch(scratch)
	if err != nil {
		return 0, err
	}
	score := st.Score
	if st.matches() {
		score += sketchMatchBonus
	}
	return score, nil
}

func (Sketch) Status(scratch json.RawMessage) string {
	st, err := decodeSketch(scratch)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("Target: %s\nIdeas: %s\nScore: %d", st.Target, strings.Join(st.Ideas, ", "), st.Score)
}

func (s sketchState) matches() bool {
	target := strings.ToLower(s.Target)
	for _, idea := range s.Ideas {
		first := strings.ToLower(strings.Fields(idea)[0])
		if strings.Contains(target, first) {
			return true
		}
	}
	return false
}

func decodeSketch(scratch json.RawMessage) (sketchState, error) {
	var st sketchState
	if err := json.Unmarshal(scratch, &st); err != nil {
		return st, fmt.Errorf("idea sketch state: %w", err)
	}
	return st, nil
}
