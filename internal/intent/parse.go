// Package intent turns a line of player input into an engine.Intent.
//
// The first word names the action; the rest are key=value parameters. A bare
// word after the action fills that action's positional parameter, so
// "promote leo" and "promote artist=leo" are the same intent.
package intent

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/talgya/mini-festival/internal/engine"
)

// ErrEmpty is returned for a blank line.
var ErrEmpty = errors.New("empty input")

// UnknownActionError reports an action name the engine does not know, with
// the closest known names.
type UnknownActionError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownActionError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown action %q", e.Name)
	}
	return fmt.Sprintf("unknown action %q, did you mean %s?", e.Name, strings.Join(e.Suggestions, " or "))
}

// positional names the parameter a bare word fills, per action.
var positional = map[string]string{
	"promote":               "artist",
	"handle_artist_dispute": "artist",
	"build":                 "booth",
	"maintain":              "booth",
	"reset":                 "confirm",
}

const maxSuggestions = 3

// Parse splits line into an action and its parameters.
func Parse(line string) (engine.Intent, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return engine.Intent{}, ErrEmpty
	}

	name := normalise(fields[0])
	if _, ok := engine.ParseAction(name); !ok {
		return engine.Intent{}, &UnknownActionError{Name: name, Suggestions: Suggest(name)}
	}

	params := map[string]string{}
	if name == "minigame_input" {
		// Free text: everything after the action, case kept.
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		if rest != "" {
			params["value"] = strings.TrimPrefix(rest, "value=")
		}
		return engine.Intent{Action: name, Params: params}, nil
	}
	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			pos, has := positional[name]
			if !has {
				return engine.Intent{}, fmt.Errorf("%s takes no bare argument %q", name, f)
			}
			key, value = pos, f
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return engine.Intent{}, fmt.Errorf("parameter %q has no name", f)
		}
		params[key] = normalise(value)
	}
	return engine.Intent{Action: name, Params: params}, nil
}

// Suggest returns up to three known action names within edit distance of
// name, closest first.
func Suggest(name string) []string {
	type scored struct {
		val  string
		dist int
	}
	var results []scored
	for _, cand := range engine.ActionNames() {
		if strings.HasPrefix(cand, name) && name != "" {
			results = append(results, scored{val: cand, dist: 0})
			continue
		}
		dist := levenshtein.ComputeDistance(name, cand)
		if dist > distanceLimit(len(cand)) {
			continue
		}
		results = append(results, scored{val: cand, dist: dist})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].val < results[j].val
		}
		return results[i].dist < results[j].dist
	})
	if len(results) > maxSuggestions {
		results = results[:maxSuggestions]
	}
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.val
	}
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// normalise lowercases and maps spaces and hyphens to underscores.
func normalise(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
