// Package tuning holds the festival balance constants. Defaults are embedded;
// an optional YAML file overrides any subset of them.
package tuning

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/talgya/mini-festival/internal/state"
)

//go:embed default.yaml
var defaultYAML []byte

//go:embed tuning.schema.json
var schemaJSON []byte

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid tuning")

// Range is a base value with symmetric variance.
type Range struct {
	Base     int `yaml:"base"`
	Variance int `yaml:"variance"`
}

type Tuning struct {
	BaseActionPoints int `yaml:"base_action_points"`
	StartVitals      int `yaml:"start_vitals"`
	MaxArtists       int `yaml:"max_artists"`
	ManualAdvanceCap int `yaml:"manual_advance_cap"`

	StartResources map[state.Resource]int `yaml:"start_resources"`

	Gather       Gather                   `yaml:"gather"`
	Booths       map[state.BoothKey]Booth `yaml:"booths"`
	MaintainCost map[state.Resource]int   `yaml:"maintain_cost"`
	DecayPerDay  int                      `yaml:"decay_per_day"`

	Upkeep    Upkeep             `yaml:"upkeep"`
	Passive   Passive            `yaml:"passive"`
	Events    map[string]float64 `yaml:"events"`
	Patronage Patronage          `yaml:"patronage"`
	Turnout   Turnout            `yaml:"turnout"`
}

type Gather struct {
	BaseChance float64 `yaml:"base_chance"`
	LevelStep  float64 `yaml:"level_step"`
	MaxChance  float64 `yaml:"max_chance"`
	Amount     Range   `yaml:"amount"`
}

// Booth is the build recipe for one facility.
type Booth struct {
	Cost     map[state.Resource]int `yaml:"cost"`
	Bonus    map[state.Stat]Range   `yaml:"bonus"`
	Requires state.BoothKey         `yaml:"requires"`
	// Level is added to the festival level when the booth is built.
	Level int `yaml:"level"`
}

type Upkeep struct {
	IdeasPerArtist      int `yaml:"ideas_per_artist"`
	ShortfallPenalty    int `yaml:"shortfall_penalty"`
	ExhaustionPerArtist int `yaml:"exhaustion_per_artist"`
}

// Passive configures the daily stat-interaction rules.
type Passive struct {
	High               int     `yaml:"high"`
	Low                int     `yaml:"low"`
	MinMaxActionPoints int     `yaml:"min_max_action_points"`
	TicketChance       float64 `yaml:"ticket_chance"`
	WasteChance        float64 `yaml:"waste_chance"`
}

type Patronage struct {
	Funds   int `yaml:"funds"`
	Tickets int `yaml:"tickets"`
}

type Turnout struct {
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
}

// Default returns the embedded tuning. It panics if the embedded file is
// broken, which the package tests rule out.
func Default() Tuning {
	var t Tuning
	if err := decode(defaultYAML, &t); err != nil {
		panic(err)
	}
	return t
}

// Load reads an override file on top of the defaults. An empty path returns
// the defaults.
func Load(path string) (Tuning, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	t, err := Parse(raw)
	if err != nil {
		return Tuning{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse applies a YAML override document on top of the defaults.
func Parse(raw []byte) (Tuning, error) {
	t := Default()
	if err := decode(raw, &t); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

func decode(raw []byte, t *Tuning) error {
	if err := validateSchema(raw); err != nil {
		return err
	}
	prev := maps.Clone(t.Booths)
	if err := yaml.Unmarshal(raw, t); err != nil {
		return fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := mergeBooths(raw, t, prev); err != nil {
		return err
	}
	return t.Validate()
}

// mergeBooths decodes each booth named in raw on top of its previous recipe.
// yaml.v3 replaces map-of-struct entries with a fresh zero value, which would
// drop every field the override does not repeat.
func mergeBooths(raw []byte, t *Tuning, prev map[state.BoothKey]Booth) error {
	var doc struct {
		Booths map[state.BoothKey]yaml.Node `yaml:"booths"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("tuning.yaml: %w", err)
	}
	for key, node := range doc.Booths {
		b := prev[key]
		if err := node.Decode(&b); err != nil {
			return fmt.Errorf("tuning.yaml: booths.%s: %w", key, err)
		}
		t.Booths[key] = b
	}
	return nil
}

// validateSchema checks the raw document against the embedded JSON schema.
// YAML is converted through JSON so the validator sees plain JSON values.
func validateSchema(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("tuning.yaml: %w", err)
	}
	if doc == nil {
		return nil
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("tuning.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("load tuning schema: %w", err)
	}
	schema, err := c.Compile("tuning.schema.json")
	if err != nil {
		return fmt.Errorf("compile tuning schema: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Validate checks cross-field constraints the schema cannot express.
func (t Tuning) Validate() error {
	if t.Gather.BaseChance > t.Gather.MaxChance {
		return fmt.Errorf("%w: gather.base_chance above gather.max_chance", ErrInvalid)
	}
	if t.Passive.Low > t.Passive.High {
		return fmt.Errorf("%w: passive.low above passive.high", ErrInvalid)
	}
	if t.Passive.MinMaxActionPoints > t.BaseActionPoints {
		return fmt.Errorf("%w: passive.min_max_action_points above base_action_points", ErrInvalid)
	}
	for _, key := range state.BoothKeys {
		b, ok := t.Booths[key]
		if !ok {
			return fmt.Errorf("%w: booth %s has no recipe", ErrInvalid, key)
		}
		if b.Requires == key {
			return fmt.Errorf("%w: booth %s requires itself", ErrInvalid, key)
		}
	}
	return nil
}
