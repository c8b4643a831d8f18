// Package state holds the festival simulation state and the only operations
// allowed to mutate it: Apply for patches and a handful of day transitions.
package state

import (
	"encoding/json"
	"strings"
)

// Stat names one of the five vital stats.
type Stat string

const (
	Creativity    Stat = "creativity"
	Passion       Stat = "passion"
	Relationships Stat = "relationships"
	Energy        Stat = "energy"
	Recognition   Stat = "recognition"
)

// Vitals lists the vital stats in game-over priority order.
var Vitals = []Stat{Creativity, Passion, Relationships, Energy, Recognition}

// Resource names an open-ended counter. Resources have no floor or ceiling.
type Resource string

const (
	Ideas               Resource = "ideas"
	Participants        Resource = "participants"
	Funds               Resource = "funds"
	SpecialGuestTickets Resource = "special_guest_tickets"
	PracticeTime        Resource = "practice_time"
	StageOutfits        Resource = "stage_outfits"
	PerformanceFees     Resource = "performance_fees"
)

// ResourceKeys lists every resource in display order.
var ResourceKeys = []Resource{Ideas, Participants, Funds, SpecialGuestTickets, PracticeTime, StageOutfits, PerformanceFees}

// BoothKey names one of the fixed festival booths.
type BoothKey string

const (
	FoodTruck   BoothKey = "food_truck"
	CraftBooth  BoothKey = "craft_booth"
	MainStage   BoothKey = "main_stage"
	IdeaLounge  BoothKey = "idea_lounge"
	MediaStudio BoothKey = "media_studio"
)

// BoothKeys is the fixed booth key set in display order.
var BoothKeys = []BoothKey{FoodTruck, CraftBooth, MainStage, IdeaLounge, MediaStudio}

const (
	VitalMin      = 0
	VitalMax      = 100
	SynergyMax    = 100
	DurabilityMax = 100

	ScenarioIntro  = "intro"
	GameOverPrefix = "game_over_"
	MinigamePrefix = "minigame_"

	BonusGenerationSuccess = "generation_success"
	BonusExtraDecay        = "extra_decay"

	// CurrentVersion is bumped whenever a field is added that needs backfill.
	CurrentVersion = 2
)

// Artist is a festival collaborator. Synergy both reacts to and gates outcome
// table branches.
type Artist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Personality string `json:"personality"`
	Skill       string `json:"skill"`
	Synergy     int    `json:"synergy"`

	// Version 1 saves stored synergy under "trust".
	LegacyTrust *int `json:"trust,omitempty"`
}

// Facility is a constructible, decaying booth.
type Facility struct {
	Built      bool `json:"built"`
	Durability int  `json:"durability"`
}

// DailyActions records what has already been done today.
type DailyActions struct {
	Brainstormed   bool     `json:"brainstormed"`
	Scouted        bool     `json:"scouted"`
	MinigamePlayed bool     `json:"minigame_played"`
	Promoted       []string `json:"promoted,omitempty"` // artist IDs
}

// HasPromoted reports whether the artist was already promoted with today.
func (d DailyActions) HasPromoted(id string) bool {
	for _, p := range d.Promoted {
		if p == id {
			return true
		}
	}
	return false
}

// Dispute names the two artists involved in an artist-dispute event.
type Dispute struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// MinigameState is scratch space owned by the active minigame. Data is opaque
// to everything but the minigame itself.
type MinigameState struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data,omitempty"`
}

// State is the complete persistent simulation state.
type State struct {
	Version int   `json:"version"`
	Day     int   `json:"day"`
	Seed    int64 `json:"seed"`

	Creativity    int `json:"creativity"`
	Passion       int `json:"passion"`
	Relationships int `json:"relationships"`
	Energy        int `json:"energy"`
	Recognition   int `json:"recognition"`

	ActionPoints    int `json:"action_points"`
	MaxActionPoints int `json:"max_action_points"`

	Resources     map[Resource]int      `json:"resources"`
	Artists       []Artist              `json:"artists"`
	MaxArtists    int                   `json:"max_artists"`
	Booths        map[BoothKey]Facility `json:"booths"`
	FestivalLevel int                   `json:"festival_level"`

	Daily DailyActions       `json:"daily_actions"`
	Bonus map[string]float64 `json:"daily_bonus"`

	ScenarioID          string `json:"scenario_id"`
	LastPlayedDate      string `json:"last_played_date"`
	ManualDayAdvances   int    `json:"manual_day_advances"`
	DailyEventTriggered bool   `json:"daily_event_triggered"`
	// EventText is the message rolled by today's daily event.
	EventText string `json:"event_text,omitempty"`

	PendingArtist *Artist        `json:"pending_artist,omitempty"`
	Dispute       *Dispute       `json:"dispute,omitempty"`
	Minigame      *MinigameState `json:"minigame,omitempty"`

	// RNG is the persisted stream position; nil means reseed on load.
	RNG *uint32 `json:"rng_state,omitempty"`
}

// Config seeds a fresh state.
type Config struct {
	Date             string
	Seed             int64
	StartVitals      int
	BaseActionPoints int
	MaxArtists       int
	Resources        map[Resource]int
}

// DefaultArtists is the starting roster.
func DefaultArtists() []Artist {
	return []Artist{
		{ID: "leo", Name: "Leo", Personality: "passionate", Skill: "music", Synergy: 70},
		{ID: "bella", Name: "Bella", Personality: "free_spirit", Skill: "art", Synergy: 60},
	}
}

// New creates a fresh state on day 1.
func New(cfg Config) *State {
	resources := make(map[Resource]int, len(cfg.Resources))
	for k, v := range cfg.Resources {
		resources[k] = v
	}
	booths := make(map[BoothKey]Facility, len(BoothKeys))
	for _, k := range BoothKeys {
		booths[k] = Facility{Durability: DurabilityMax}
	}

	return &State{
		Version:         CurrentVersion,
		Day:             1,
		Seed:            cfg.Seed,
		Creativity:      cfg.StartVitals,
		Passion:         cfg.StartVitals,
		Relationships:   cfg.StartVitals,
		Energy:          cfg.StartVitals,
		Recognition:     cfg.StartVitals,
		ActionPoints:    cfg.BaseActionPoints,
		MaxActionPoints: cfg.BaseActionPoints,
		Resources:       resources,
		Artists:         DefaultArtists(),
		MaxArtists:      cfg.MaxArtists,
		Booths:          booths,
		Bonus:           map[string]float64{},
		ScenarioID:      ScenarioIntro,
		LastPlayedDate:  cfg.Date,
	}
}

// Vital returns the current value of a vital stat.
func (s *State) Vital(stat Stat) int {
	if p := s.vitalRef(stat); p != nil {
		return *p
	}
	return 0
}

func (s *State) vitalRef(stat Stat) *int {
	switch stat {
	case Creativity:
		return &s.Creativity
	case Passion:
		return &s.Passion
	case Relationships:
		return &s.Relationships
	case Energy:
		return &s.Energy
	case Recognition:
		return &s.Recognition
	}
	return nil
}

// Resource returns a resource count; missing resources count as zero.
func (s *State) Resource(r Resource) int {
	return s.Resources[r]
}

// Booth returns the facility for key.
func (s *State) Booth(key BoothKey) Facility {
	return s.Booths[key]
}

// Standing reports whether a booth is built and not worn out.
func (s *State) Standing(key BoothKey) bool {
	b := s.Booths[key]
	return b.Built && b.Durability > 0
}

// ArtistByID returns the index of the artist with id, or -1.
func (s *State) ArtistByID(id string) int {
	for i := range s.Artists {
		if s.Artists[i].ID == id {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether the game has reached an absorbing game-over state.
func (s *State) IsTerminal() bool {
	return strings.HasPrefix(s.ScenarioID, GameOverPrefix)
}

// InMinigame reports whether a minigame currently owns the screen.
func (s *State) InMinigame() bool {
	return s.Minigame != nil && strings.HasPrefix(s.ScenarioID, MinigamePrefix)
}

// BeginDay resets per-day budgets at the start of a daily tick.
func (s *State) BeginDay(baseActionPoints int) {
	s.ActionPoints = baseActionPoints
	s.MaxActionPoints = baseActionPoints
	s.Daily = DailyActions{}
	s.Bonus = map[string]float64{}
	s.DailyEventTriggered = true
}

// AdvanceCalendar moves to the next day when the calendar date changed since
// the last session. It reports whether the day advanced.
func (s *State) AdvanceCalendar(date string) bool {
	if date == s.LastPlayedDate {
		return false
	}
	s.Day++
	s.LastPlayedDate = date
	s.ManualDayAdvances = 0
	s.DailyEventTriggered = false
	return true
}

// AdvanceManually moves to the next day on player request, at most limit
// times per calendar date.
func (s *State) AdvanceManually(date string, limit int) bool {
	if s.ManualDayAdvances >= limit {
		return false
	}
	s.ManualDayAdvances++
	s.Day++
	s.LastPlayedDate = date
	s.DailyEventTriggered = false
	return true
}

// Clone returns a deep copy, safe to hand to presentation code.
func (s *State) Clone() *State {
	c := *s

	c.Resources = make(map[Resource]int, len(s.Resources))
	for k, v := range s.Resources {
		c.Resources[k] = v
	}
	c.Booths = make(map[BoothKey]Facility, len(s.Booths))
	for k, v := range s.Booths {
		c.Booths[k] = v
	}
	c.Bonus = make(map[string]float64, len(s.Bonus))
	for k, v := range s.Bonus {
		c.Bonus[k] = v
	}
	if s.Artists != nil {
		c.Artists = make([]Artist, len(s.Artists))
		for i, a := range s.Artists {
			c.Artists[i] = a.clone()
		}
	}
	if s.Daily.Promoted != nil {
		c.Daily.Promoted = append([]string(nil), s.Daily.Promoted...)
	}
	if s.PendingArtist != nil {
		a := s.PendingArtist.clone()
		c.PendingArtist = &a
	}
	if s.Dispute != nil {
		d := *s.Dispute
		c.Dispute = &d
	}
	if s.Minigame != nil {
		m := MinigameState{ID: s.Minigame.ID}
		if s.Minigame.Data != nil {
			m.Data = append(json.RawMessage(nil), s.Minigame.Data...)
		}
		c.Minigame = &m
	}
	if s.RNG != nil {
		pos := *s.RNG
		c.RNG = &pos
	}
	return &c
}

func (a Artist) clone() Artist {
	if a.LegacyTrust != nil {
		v := *a.LegacyTrust
		a.LegacyTrust = &v
	}
	return a
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
