package state

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Decode unmarshals a saved state on top of defaults, so fields absent from
// older saves keep their default value, then runs Migrate. It returns the
// names of backfilled fields for logging.
func Decode(data []byte, defaults *State) (*State, []string, error) {
	st := defaults.Clone()
	// Slices are replaced wholesale by encoding/json; an empty roster must be
	// detectable after decoding.
	st.Artists = nil
	if err := json.Unmarshal(data, st); err != nil {
		return nil, nil, fmt.Errorf("decode state: %w", err)
	}
	return st, Migrate(st, defaults), nil
}

// Migrate backfills fields an older save did not carry. It never removes data.
func Migrate(st, defaults *State) []string {
	var filled []string
	note := func(field string) { filled = append(filled, field) }

	if st.Day < 1 {
		st.Day = 1
		note("day")
	}
	if st.MaxActionPoints <= 0 {
		st.MaxActionPoints = defaults.MaxActionPoints
		note("max_action_points")
	}
	st.ActionPoints = clamp(st.ActionPoints, 0, st.MaxActionPoints)
	if st.MaxArtists <= 0 {
		st.MaxArtists = defaults.MaxArtists
		note("max_artists")
	}

	for _, stat := range Vitals {
		ref := st.vitalRef(stat)
		*ref = clamp(*ref, VitalMin, VitalMax)
	}

	if len(st.Artists) == 0 {
		st.Artists = DefaultArtists()
		note("artists")
	}
	for i := range st.Artists {
		a := &st.Artists[i]
		if a.LegacyTrust != nil {
			if a.Synergy == 0 {
				a.Synergy = *a.LegacyTrust
			}
			a.LegacyTrust = nil
			note("artists.synergy")
		}
		a.Synergy = clamp(a.Synergy, 0, SynergyMax)
		if a.ID == "" {
			a.ID = strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(a.Name), "_"), "_")
			if a.ID == "" {
				a.ID = fmt.Sprintf("artist_%d", i+1)
			}
			note("artists.id")
		}
	}

	if st.Resources == nil {
		st.Resources = map[Resource]int{}
		note("resources")
	}
	for k, v := range defaults.Resources {
		if _, ok := st.Resources[k]; !ok {
			st.Resources[k] = v
		}
	}

	if st.Booths == nil {
		st.Booths = map[BoothKey]Facility{}
		note("booths")
	}
	for _, k := range BoothKeys {
		if _, ok := st.Booths[k]; !ok {
			st.Booths[k] = Facility{Durability: DurabilityMax}
		}
	}

	if st.Bonus == nil {
		st.Bonus = map[string]float64{}
	}
	if st.ScenarioID == "" {
		st.ScenarioID = ScenarioIntro
		note("scenario_id")
	}
	if st.LastPlayedDate == "" {
		st.LastPlayedDate = defaults.LastPlayedDate
		note("last_played_date")
	}
	// A minigame screen without scratch state cannot be resumed.
	if strings.HasPrefix(st.ScenarioID, MinigamePrefix) && st.Minigame == nil {
		st.ScenarioID = ScenarioIntro
		note("minigame")
	}

	if st.Version < CurrentVersion {
		st.Version = CurrentVersion
	}
	return filled
}
