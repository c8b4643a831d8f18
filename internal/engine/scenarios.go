package engine

import (
	"fmt"
	"strings"

	"github.com/talgya/mini-festival/internal/minigame"
	"github.com/talgya/mini-festival/internal/state"
)

// Menu scenarios reachable from the intro screen.
const (
	ScenarioGathering       = "gathering_menu"
	ScenarioBooths          = "booth_menu"
	ScenarioSurprises       = "surprise_menu"
	ScenarioDisputeResolved = "dispute_resolved"
)

// Choice is one selectable action on a screen.
type Choice struct {
	Label  string
	Action string
	Params map[string]string
}

// Intent converts the choice into a dispatchable intent.
func (c Choice) Intent() Intent {
	return Intent{Action: c.Action, Params: c.Params}
}

// Screen is the presentation of the current scenario.
type Screen struct {
	ID      string
	Text    string
	Choices []Choice
}

var gameOverText = map[string]string{
	state.GameOverPrefix + string(state.Creativity):    "Creativity ran dry. No new ideas are coming and the festival has lost its spark.",
	state.GameOverPrefix + string(state.Passion):       "Your passion burned out. Nothing is left to drive the festival forward.",
	state.GameOverPrefix + string(state.Relationships): "Your relationships with the artists collapsed. Nobody wants to work with you any more.",
	state.GameOverPrefix + string(state.Energy):        "Your energy is gone. You burned out.",
	state.GameOverPrefix + string(state.Recognition):   "The festival faded from memory. Nobody knows your name.",
	gameOverResources: "The festival's ideas are exhausted. It can't go on.",
}

var staticScreens = map[string]Screen{
	ScenarioGathering: {
		Text: "Which resource do you want to gather?",
		Choices: []Choice{
			{Label: "Come up with ideas", Action: "gather_ideas"},
			{Label: "Recruit participants", Action: "gather_participants"},
			{Label: "Raise funds", Action: "gather_funds"},
			{Label: "Back", Action: "return_to_intro"},
		},
	},
	ScenarioSurprises: {
		Text: "Which surprise do you want to try?",
		Choices: []Choice{
			{Label: "Street performance (1 action point)", Action: "street_performance"},
			{Label: "Explore a hidden place (1 action point)", Action: "explore_hidden_place"},
			{Label: "Back", Action: "return_to_intro"},
		},
	},
	ScenarioDisputeResolved: {
		Text:    "The dispute is settled for now.",
		Choices: []Choice{{Label: "OK", Action: "return_to_intro"}},
	},
	EventScenario(EventAnonymousPatron): {
		Choices: []Choice{
			{Label: "Accept the offer", Action: "accept_patronage"},
			{Label: "Decline the offer", Action: "decline_patronage"},
		},
	},
	EventScenario(EventInspirationBlock): {
		Choices: []Choice{
			{Label: "Look for new stimulation (2 action points)", Action: "seek_inspiration"},
			{Label: "Rest and wait", Action: "wait_for_inspiration"},
		},
	},
	EventScenario(EventRelationshipCrisis): {
		Choices: []Choice{
			{Label: "Reach out to the artists (2 action points)", Action: "reconnect_with_artists"},
			{Label: "Take some time alone", Action: "take_personal_time"},
		},
	},
}

var acknowledge = []Choice{{Label: "OK", Action: "return_to_intro"}}

// Screen renders the current scenario with its available choices.
func (s *Simulation) Screen() Screen {
	st := s.State
	id := st.ScenarioID
	scr := Screen{ID: id}

	switch {
	case st.IsTerminal():
		scr.Text = gameOverText[id]
		scr.Choices = []Choice{{Label: "Start a new festival", Action: "reset", Params: map[string]string{"confirm": "yes"}}}
	case st.InMinigame():
		scr.Text, scr.Choices = s.minigameScreen()
	case id == ScenarioBooths:
		scr.Text = "Which booth do you want to work on?"
		scr.Choices = s.boothChoices()
	case id == EventScenario(EventArtistDispute) && st.Dispute != nil:
		scr.Text = s.eventText()
		scr.Choices = s.disputeChoices()
	case id == EventScenario(EventNewArtist) && st.PendingArtist != nil:
		a := st.PendingArtist
		scr.Text = fmt.Sprintf("%s (%s, %s) wants to join the festival. Roster: %d / %d.",
			a.Name, personalityLabel(a.Personality), a.Skill, len(st.Artists), st.MaxArtists)
		scr.Choices = []Choice{
			{Label: "Sign them up", Action: "welcome_new_artist"},
			{Label: "Watch them a little longer", Action: "observe_artist"},
			{Label: "Politely decline", Action: "reject_artist"},
		}
	case strings.HasPrefix(id, eventScenarioPrefix):
		scr.Text = s.eventText()
		if static, ok := staticScreens[id]; ok {
			scr.Choices = static.Choices
		} else {
			scr.Choices = acknowledge
		}
	default:
		if static, ok := staticScreens[id]; ok {
			scr.Text, scr.Choices = static.Text, static.Choices
			break
		}
		scr.ID = state.ScenarioIntro
		scr.Text = "What will you do for the festival today?"
		scr.Choices = s.introChoices()
	}
	return scr
}

// eventText is the message rolled by today's tick. It is saved with the
// state so a restart mid-day shows the same screen.
func (s *Simulation) eventText() string {
	if s.State.EventText != "" {
		return s.State.EventText
	}
	return "Something happened at the festival today."
}

func (s *Simulation) introChoices() []Choice {
	st := s.State
	choices := []Choice{
		{Label: "Brainstorm", Action: "brainstorm"},
		{Label: "Spend time with the artists", Action: "scout"},
	}
	for _, a := range st.Artists {
		if st.Daily.HasPromoted(a.ID) {
			continue
		}
		choices = append(choices, Choice{
			Label:  "Promote the festival with " + a.Name,
			Action: "promote",
			Params: map[string]string{"artist": a.ID},
		})
	}
	return append(choices,
		Choice{Label: "Gather resources", Action: "show_gathering"},
		Choice{Label: "Manage booths", Action: "show_booths"},
		Choice{Label: "Try a surprise", Action: "show_surprises"},
		Choice{Label: "Today's performance: " + minigame.ForDay(st.Day).Name(), Action: "play_minigame"},
		Choice{Label: "Skip to the next day", Action: "next_day"},
	)
}

// boothChoices lists build options for unbuilt booths whose requirement is
// met, then repair options for damaged ones.
func (s *Simulation) boothChoices() []Choice {
	st := s.State
	var choices []Choice
	for _, key := range state.BoothKeys {
		recipe, ok := s.Tuning.Booths[key]
		if !ok || st.Booth(key).Built {
			continue
		}
		if recipe.Requires != "" && !st.Standing(recipe.Requires) {
			continue
		}
		choices = append(choices, Choice{
			Label:  fmt.Sprintf("Build the %s (%s)", BoothName(key), formatCost(recipe.Cost)),
			Action: "build",
			Params: map[string]string{"booth": string(key)},
		})
	}
	for _, key := range state.BoothKeys {
		b := st.Booth(key)
		if !b.Built || b.Durability >= state.DurabilityMax {
			continue
		}
		choices = append(choices, Choice{
			Label:  fmt.Sprintf("Repair the %s, durability %d (%s)", BoothName(key), b.Durability, formatCost(s.Tuning.MaintainCost)),
			Action: "maintain",
			Params: map[string]string{"booth": string(key)},
		})
	}
	return append(choices, Choice{Label: "Back", Action: "return_to_intro"})
}

func (s *Simulation) disputeChoices() []Choice {
	d := s.State.Dispute
	return []Choice{
		{Label: "Hear " + s.artistName(d.First) + " out first", Action: "handle_artist_dispute", Params: map[string]string{"artist": d.First}},
		{Label: "Hear " + s.artistName(d.Second) + " out first", Action: "handle_artist_dispute", Params: map[string]string{"artist": d.Second}},
		{Label: "Bring them together and mediate", Action: "mediate_artist_dispute"},
		{Label: "Stay out of it", Action: "ignore_event"},
	}
}
