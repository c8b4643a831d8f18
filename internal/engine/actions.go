package engine

import (
	"context"
	"log/slog"

	"github.com/talgya/mini-festival/internal/outcome"
	"github.com/talgya/mini-festival/internal/state"
)

// Action is the closed set of player intents.
type Action int

const (
	ActionUnknown Action = iota
	ActionBrainstorm
	ActionScout
	ActionPromote
	ActionGatherIdeas
	ActionGatherParticipants
	ActionGatherFunds
	ActionBuild
	ActionMaintain
	ActionStreetPerformance
	ActionExploreHiddenPlace
	ActionHandleDispute
	ActionMediateDispute
	ActionIgnoreEvent
	ActionSeekInspiration
	ActionWaitForInspiration
	ActionReconnect
	ActionPersonalTime
	ActionWelcomeArtist
	ActionObserveArtist
	ActionRejectArtist
	ActionAcceptPatronage
	ActionDeclinePatronage
	ActionShowGathering
	ActionShowBooths
	ActionShowSurprises
	ActionReturnToIntro
	ActionPlayMinigame
	ActionMinigameInput
	ActionMinigameEnd
	ActionNextDay
	ActionReset

	actionCount
)

var actionNames = [actionCount]string{
	ActionUnknown:            "",
	ActionBrainstorm:         "brainstorm",
	ActionScout:              "scout",
	ActionPromote:            "promote",
	ActionGatherIdeas:        "gather_ideas",
	ActionGatherParticipants: "gather_participants",
	ActionGatherFunds:        "gather_funds",
	ActionBuild:              "build",
	ActionMaintain:           "maintain",
	ActionStreetPerformance:  "street_performance",
	ActionExploreHiddenPlace: "explore_hidden_place",
	ActionHandleDispute:      "handle_artist_dispute",
	ActionMediateDispute:     "mediate_artist_dispute",
	ActionIgnoreEvent:        "ignore_event",
	ActionSeekInspiration:    "seek_inspiration",
	ActionWaitForInspiration: "wait_for_inspiration",
	ActionReconnect:          "reconnect_with_artists",
	ActionPersonalTime:       "take_personal_time",
	ActionWelcomeArtist:      "welcome_new_artist",
	ActionObserveArtist:      "observe_artist",
	ActionRejectArtist:       "reject_artist",
	ActionAcceptPatronage:    "accept_patronage",
	ActionDeclinePatronage:   "decline_patronage",
	ActionShowGathering:      "show_gathering",
	ActionShowBooths:         "show_booths",
	ActionShowSurprises:      "show_surprises",
	ActionReturnToIntro:      "return_to_intro",
	ActionPlayMinigame:       "play_minigame",
	ActionMinigameInput:      "minigame_input",
	ActionMinigameEnd:        "minigame_end",
	ActionNextDay:            "next_day",
	ActionReset:              "reset",
}

var actionsByName = func() map[string]Action {
	m := make(map[string]Action, actionCount)
	for a := ActionUnknown + 1; a < actionCount; a++ {
		m[actionNames[a]] = a
	}
	return m
}()

func (a Action) String() string {
	if a <= ActionUnknown || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction maps an action ID to its Action.
func ParseAction(id string) (Action, bool) {
	a, ok := actionsByName[id]
	return a, ok
}

// Actions lists every known action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, actionCount-1)
	for a := ActionUnknown + 1; a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}

// ActionNames lists every known action ID.
func ActionNames() []string {
	out := make([]string, 0, actionCount-1)
	for _, a := range Actions() {
		out = append(out, a.String())
	}
	return out
}

// Intent is a player request: an action ID plus string parameters.
type Intent struct {
	Action string
	Params map[string]string
}

// Result is what the player sees after an intent. Changed is false when the
// state was left untouched.
type Result struct {
	Message string
	Changed bool
}

// step is the outcome of one handler before it is committed.
type step struct {
	patch   state.Patch
	message string
	changed bool
}

func note(msg string) step { return step{message: msg} }

func commit(p state.Patch, msg string) step {
	return step{patch: p, message: msg, changed: true}
}

// charged is commit with the one action point every guarded action costs.
func charged(p state.Patch, msg string) step {
	p.ActionPoints--
	return commit(p, msg)
}

const (
	msgNoActionPoints = "Not enough action points."
	msgUnavailable    = "That choice isn't available right now."
	msgFestivalOver   = "The festival is over. Reset to start a new one."
	msgInMinigame     = "Finish today's performance first."
)

// Dispatch runs one intent to completion. Unknown actions are ignored. The
// returned error only reports persistence failures; the in-memory state has
// already been updated when it is non-nil.
func (s *Simulation) Dispatch(ctx context.Context, in Intent) (Result, error) {
	act, ok := ParseAction(in.Action)
	if !ok {
		slog.Debug("ignoring unknown action", "action", in.Action)
		return Result{}, nil
	}

	switch {
	case act == ActionReset:
		return s.reset(ctx, in.Params["confirm"] == "yes")
	case s.State.IsTerminal():
		return Result{Message: msgFestivalOver}, nil
	case s.State.InMinigame() && act != ActionMinigameInput && act != ActionMinigameEnd:
		return Result{Message: msgInMinigame}, nil
	case act == ActionNextDay:
		return s.NextDay(ctx)
	}

	st := s.handle(act, in.Params)
	if !st.changed {
		return Result{Message: st.message}, nil
	}

	s.State.Apply(st.patch)
	slog.Debug("action applied",
		"action", act.String(),
		"day", s.State.Day,
		"ap", s.State.ActionPoints,
		"scenario", s.State.ScenarioID,
	)
	res := Result{Message: st.message, Changed: true}
	if err := s.save(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// handle is the total dispatcher. Handlers read state and build a patch;
// none of them mutate state or call another action.
func (s *Simulation) handle(act Action, params map[string]string) step {
	switch act {
	case ActionBrainstorm:
		return s.doBrainstorm()
	case ActionScout:
		return s.doScout()
	case ActionPromote:
		return s.doPromote(params["artist"])
	case ActionGatherIdeas:
		return s.doGather(state.Ideas)
	case ActionGatherParticipants:
		return s.doGather(state.Participants)
	case ActionGatherFunds:
		return s.doGather(state.Funds)
	case ActionBuild:
		return s.doBuild(params["booth"])
	case ActionMaintain:
		return s.doMaintain(params["booth"])
	case ActionStreetPerformance:
		return s.doStreetPerformance()
	case ActionExploreHiddenPlace:
		return s.doExploreHiddenPlace()
	case ActionHandleDispute:
		return s.doHandleDispute(params["artist"])
	case ActionMediateDispute:
		return s.doMediateDispute()
	case ActionIgnoreEvent:
		return s.doIgnoreDispute()
	case ActionSeekInspiration:
		return s.doSeekInspiration()
	case ActionWaitForInspiration:
		return s.doWaitForInspiration()
	case ActionReconnect:
		return s.doReconnect()
	case ActionPersonalTime:
		return s.doPersonalTime()
	case ActionWelcomeArtist:
		return s.doWelcomeArtist()
	case ActionObserveArtist:
		return s.doObserveArtist()
	case ActionRejectArtist:
		return s.doRejectArtist()
	case ActionAcceptPatronage:
		return s.doAcceptPatronage()
	case ActionDeclinePatronage:
		return s.doDeclinePatronage()
	case ActionShowGathering:
		return navigate(ScenarioGathering)
	case ActionShowBooths:
		return navigate(ScenarioBooths)
	case ActionShowSurprises:
		return navigate(ScenarioSurprises)
	case ActionReturnToIntro:
		return navigate(state.ScenarioIntro)
	case ActionPlayMinigame:
		return s.doPlayMinigame()
	case ActionMinigameInput:
		return s.doMinigameInput(params["value"])
	case ActionMinigameEnd:
		return s.doMinigameEnd()
	case ActionNextDay, ActionReset, ActionUnknown, actionCount:
		// Handled by Dispatch before the switch.
		return note("")
	}
	return note("")
}

func navigate(scenario string) step {
	return commit(state.Patch{Scenario: scenario}, "")
}

// canSpend is the shared action point guard. It runs after parameter
// validation and before any random draw.
func (s *Simulation) canSpend() bool {
	return s.State.ActionPoints > 0
}

func (s *Simulation) input(target *state.Artist) outcome.Input {
	return outcome.Input{State: s.State, Target: target, Rand: s.rng}
}
