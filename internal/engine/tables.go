package engine

import (
	"fmt"

	"github.com/talgya/mini-festival/internal/entropy"
	"github.com/talgya/mini-festival/internal/outcome"
	"github.com/talgya/mini-festival/internal/state"
)

func roll(in outcome.Input, base, variance int) int {
	return entropy.InRange(in.Rand, base, variance)
}

var brainstormTable = outcome.MustTable("brainstorm", []outcome.Candidate{
	{
		ID:     "low_energy_clash",
		When:   func(in outcome.Input) bool { return in.State.Energy < 40 },
		Weight: 40,
		Effect: func(in outcome.Input) outcome.Result {
			energy, rec, cre := roll(in, 10, 4), roll(in, 5, 2), roll(in, 5, 2)
			var p state.Patch
			p.AddVital(state.Energy, -energy)
			p.AddVital(state.Recognition, -rec)
			p.AddVital(state.Creativity, -cre)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"Complaints erupted as soon as the brainstorm began. Everyone is too drained to be civil. (-%d energy, -%d recognition, -%d creativity)",
				energy, rec, cre)}
		},
	},
	{
		ID: "constructive",
		When: func(in outcome.Input) bool {
			return in.State.Creativity > 70 && in.State.Relationships > 60
		},
		Weight: 30,
		Effect: func(in outcome.Input) outcome.Result {
			energy, rec, cre := roll(in, 15, 5), roll(in, 10, 3), roll(in, 10, 3)
			var p state.Patch
			p.AddVital(state.Energy, energy)
			p.AddVital(state.Recognition, rec)
			p.AddVital(state.Creativity, cre)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"Strong creativity and good relationships made for a constructive brainstorm! (+%d energy, +%d recognition, +%d creativity)",
				energy, rec, cre)}
		},
	},
	{
		ID: "idea_shortage",
		When: func(in outcome.Input) bool {
			return in.State.Resource(state.Ideas) < len(in.State.Artists)*4
		},
		Weight: 25,
		Effect: func(in outcome.Input) outcome.Result {
			pas, cre := roll(in, 10, 3), roll(in, 5, 2)
			var p state.Patch
			p.AddVital(state.Passion, pas)
			p.AddVital(state.Creativity, cre)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"You talked openly about the idea shortage. Everyone agreed on a leaner plan and trusted your lead. (+%d passion, +%d creativity)",
				pas, cre)}
		},
	},
	{
		ID: "artist_concern",
		When: func(in outcome.Input) bool {
			return firstArtistBelow(in.State, 50) != nil
		},
		Weight: 20,
		Effect: func(in outcome.Input) outcome.Result {
			a := firstArtistBelow(in.State, 50)
			syn, energy, cre := roll(in, 10, 4), roll(in, 5, 2), roll(in, 5, 2)
			var p state.Patch
			p.AddSynergy(a.ID, syn)
			p.AddVital(state.Energy, energy)
			p.AddVital(state.Creativity, cre)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"%s carefully raised a concern during the brainstorm. You listened and promised a fix, and won their trust. (+%d %s synergy, +%d energy, +%d creativity)",
				a.Name, syn, a.Name, energy, cre)}
		},
	},
	{
		ID:     "ordinary",
		Weight: 20,
		Effect: func(in outcome.Input) outcome.Result {
			rel, rec := roll(in, 5, 2), roll(in, 3, 1)
			var p state.Patch
			p.AddVital(state.Relationships, rel)
			p.AddVital(state.Recognition, rec)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"An ordinary brainstorm, but getting everyone in one room to share ideas still mattered. (+%d relationships, +%d recognition)",
				rel, rec)}
		},
	},
	{
		ID: "stalled",
		When: func(in outcome.Input) bool {
			return in.State.Relationships < 40 || in.State.Creativity < 40
		},
		Weight: 25,
		Effect: func(in outcome.Input) outcome.Result {
			energy, rec, cre := roll(in, 5, 2), roll(in, 5, 2), roll(in, 5, 2)
			var p state.Patch
			p.AddVital(state.Energy, -energy)
			p.AddVital(state.Recognition, -rec)
			p.AddVital(state.Creativity, -cre)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"The brainstorm dragged on and only surfaced disagreements. (-%d energy, -%d recognition, -%d creativity)",
				energy, rec, cre)}
		},
	},
})

var scoutTable = outcome.MustTable("scout", []outcome.Candidate{
	{
		ID:     "found_ideas",
		When:   func(in outcome.Input) bool { return in.State.Resource(state.Ideas) < 20 },
		Weight: 30,
		Effect: func(in outcome.Input) outcome.Result {
			n := roll(in, 10, 5)
			var p state.Patch
			p.AddResource(state.Ideas, n)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"Talking with %s sparked fresh ideas! (+%d ideas)", in.Target.Name, n)}
		},
	},
	{
		ID:     "found_participants",
		When:   func(in outcome.Input) bool { return in.State.Resource(state.Participants) < 20 },
		Weight: 25,
		Effect: func(in outcome.Input) outcome.Result {
			n := roll(in, 10, 5)
			var p state.Patch
			p.AddResource(state.Participants, n)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"%s introduced you to people who want to take part! (+%d participants)", in.Target.Name, n)}
		},
	},
	{
		ID:     "new_bonds",
		Weight: 20,
		Effect: func(in outcome.Input) outcome.Result {
			rel, pas := roll(in, 5, 2), roll(in, 5, 2)
			var p state.Patch
			p.AddVital(state.Relationships, rel)
			p.AddVital(state.Passion, pas)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"Time with %s built new bonds and rekindled your passion. (+%d relationships, +%d passion)",
				in.Target.Name, rel, pas)}
		},
	},
	{
		ID:     "lost_track",
		Weight: 25,
		Effect: func(in outcome.Input) outcome.Result {
			ap, energy, rec := roll(in, 2, 1), roll(in, 5, 2), roll(in, 5, 2)
			p := state.Patch{ActionPoints: -ap}
			p.AddVital(state.Energy, -energy)
			p.AddVital(state.Recognition, -rec)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"You got so absorbed in talking with %s that time slipped away. (-%d action points, -%d energy, -%d recognition)",
				in.Target.Name, ap, energy, rec)}
		},
	},
	{
		ID:     "snag",
		Weight: 15,
		Effect: func(in outcome.Input) outcome.Result {
			cre, rel := roll(in, 5, 2), roll(in, 5, 2)
			var p state.Patch
			p.AddVital(state.Creativity, -cre)
			p.AddVital(state.Relationships, -rel)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"An unexpected snag came up while meeting %s. (-%d creativity, -%d relationships)",
				in.Target.Name, cre, rel)}
		},
	},
})

var promoteTable = outcome.MustTable("promote", []outcome.Candidate{
	{
		ID:     "deep_promo",
		When:   func(in outcome.Input) bool { return in.Target.Synergy < 60 },
		Weight: 40,
		Effect: func(in outcome.Input) outcome.Result {
			syn, rec, energy := roll(in, 10, 5), roll(in, 5, 2), roll(in, 5, 2)
			var p state.Patch
			p.AddSynergy(in.Target.ID, syn)
			p.AddVital(state.Recognition, rec)
			p.AddVital(state.Energy, energy)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"A deep promotion push with %s built trust and lifted your energy. (+%d %s synergy, +%d recognition, +%d energy)",
				in.Target.Name, syn, in.Target.Name, rec, energy)}
		},
	},
	{
		ID:     "free_spirit",
		When:   func(in outcome.Input) bool { return in.Target.Personality == "free_spirit" },
		Weight: 20,
		Effect: func(in outcome.Input) outcome.Result {
			cre, pas := roll(in, 10, 3), roll(in, 5, 2)
			var p state.Patch
			p.AddVital(state.Creativity, cre)
			p.AddVital(state.Passion, pas)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"Promoting with free-spirited %s raised your creativity and passion. (+%d creativity, +%d passion)",
				in.Target.Name, cre, pas)}
		},
	},
	{
		ID:     "performance_tip",
		When:   func(in outcome.Input) bool { return in.Target.Skill == "performance" },
		Weight: 15,
		Effect: func(in outcome.Input) outcome.Result {
			n := roll(in, 5, 2)
			var p state.Patch
			p.AddResource(state.Participants, n)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"%s shared tips on promoting performances and drew in more participants. (+%d participants)",
				in.Target.Name, n)}
		},
	},
	{
		ID:     "small_promo",
		Weight: 25,
		Effect: func(in outcome.Input) outcome.Result {
			rel, rec := roll(in, 5, 2), roll(in, 3, 1)
			var p state.Patch
			p.AddVital(state.Relationships, rel)
			p.AddVital(state.Recognition, rec)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"A small promotion with %s made your relationships and recognition a little sturdier. (+%d relationships, +%d recognition)",
				in.Target.Name, rel, rec)}
		},
	},
	{
		ID: "misunderstanding",
		When: func(in outcome.Input) bool {
			return in.State.Energy < 40 || in.Target.Synergy < 40
		},
		Weight: 20,
		Effect: func(in outcome.Input) outcome.Result {
			syn, energy, rec := roll(in, 10, 3), roll(in, 5, 2), roll(in, 5, 2)
			var p state.Patch
			p.AddSynergy(in.Target.ID, -syn)
			p.AddVital(state.Energy, -energy)
			p.AddVital(state.Recognition, -rec)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"A misunderstanding with %s during promotion cost you. (-%d %s synergy, -%d energy, -%d recognition)",
				in.Target.Name, syn, in.Target.Name, energy, rec)}
		},
	},
	{
		ID:     "drawn_out",
		When:   func(in outcome.Input) bool { return in.State.Energy < 30 },
		Weight: 15,
		Effect: func(in outcome.Input) outcome.Result {
			ap, cre := roll(in, 1, 0), roll(in, 5, 2)
			p := state.Patch{ActionPoints: -ap}
			p.AddVital(state.Creativity, -cre)
			return outcome.Result{Patch: p, Message: fmt.Sprintf(
				"Promotion with %s dragged on with nothing to show for it. (-%d action points, -%d creativity)",
				in.Target.Name, ap, cre)}
		},
	},
})

func firstArtistBelow(st *state.State, synergy int) *state.Artist {
	for i := range st.Artists {
		if st.Artists[i].Synergy < synergy {
			return &st.Artists[i]
		}
	}
	return nil
}

const (
	msgAlreadyBrainstormed = "You already brainstormed today. Let the ideas settle until tomorrow."
	msgAlreadyScouted      = "You already spent enough time with the artists today."
	msgNoArtists           = "There are no artists to meet."
)

func (s *Simulation) doBrainstorm() step {
	if s.State.Daily.Brainstormed {
		return note(msgAlreadyBrainstormed)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	res := s.brainstorm.Resolve(s.input(nil))
	res.Patch.Daily.Brainstormed = true
	return charged(res.Patch, res.Message)
}

func (s *Simulation) doScout() step {
	if s.State.Daily.Scouted {
		return note(msgAlreadyScouted)
	}
	if len(s.State.Artists) == 0 {
		return note(msgNoArtists)
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	artist := s.State.Artists[entropy.Pick(s.rng, len(s.State.Artists))]
	res := s.scout.Resolve(s.input(&artist))
	res.Patch.Daily.Scouted = true
	return charged(res.Patch, res.Message)
}

func (s *Simulation) doPromote(artistID string) step {
	i := s.State.ArtistByID(artistID)
	if i < 0 {
		return note("Choose an artist to promote with: artist=<id>.")
	}
	artist := s.State.Artists[i]
	if s.State.Daily.HasPromoted(artist.ID) {
		return note(fmt.Sprintf("You already promoted the festival with %s today.", artist.Name))
	}
	if !s.canSpend() {
		return note(msgNoActionPoints)
	}
	res := s.promote.Resolve(s.input(&artist))
	res.Patch.Daily.Promoted = []string{artist.ID}
	return charged(res.Patch, res.Message)
}
