package state

// Patch is a delta against State. Each field documents whether it merges
// (added per key) or replaces. A zero Patch changes nothing.
type Patch struct {
	// Vitals are added per stat, then clamped to [VitalMin, VitalMax].
	Vitals map[Stat]int
	// Resources are added per resource. No clamping.
	Resources map[Resource]int

	// MaxActionPoints is added first (floor 0), then RefillActionPoints sets
	// the budget to the new maximum, then ActionPoints is added. The budget
	// is always clamped to [0, MaxActionPoints].
	MaxActionPoints    int
	RefillActionPoints bool
	ActionPoints       int

	FestivalLevel int
	// Bonus is added per key.
	Bonus map[string]float64

	// Recruit appends an artist when there is a free slot and the ID is new.
	Recruit *Artist
	// Synergy is added per artist ID, clamped to [0, SynergyMax].
	Synergy map[string]int

	Booths map[BoothKey]BoothChange

	// Daily flags are only ever set, never cleared; promoted IDs are unioned.
	Daily DailyActions

	// Scenario replaces the current scenario when non-empty.
	Scenario string

	StageArtist   *Artist
	ClearPending  bool
	SetDispute    *Dispute
	ClearDispute  bool
	Minigame      *MinigameState
	ClearMinigame bool
}

// BoothChange is a per-booth command. Build runs first, then Repair, then Decay.
type BoothChange struct {
	Build  bool
	Repair bool
	// Decay lowers durability; reaching zero demolishes the booth.
	Decay int
}

// AddVital records a vital delta on p.
func (p *Patch) AddVital(stat Stat, delta int) {
	if p.Vitals == nil {
		p.Vitals = map[Stat]int{}
	}
	p.Vitals[stat] += delta
}

// AddResource records a resource delta on p.
func (p *Patch) AddResource(r Resource, delta int) {
	if p.Resources == nil {
		p.Resources = map[Resource]int{}
	}
	p.Resources[r] += delta
}

// AddSynergy records a synergy delta for one artist on p.
func (p *Patch) AddSynergy(id string, delta int) {
	if p.Synergy == nil {
		p.Synergy = map[string]int{}
	}
	p.Synergy[id] += delta
}

// ChangeBooth records a booth command on p, merging with any existing one.
func (p *Patch) ChangeBooth(key BoothKey, c BoothChange) {
	if p.Booths == nil {
		p.Booths = map[BoothKey]BoothChange{}
	}
	p.Booths[key] = p.Booths[key].merge(c)
}

func (c BoothChange) merge(o BoothChange) BoothChange {
	return BoothChange{
		Build:  c.Build || o.Build,
		Repair: c.Repair || o.Repair,
		Decay:  c.Decay + o.Decay,
	}
}

// Merge combines two patches into one. Additive fields are summed, flags are
// OR-ed, and replacing fields take q's value when q sets them.
func Merge(p, q Patch) Patch {
	out := Patch{
		MaxActionPoints:    p.MaxActionPoints + q.MaxActionPoints,
		RefillActionPoints: p.RefillActionPoints || q.RefillActionPoints,
		ActionPoints:       p.ActionPoints + q.ActionPoints,
		FestivalLevel:      p.FestivalLevel + q.FestivalLevel,
		Recruit:            p.Recruit,
		Scenario:           p.Scenario,
		StageArtist:        p.StageArtist,
		ClearPending:       p.ClearPending || q.ClearPending,
		SetDispute:         p.SetDispute,
		ClearDispute:       p.ClearDispute || q.ClearDispute,
		Minigame:           p.Minigame,
		ClearMinigame:      p.ClearMinigame || q.ClearMinigame,
	}
	for _, src := range []Patch{p, q} {
		for k, v := range src.Vitals {
			out.AddVital(k, v)
		}
		for k, v := range src.Resources {
			out.AddResource(k, v)
		}
		for k, v := range src.Synergy {
			out.AddSynergy(k, v)
		}
		for k, v := range src.Booths {
			out.ChangeBooth(k, v)
		}
		for k, v := range src.Bonus {
			if out.Bonus == nil {
				out.Bonus = map[string]float64{}
			}
			out.Bonus[k] += v
		}
		out.Daily.Brainstormed = out.Daily.Brainstormed || src.Daily.Brainstormed
		out.Daily.Scouted = out.Daily.Scouted || src.Daily.Scouted
		out.Daily.MinigamePlayed = out.Daily.MinigamePlayed || src.Daily.MinigamePlayed
		for _, id := range src.Daily.Promoted {
			if !out.Daily.HasPromoted(id) {
				out.Daily.Promoted = append(out.Daily.Promoted, id)
			}
		}
	}
	if q.Recruit != nil {
		out.Recruit = q.Recruit
	}
	if q.Scenario != "" {
		out.Scenario = q.Scenario
	}
	if q.StageArtist != nil {
		out.StageArtist = q.StageArtist
	}
	if q.SetDispute != nil {
		out.SetDispute = q.SetDispute
	}
	if q.Minigame != nil {
		out.Minigame = q.Minigame
	}
	return out
}

// Apply merges p into s. The patch is fully built before Apply is called, so
// s is never observed half-updated.
func (s *State) Apply(p Patch) {
	s.MaxActionPoints += p.MaxActionPoints
	if s.MaxActionPoints < 0 {
		s.MaxActionPoints = 0
	}
	if p.RefillActionPoints {
		s.ActionPoints = s.MaxActionPoints
	}
	s.ActionPoints = clamp(s.ActionPoints+p.ActionPoints, 0, s.MaxActionPoints)

	for stat, d := range p.Vitals {
		if ref := s.vitalRef(stat); ref != nil {
			*ref = clamp(*ref+d, VitalMin, VitalMax)
		}
	}

	if len(p.Resources) > 0 && s.Resources == nil {
		s.Resources = map[Resource]int{}
	}
	for r, d := range p.Resources {
		s.Resources[r] += d
	}

	s.FestivalLevel += p.FestivalLevel

	if len(p.Bonus) > 0 && s.Bonus == nil {
		s.Bonus = map[string]float64{}
	}
	for k, d := range p.Bonus {
		s.Bonus[k] += d
	}

	if p.Recruit != nil && len(s.Artists) < s.MaxArtists && s.ArtistByID(p.Recruit.ID) < 0 {
		a := p.Recruit.clone()
		a.Synergy = clamp(a.Synergy, 0, SynergyMax)
		s.Artists = append(s.Artists, a)
	}
	for id, d := range p.Synergy {
		if i := s.ArtistByID(id); i >= 0 {
			s.Artists[i].Synergy = clamp(s.Artists[i].Synergy+d, 0, SynergyMax)
		}
	}

	for key, c := range p.Booths {
		b, ok := s.Booths[key]
		if !ok {
			continue
		}
		if c.Build {
			b.Built = true
			b.Durability = DurabilityMax
		}
		if c.Repair {
			b.Durability = DurabilityMax
		}
		if c.Decay != 0 && b.Built {
			b.Durability -= c.Decay
			if b.Durability <= 0 {
				b.Durability = 0
				b.Built = false
			}
		}
		s.Booths[key] = b
	}

	s.Daily.Brainstormed = s.Daily.Brainstormed || p.Daily.Brainstormed
	s.Daily.Scouted = s.Daily.Scouted || p.Daily.Scouted
	s.Daily.MinigamePlayed = s.Daily.MinigamePlayed || p.Daily.MinigamePlayed
	for _, id := range p.Daily.Promoted {
		if !s.Daily.HasPromoted(id) {
			s.Daily.Promoted = append(s.Daily.Promoted, id)
		}
	}

	if p.ClearPending {
		s.PendingArtist = nil
	}
	if p.StageArtist != nil {
		a := p.StageArtist.clone()
		s.PendingArtist = &a
	}
	if p.ClearDispute {
		s.Dispute = nil
	}
	if p.SetDispute != nil {
		d := *p.SetDispute
		s.Dispute = &d
	}
	if p.ClearMinigame {
		s.Minigame = nil
	}
	if p.Minigame != nil {
		m := *p.Minigame
		s.Minigame = &m
	}

	if p.Scenario != "" {
		s.ScenarioID = p.Scenario
	}
}
