// Package player holds per-player state inside a game.
package player

// AbilityInstance tracks one player's (or one faction's) hold on an
// ability. The descriptor itself lives in the ability registry; only
// usage is state.
type AbilityInstance struct {
	AbilityID   string `json:"ability_id"`
	UsesLeft    *int   `json:"uses_left,omitempty"`
	LastUsedDay int    `json:"last_used_day,omitempty"`
	Active      bool   `json:"active"`
}

// Limited reports whether the instance has a bounded use counter.
func (a AbilityInstance) Limited() bool {
	return a.UsesLeft != nil
}

// Exhausted reports whether a limited instance has no uses left.
func (a AbilityInstance) Exhausted() bool {
	return a.UsesLeft != nil && *a.UsesLeft <= 0
}

// Player is one seat in a game. Death never removes a player; it only
// accumulates causes, so history survives in place.
type Player struct {
	Name          string            `json:"name"`
	RoleName      string            `json:"role"`
	AlignmentName string            `json:"alignment"`
	Modifiers     []string          `json:"modifiers,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Abilities     []AbilityInstance `json:"abilities,omitempty"`
	DeathCauses   []string          `json:"death_causes,omitempty"`
}

// Alive reports whether the player has no recorded death.
func (p Player) Alive() bool {
	return len(p.DeathCauses) == 0
}

// HasTag reports whether the player carries the tag.
func (p Player) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Ability returns the player's instance of the ability id.
func (p Player) Ability(id string) (AbilityInstance, bool) {
	for _, inst := range p.Abilities {
		if inst.AbilityID == id {
			return inst, true
		}
	}
	return AbilityInstance{}, false
}

// ConsumeAbility records one use of the ability on the given day,
// decrementing the counter when the instance is limited. Unknown ids
// are ignored.
func (p *Player) ConsumeAbility(id string, day int) {
	for i := range p.Abilities {
		if p.Abilities[i].AbilityID != id {
			continue
		}
		if p.Abilities[i].UsesLeft != nil {
			left := *p.Abilities[i].UsesLeft - 1
			if left < 0 {
				left = 0
			}
			p.Abilities[i].UsesLeft = &left
		}
		p.Abilities[i].LastUsedDay = day
		return
	}
}

// Die appends a death cause. Repeated causes accumulate; the first one
// is what killed the player.
func (p *Player) Die(cause string) {
	p.DeathCauses = append(p.DeathCauses, cause)
}

// Clone returns a deep copy of the player.
func (p Player) Clone() Player {
	out := p
	if p.Modifiers != nil {
		out.Modifiers = append([]string(nil), p.Modifiers...)
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	if p.DeathCauses != nil {
		out.DeathCauses = append([]string(nil), p.DeathCauses...)
	}
	if p.Abilities != nil {
		out.Abilities = make([]AbilityInstance, len(p.Abilities))
		for i, inst := range p.Abilities {
			copied := inst
			if inst.UsesLeft != nil {
				left := *inst.UsesLeft
				copied.UsesLeft = &left
			}
			out.Abilities[i] = copied
		}
	}
	return out
}
