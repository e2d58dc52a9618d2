package game

import (
	"fmt"
	"sort"
	"time"

	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
	"github.com/louisbranch/smalltown/internal/services/game/domain/ability"
	"github.com/louisbranch/smalltown/internal/services/game/domain/chat"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/knowledge"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
	"github.com/louisbranch/smalltown/internal/services/game/domain/player"
	"github.com/louisbranch/smalltown/internal/services/game/domain/role"
)

// Viewer identifies who is looking at a game. The zero value is an
// outsider who sees only public information.
type Viewer struct {
	Moderator bool
	Player    string
}

// PlayerOverview is one seat as a viewer is allowed to see it. Role and
// alignment stay empty until the viewer is entitled to them.
type PlayerOverview struct {
	Name        string   `json:"name"`
	Alive       bool     `json:"alive"`
	Role        string   `json:"role,omitempty"`
	Alignment   string   `json:"alignment,omitempty"`
	Modifiers   []string `json:"modifiers,omitempty"`
	DeathCauses []string `json:"death_causes,omitempty"`
}

// Overview is the viewer-gated summary of a game.
type Overview struct {
	Name             string           `json:"name"`
	Phase            phase.Phase      `json:"phase"`
	Resolved         bool             `json:"resolved"`
	WinningAlignment string           `json:"winning_alignment,omitempty"`
	Players          []PlayerOverview `json:"players"`
	// Knowledge is everything the viewing player has learned, keyed by
	// subject. Empty for moderators, who see seats directly.
	Knowledge map[string]knowledge.Fact `json:"knowledge,omitempty"`
}

// BuildOverview assembles the summary a viewer may see. Seats disclose
// role and alignment to the moderator, to their own player, on death,
// after the game resolves, and piecewise as the viewer learns facts.
func BuildOverview(state State, viewer Viewer) Overview {
	out := Overview{
		Name:             state.Name,
		Phase:            state.Phase,
		Resolved:         state.Resolved,
		WinningAlignment: state.WinningAlignment,
		Players:          make([]PlayerOverview, 0, len(state.PlayerOrder)),
	}
	for _, name := range state.PlayerOrder {
		p := state.Players[name]
		po := PlayerOverview{
			Name:        name,
			Alive:       p.Alive(),
			DeathCauses: append([]string(nil), p.DeathCauses...),
		}
		switch {
		case viewer.Moderator || viewer.Player == name || !p.Alive() || state.Resolved:
			po.Role = p.RoleName
			po.Alignment = p.AlignmentName
			po.Modifiers = append([]string(nil), p.Modifiers...)
		default:
			if fact, ok := state.Knowledge.Knows(viewer.Player, name); ok {
				po.Role = fact.RoleName
				po.Alignment = fact.Alignment
			}
		}
		out.Players = append(out.Players, po)
	}
	if !viewer.Moderator && viewer.Player != "" {
		for _, subject := range state.Knowledge.Subjects(viewer.Player) {
			fact, _ := state.Knowledge.Knows(viewer.Player, subject)
			if out.Knowledge == nil {
				out.Knowledge = make(map[string]knowledge.Fact)
			}
			out.Knowledge[subject] = fact
		}
	}
	return out
}

// AbilityStatus describes one ability as its holder sees it.
type AbilityStatus struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Kind        ability.Kind `json:"kind"`
	Phase       phase.Kind   `json:"phase"`
	Immediate   bool         `json:"immediate,omitempty"`
	TargetCount int          `json:"target_count"`
	UsesLeft    *int         `json:"uses_left,omitempty"`
	Active      bool         `json:"active"`
	Queued      bool         `json:"queued"`
	// QueuedTargets echoes the pending invocation's targets.
	QueuedTargets []string `json:"queued_targets,omitempty"`
	// UsedBy names the faction member holding the queue slot of a
	// shared ability.
	UsedBy string `json:"used_by,omitempty"`
	// EligibleTargets lists the players a single-target ability may
	// legally name right now.
	EligibleTargets []string `json:"eligible_targets,omitempty"`
}

// BuildAbilityList returns the abilities on one seat: the role's
// actions and passives plus the faction's shared abilities.
func BuildAbilityList(set *role.Set, state State, playerName string) ([]AbilityStatus, error) {
	p, ok := state.Players[playerName]
	if !ok {
		return nil, apperrors.WithMetadata(
			apperrors.CodeUnknownPlayer,
			fmt.Sprintf("unknown player %s", playerName),
			map[string]string{"Player": playerName},
		)
	}

	view := NewPass(set, state, command.Command{}, time.Time{})

	var out []AbilityStatus
	appendStatus := func(desc ability.Descriptor) {
		effective := desc
		if desc.Kind != ability.KindShared {
			if decorated, err := set.EffectiveDescriptor(desc, p.Modifiers); err == nil {
				effective = decorated
			}
		}
		inst, _ := abilityInstance(state, p, desc)
		status := AbilityStatus{
			ID:          desc.ID,
			Name:        effective.Name,
			Description: effective.Description,
			Kind:        desc.Kind,
			Phase:       effective.Phase,
			Immediate:   effective.Immediate,
			TargetCount: effective.TargetCount,
			Active:      inst.Active,
		}
		if inst.UsesLeft != nil {
			left := *inst.UsesLeft
			status.UsesLeft = &left
		}
		shared := desc.Kind == ability.KindShared
		if entry, queued := state.QueueEntry(desc.ID, playerName, shared); queued {
			status.Queued = true
			status.QueuedTargets = append([]string(nil), entry.Targets...)
			if shared {
				status.UsedBy = entry.User
			}
		}
		if desc.Kind != ability.KindPassive && effective.TargetCount == 1 {
			status.EligibleTargets = eligibleTargets(view, state, effective, playerName, inst)
		}
		out = append(out, status)
	}

	if r, ok := set.Role(p.RoleName); ok {
		for _, desc := range r.Abilities {
			appendStatus(desc)
		}
		for _, desc := range r.Passives {
			appendStatus(desc)
		}
	}
	if a, ok := set.Alignment(p.AlignmentName); ok {
		for _, desc := range a.Shared {
			appendStatus(desc)
		}
	}
	return out, nil
}

// eligibleTargets filters living players through the ability's own
// queue-time checks. An ability that cannot be used at all right now
// has no eligible targets.
func eligibleTargets(view *Pass, state State, effective ability.Descriptor, user string, inst player.AbilityInstance) []string {
	if !state.Phase.Allows(effective.Phase) || !inst.Active || inst.Exhausted() {
		return nil
	}
	if p, ok := state.Players[user]; !ok || !p.Alive() {
		return nil
	}
	var out []string
	for _, candidate := range state.LivingPlayers() {
		if effective.QueueCheck != nil {
			inv := ability.Invocation{
				AbilityID: effective.ID,
				User:      user,
				Targets:   []string{candidate},
				Phase:     state.Phase.Kind,
				Day:       state.Phase.Day,
			}
			if err := effective.QueueCheck(view, inv); err != nil {
				continue
			}
		}
		out = append(out, candidate)
	}
	return out
}

// ChatOverview is one channel as a viewer sees it.
type ChatOverview struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Kind         chat.Kind `json:"kind"`
	Writable     bool      `json:"writable"`
	MessageCount int       `json:"message_count"`
}

// BuildChatList returns the channels the viewer may read, in creation
// order. Moderators read everything.
func BuildChatList(state State, viewer Viewer) []ChatOverview {
	var out []ChatOverview
	for _, id := range state.ChatOrder {
		ch := state.Chats[id]
		if !viewer.Moderator && !ch.CanRead(viewer.Player) {
			continue
		}
		writable := viewer.Moderator
		if !writable && viewer.Player != "" {
			p, ok := state.Players[viewer.Player]
			writable = ch.CanWrite(viewer.Player) && ok && (p.Alive() || state.Resolved)
		}
		out = append(out, ChatOverview{
			ID:           ch.ID,
			Name:         ch.Name,
			Kind:         ch.Kind,
			Writable:     writable,
			MessageCount: ch.MessageCount,
		})
	}
	return out
}

// VoteCount groups the standing votes behind one target.
type VoteCount struct {
	Target string   `json:"target"`
	Voters []string `json:"voters"`
}

// BuildVoteTally returns the public day-vote standings, most votes
// first, ties broken by target name.
func BuildVoteTally(state State) []VoteCount {
	byTarget := make(map[string][]string)
	for _, voter := range state.Votes.Voters() {
		target, _ := state.Votes.Target(voter)
		byTarget[target] = append(byTarget[target], voter)
	}
	out := make([]VoteCount, 0, len(byTarget))
	for target, voters := range byTarget {
		out = append(out, VoteCount{Target: target, Voters: voters})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Voters) != len(out[j].Voters) {
			return len(out[i].Voters) > len(out[j].Voters)
		}
		return out[i].Target < out[j].Target
	})
	return out
}
