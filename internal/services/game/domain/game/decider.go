package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
	"github.com/louisbranch/smalltown/internal/random"
	"github.com/louisbranch/smalltown/internal/services/game/domain/ability"
	"github.com/louisbranch/smalltown/internal/services/game/domain/chat"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/knowledge"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
	"github.com/louisbranch/smalltown/internal/services/game/domain/player"
	"github.com/louisbranch/smalltown/internal/services/game/domain/role"
)

// Command types the game decider handles. game.resolve belongs to the
// resolve package, which composes this decider with the engine.
const (
	CommandTypeCreate       command.Type = "game.create"
	CommandTypeSetPhase     command.Type = "game.set_phase"
	CommandTypeAdvancePhase command.Type = "game.advance_phase"
	CommandTypeResolve      command.Type = "game.resolve"
	CommandTypeQueue        command.Type = "ability.queue"
	CommandTypeDequeue      command.Type = "ability.dequeue"
	CommandTypePost         command.Type = "chat.post"
	CommandTypeVote         command.Type = "vote.cast"
	CommandTypeRetractVote  command.Type = "vote.retract"
)

// ModeratorName is the reserved author name moderator messages post
// under. Game creation refuses players with this name.
const ModeratorName = "moderator"

// Decider evaluates game commands against state. It is pure: the same
// state, command, and clock always produce the same decision.
type Decider struct {
	Set *role.Set
}

// Decide returns the decision for a game command against current state.
func (d Decider) Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}
	at := now().UTC()
	switch cmd.Type {
	case CommandTypeCreate:
		return d.decideCreate(state, cmd, at)
	case CommandTypeSetPhase:
		return d.decideSetPhase(state, cmd, at)
	case CommandTypeAdvancePhase:
		return d.decideAdvancePhase(state, cmd, at)
	case CommandTypeQueue:
		return d.decideQueue(state, cmd, at)
	case CommandTypeDequeue:
		return d.decideDequeue(state, cmd, at)
	case CommandTypePost:
		return d.decidePost(state, cmd, at)
	case CommandTypeVote:
		return d.decideVote(state, cmd, at)
	case CommandTypeRetractVote:
		return d.decideRetractVote(state, cmd, at)
	}
	return command.Reject(command.Rejection{
		Code:    command.RejectionCodeCommandTypeUnsupported,
		Message: fmt.Sprintf("no decider handles %s", cmd.Type),
	})
}

func (d Decider) decideCreate(state State, cmd command.Command, now time.Time) command.Decision {
	if state.Created {
		return reject(apperrors.CodeGameAlreadyExists, "this game already exists")
	}
	var payload CreatePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	if len(payload.Players) == 0 {
		return reject(apperrors.CodeGameNoPlayers, "a game needs at least one player")
	}

	startKind := phase.KindUnspecified
	startDay := 0
	if payload.StartPhase != nil {
		if strings.TrimSpace(payload.StartPhase.Kind) != "" {
			kind, err := phase.KindFromLabel(payload.StartPhase.Kind)
			if err != nil {
				return reject(apperrors.CodeGameInvalidStartPhase, err.Error())
			}
			startKind = kind
		}
		startDay = payload.StartPhase.Day
	}
	start, err := phase.Start(startKind, startDay)
	if err != nil {
		return rejectError(err)
	}

	var categoryOrder []ability.Category
	if len(payload.CategoryOrder) > 0 {
		seen := make(map[ability.Category]bool)
		for _, label := range payload.CategoryOrder {
			c, ok := ability.CategoryFromLabel(strings.ToLower(strings.TrimSpace(label)))
			if !ok || seen[c] {
				return reject(apperrors.CodeGameInvalidCategoryOrder, "the category order must name each category exactly once")
			}
			seen[c] = true
			categoryOrder = append(categoryOrder, c)
		}
		if len(categoryOrder) != len(ability.DefaultCategoryOrder()) {
			return reject(apperrors.CodeGameInvalidCategoryOrder, "the category order must name each category exactly once")
		}
	}

	setups := payload.Players
	var shuffleSeed *int64
	if payload.ShuffleRoles || payload.ShuffleSeed != nil {
		seed := now.UnixNano()
		if payload.ShuffleSeed != nil {
			seed = *payload.ShuffleSeed
		}
		shuffleSeed = &seed
		setups = dealAssignments(seed, setups)
	}

	seenNames := make(map[string]bool, len(setups))
	players := make([]player.Player, 0, len(setups))
	factions := make(map[string][]string)
	roleMembers := make(map[string][]string)
	var factionOrder, roleOrder []string
	for _, setup := range setups {
		name := strings.TrimSpace(setup.Name)
		if name == "" {
			return reject(apperrors.CodeGamePlayerNameEmpty, "every player needs a name")
		}
		if name == ModeratorName {
			return reject(apperrors.CodeGameReservedPlayerName, fmt.Sprintf("%s is a reserved name", name))
		}
		if seenNames[name] {
			return reject(apperrors.CodeGameDuplicatePlayer, fmt.Sprintf("player %s appears more than once", name))
		}
		seenNames[name] = true

		r, ok := d.Set.Role(strings.TrimSpace(setup.Role))
		if !ok {
			return reject(apperrors.CodeGameUnknownRole, fmt.Sprintf("unknown role %s", strings.TrimSpace(setup.Role)))
		}
		a, ok := d.Set.Alignment(strings.TrimSpace(setup.Alignment))
		if !ok {
			return reject(apperrors.CodeGameUnknownAlignment, fmt.Sprintf("unknown alignment %s", strings.TrimSpace(setup.Alignment)))
		}

		var modifiers []string
		for _, m := range setup.Modifiers {
			modifiers = append(modifiers, strings.TrimSpace(m))
		}
		tags, err := d.Set.PlayerTags(r, modifiers)
		if err != nil {
			return reject(apperrors.CodeGameUnknownModifier, err.Error())
		}

		descriptors := append(append([]ability.Descriptor(nil), r.Abilities...), r.Passives...)
		instances := make([]player.AbilityInstance, 0, len(descriptors))
		for _, desc := range descriptors {
			effective, err := d.Set.EffectiveDescriptor(desc, modifiers)
			if err != nil {
				return reject(apperrors.CodeGameUnknownModifier, err.Error())
			}
			inst := player.AbilityInstance{AbilityID: desc.ID, Active: true}
			if effective.InitialUses != nil {
				uses := *effective.InitialUses
				inst.UsesLeft = &uses
			}
			instances = append(instances, inst)
		}

		players = append(players, player.Player{
			Name:          name,
			RoleName:      r.Name,
			AlignmentName: a.Name,
			Modifiers:     modifiers,
			Tags:          tags,
			Abilities:     instances,
		})
		if len(factions[a.Name]) == 0 {
			factionOrder = append(factionOrder, a.Name)
		}
		factions[a.Name] = append(factions[a.Name], name)
		if len(roleMembers[r.Name]) == 0 {
			roleOrder = append(roleOrder, r.Name)
		}
		roleMembers[r.Name] = append(roleMembers[r.Name], name)
	}

	var shared map[string]player.AbilityInstance
	for _, alignmentName := range factionOrder {
		a, _ := d.Set.Alignment(alignmentName)
		for _, desc := range a.Shared {
			if shared == nil {
				shared = make(map[string]player.AbilityInstance)
			}
			inst := player.AbilityInstance{AbilityID: desc.ID, Active: true}
			if desc.InitialUses != nil {
				uses := *desc.InitialUses
				inst.UsesLeft = &uses
			}
			shared[desc.ID] = inst
		}
	}

	chats := []chat.Channel{{ID: "global", Name: "Town Square", Kind: chat.KindGlobal}}
	var seeds []KnowledgeSeed
	for _, alignmentName := range factionOrder {
		a, _ := d.Set.Alignment(alignmentName)
		if !a.Informed {
			continue
		}
		members := factions[alignmentName]
		chats = append(chats, chat.Channel{
			ID:      "faction:" + alignmentName,
			Name:    a.Name,
			Kind:    chat.KindFaction,
			Readers: members,
			Writers: members,
		})
		for _, observer := range members {
			for _, subject := range members {
				if subject == observer {
					continue
				}
				seeds = append(seeds, KnowledgeSeed{
					Observer: observer,
					Subject:  subject,
					Fact:     knowledge.Fact{Alignment: alignmentName},
				})
			}
		}
	}
	for _, roleName := range roleOrder {
		r, _ := d.Set.Role(roleName)
		members := roleMembers[roleName]
		if !r.KnowsRolemates || len(members) < 2 {
			continue
		}
		chats = append(chats, chat.Channel{
			ID:      "role:" + roleName,
			Name:    r.Name,
			Kind:    chat.KindGroup,
			Readers: members,
			Writers: members,
		})
		for _, observer := range members {
			for _, subject := range members {
				if subject == observer {
					continue
				}
				seeds = append(seeds, KnowledgeSeed{
					Observer: observer,
					Subject:  subject,
					Fact:     knowledge.Fact{RoleName: roleName},
				})
			}
		}
	}

	created := CreatedPayload{
		Name:          strings.TrimSpace(payload.Name),
		ModTokenHash:  strings.TrimSpace(payload.ModTokenHash),
		RequireGrants: payload.RequireGrants,
		Phase:         start,
		CategoryOrder: categoryOrder,
		ShuffleSeed:   shuffleSeed,
		Players:       players,
		Shared:        shared,
		Chats:         chats,
		Knowledge:     seeds,
	}
	payloadJSON, _ := json.Marshal(created)
	return command.Accept(command.NewEvent(cmd, event.TypeGameCreated, "game", cmd.GameID, start, payloadJSON, now))
}

// dealAssignments reassigns the role bundles across the same seat names
// in seeded order. The seat list keeps its given order; only which name
// holds which role, alignment, and modifiers moves.
func dealAssignments(seed int64, setups []PlayerSetup) []PlayerSetup {
	dealt := make([]PlayerSetup, len(setups))
	copy(dealt, setups)
	random.Shuffle(seed, dealt)
	for i := range dealt {
		dealt[i].Name = setups[i].Name
	}
	return dealt
}

func (d Decider) decideSetPhase(state State, cmd command.Command, now time.Time) command.Decision {
	if decision, ok := guardMutable(state); !ok {
		return decision
	}
	if cmd.ActorType == command.ActorTypePlayer {
		return reject(apperrors.CodeNotAuthorized, "only the moderator can change the phase")
	}
	var payload SetPhasePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	kind, err := phase.KindFromLabel(payload.Kind)
	if err != nil || (kind != phase.KindDay && kind != phase.KindNight) {
		return reject(apperrors.CodeIllegalPhaseTransition, "the phase must be a day or a night")
	}
	if payload.Day < 1 {
		return reject(apperrors.CodeIllegalPhaseTransition, "days are numbered from 1")
	}
	target := phase.Phase{Kind: kind, Day: payload.Day}
	payloadJSON, _ := json.Marshal(PhaseSetPayload{Phase: target})
	return command.Accept(command.NewEvent(cmd, event.TypePhaseSet, "phase", target.String(), state.Phase, payloadJSON, now))
}

func (d Decider) decideAdvancePhase(state State, cmd command.Command, now time.Time) command.Decision {
	if decision, ok := guardMutable(state); !ok {
		return decision
	}
	if cmd.ActorType == command.ActorTypePlayer {
		return reject(apperrors.CodeNotAuthorized, "only the moderator can change the phase")
	}
	if len(state.Queue) > 0 {
		return reject(apperrors.CodeIllegalPhaseTransition, "pending abilities must resolve before the phase can advance")
	}
	next := state.Phase.Next()
	if next == state.Phase {
		return reject(apperrors.CodeIllegalPhaseTransition, fmt.Sprintf("the phase cannot change from %s", state.Phase))
	}
	payloadJSON, _ := json.Marshal(PhaseAdvancedPayload{From: state.Phase, To: next})
	return command.Accept(command.NewEvent(cmd, event.TypePhaseAdvanced, "phase", next.String(), state.Phase, payloadJSON, now))
}

func (d Decider) decideQueue(state State, cmd command.Command, now time.Time) command.Decision {
	if decision, ok := guardMutable(state); !ok {
		return decision
	}
	var payload QueuePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)

	user := actingPlayer(cmd, payload.User)
	if user == "" {
		return reject(apperrors.CodeUnknownPlayer, "a player name is required")
	}
	p, ok := state.Players[user]
	if !ok {
		return reject(apperrors.CodeUnknownPlayer, fmt.Sprintf("unknown player %s", user))
	}

	abilityID := strings.TrimSpace(payload.AbilityID)
	desc, ok := d.Set.Abilities().Get(abilityID)
	if !ok || !ownsAbility(p, desc) {
		// Abilities the player does not hold reject as unknown so the
		// response never confirms another seat's role.
		return reject(apperrors.CodeUnknownAbility, fmt.Sprintf("unknown ability %s", abilityID))
	}
	if desc.Kind == ability.KindPassive {
		return reject(apperrors.CodeIneligibleNow, "passive abilities cannot be queued")
	}
	if !p.Alive() {
		return reject(apperrors.CodeIneligibleNow, "dead players cannot act")
	}

	effective := desc
	if desc.Kind != ability.KindShared {
		var err error
		effective, err = d.Set.EffectiveDescriptor(desc, p.Modifiers)
		if err != nil {
			return reject(apperrors.CodeGameUnknownModifier, err.Error())
		}
	}
	if !state.Phase.Allows(effective.Phase) {
		return reject(apperrors.CodeIneligibleNow, fmt.Sprintf("%s cannot be used during the %s", effective.Name, strings.ToLower(string(state.Phase.Kind))))
	}

	inst, ok := abilityInstance(state, p, desc)
	if !ok || !inst.Active {
		return reject(apperrors.CodeIneligibleNow, "this ability is not active")
	}
	if inst.Exhausted() {
		return reject(apperrors.CodeIneligibleNow, "this ability has no uses left")
	}

	var targets []string
	for _, t := range payload.Targets {
		targets = append(targets, strings.TrimSpace(t))
	}
	if len(targets) != effective.TargetCount {
		return reject(apperrors.CodeInvalidTargetCount, fmt.Sprintf("this ability needs %d target(s), got %d", effective.TargetCount, len(targets)))
	}
	seen := make(map[string]bool, len(targets))
	for _, t := range targets {
		tp, ok := state.Players[t]
		if !ok {
			return reject(apperrors.CodeInvalidTarget, fmt.Sprintf("%s is not a legal target", t))
		}
		if !tp.Alive() {
			return reject(apperrors.CodeInvalidTarget, fmt.Sprintf("%s is dead", t))
		}
		if seen[t] {
			return reject(apperrors.CodeInvalidTarget, "targets must be distinct")
		}
		seen[t] = true
	}

	inv := ability.Invocation{
		AbilityID: desc.ID,
		User:      user,
		Targets:   targets,
		Phase:     state.Phase.Kind,
		Day:       state.Phase.Day,
	}
	var pass *Pass
	if effective.QueueCheck != nil || effective.Immediate {
		pass = NewPass(d.Set, state, cmd, now)
	}
	if effective.QueueCheck != nil {
		if err := effective.QueueCheck(pass, inv); err != nil {
			return rejectError(err)
		}
	}
	if effective.Immediate {
		pass.Execute(effective, inv, true)
		return command.Accept(pass.Events()...)
	}

	payloadJSON, _ := json.Marshal(QueuedPayload{
		AbilityID: desc.ID,
		User:      user,
		Targets:   targets,
		Shared:    desc.Kind == ability.KindShared,
	})
	return command.Accept(command.NewEvent(cmd, event.TypeAbilityQueued, "ability", desc.ID, state.Phase, payloadJSON, now))
}

func (d Decider) decideDequeue(state State, cmd command.Command, now time.Time) command.Decision {
	if decision, ok := guardMutable(state); !ok {
		return decision
	}
	var payload DequeuePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)

	user := actingPlayer(cmd, payload.User)
	if user == "" {
		return reject(apperrors.CodeUnknownPlayer, "a player name is required")
	}
	p, ok := state.Players[user]
	if !ok {
		return reject(apperrors.CodeUnknownPlayer, fmt.Sprintf("unknown player %s", user))
	}
	abilityID := strings.TrimSpace(payload.AbilityID)
	desc, ok := d.Set.Abilities().Get(abilityID)
	if !ok || !ownsAbility(p, desc) {
		return reject(apperrors.CodeUnknownAbility, fmt.Sprintf("unknown ability %s", abilityID))
	}

	shared := desc.Kind == ability.KindShared
	entry, ok := state.QueueEntry(desc.ID, user, shared)
	if !ok {
		// Nothing queued; an empty decision keeps dequeue idempotent.
		return command.Decision{}
	}
	payloadJSON, _ := json.Marshal(DequeuedPayload{AbilityID: desc.ID, User: entry.User, Shared: shared})
	return command.Accept(command.NewEvent(cmd, event.TypeAbilityDequeued, "ability", desc.ID, state.Phase, payloadJSON, now))
}

func (d Decider) decidePost(state State, cmd command.Command, now time.Time) command.Decision {
	if !state.Created {
		return reject(apperrors.CodeNotFound, "game does not exist")
	}
	var payload PostPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	body := strings.TrimSpace(payload.Body)
	if body == "" {
		return reject(apperrors.CodeChatBodyEmpty, "messages cannot be empty")
	}

	author := ModeratorName
	if cmd.ActorType == command.ActorTypePlayer {
		author = cmd.ActorID
		p, ok := state.Players[author]
		if !ok {
			return reject(apperrors.CodeUnknownPlayer, fmt.Sprintf("unknown player %s", author))
		}
		// Death silences a player until the game ends.
		if !p.Alive() && !state.Resolved {
			return reject(apperrors.CodeChatNotWritable, "dead players cannot post")
		}
	}

	chatID := strings.TrimSpace(payload.ChatID)
	to := strings.TrimSpace(payload.To)
	var events []event.Event
	switch {
	case chatID != "" && to != "":
		return reject(apperrors.CodeUnknownChat, "chat_id and to are mutually exclusive")
	case to != "":
		if _, ok := state.Players[to]; !ok && to != ModeratorName {
			return reject(apperrors.CodeUnknownPlayer, fmt.Sprintf("unknown player %s", to))
		}
		if to == author {
			return reject(apperrors.CodeInvalidTarget, "you cannot message yourself")
		}
		chatID = chat.PairID(author, to)
		if _, ok := state.Chats[chatID]; !ok {
			pair := []string{author, to}
			sort.Strings(pair)
			channel := chat.Channel{
				ID:      chatID,
				Name:    pair[0] + " & " + pair[1],
				Kind:    chat.KindPrivate,
				Readers: pair,
				Writers: pair,
			}
			channelJSON, _ := json.Marshal(ChatCreatedPayload{Channel: channel})
			events = append(events, command.NewEvent(cmd, event.TypeChatCreated, "chat", chatID, state.Phase, channelJSON, now))
		}
	default:
		if chatID == "" {
			return reject(apperrors.CodeUnknownChat, "a chat id or recipient is required")
		}
		ch, ok := state.Chats[chatID]
		if !ok {
			return reject(apperrors.CodeUnknownChat, fmt.Sprintf("unknown chat %s", chatID))
		}
		if cmd.ActorType == command.ActorTypePlayer && !ch.CanWrite(author) {
			return reject(apperrors.CodeChatNotWritable, "you cannot post to this chat")
		}
	}

	seq := uint64(1)
	if ch, ok := state.Chats[chatID]; ok {
		seq = uint64(ch.MessageCount) + 1
	}
	postJSON, _ := json.Marshal(PostedPayload{ChatID: chatID, Seq: seq, Author: author, Body: body})
	events = append(events, command.NewEvent(cmd, event.TypeChatPosted, "chat", chatID, state.Phase, postJSON, now))
	return command.Accept(events...)
}

func (d Decider) decideVote(state State, cmd command.Command, now time.Time) command.Decision {
	if decision, ok := guardMutable(state); !ok {
		return decision
	}
	if state.Phase.Kind != phase.KindDay {
		return reject(apperrors.CodeIneligibleNow, "votes are cast during the day")
	}
	var payload VotePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	voter := actingPlayer(cmd, payload.Voter)
	if voter == "" {
		return reject(apperrors.CodeUnknownPlayer, "a player name is required")
	}
	p, ok := state.Players[voter]
	if !ok {
		return reject(apperrors.CodeUnknownPlayer, fmt.Sprintf("unknown player %s", voter))
	}
	if !p.Alive() {
		return reject(apperrors.CodeIneligibleNow, "dead players cannot vote")
	}
	target := strings.TrimSpace(payload.Target)
	tp, ok := state.Players[target]
	if !ok {
		return reject(apperrors.CodeInvalidTarget, fmt.Sprintf("%s is not a legal target", target))
	}
	if !tp.Alive() {
		return reject(apperrors.CodeInvalidTarget, fmt.Sprintf("%s is dead", target))
	}
	payloadJSON, _ := json.Marshal(VoteCastPayload{Voter: voter, Target: target})
	return command.Accept(command.NewEvent(cmd, event.TypeVoteCast, "vote", voter, state.Phase, payloadJSON, now))
}

func (d Decider) decideRetractVote(state State, cmd command.Command, now time.Time) command.Decision {
	if decision, ok := guardMutable(state); !ok {
		return decision
	}
	var payload RetractVotePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	voter := actingPlayer(cmd, payload.Voter)
	if voter == "" {
		return reject(apperrors.CodeUnknownPlayer, "a player name is required")
	}
	if _, ok := state.Players[voter]; !ok {
		return reject(apperrors.CodeUnknownPlayer, fmt.Sprintf("unknown player %s", voter))
	}
	if _, ok := state.Votes.Target(voter); !ok {
		// No standing vote; retraction is idempotent.
		return command.Decision{}
	}
	payloadJSON, _ := json.Marshal(VoteRetractedPayload{Voter: voter})
	return command.Accept(command.NewEvent(cmd, event.TypeVoteRetracted, "vote", voter, state.Phase, payloadJSON, now))
}

// guardMutable rejects commands against games that do not exist yet or
// are already over.
func guardMutable(state State) (command.Decision, bool) {
	if !state.Created {
		return reject(apperrors.CodeNotFound, "game does not exist"), false
	}
	if state.Resolved {
		return reject(apperrors.CodeGameAlreadyResolved, "this game is already resolved"), false
	}
	return command.Decision{}, true
}

// actingPlayer resolves which player a command acts for. Players always
// act as themselves; moderator and system commands name the player in
// the payload.
func actingPlayer(cmd command.Command, override string) string {
	if cmd.ActorType == command.ActorTypePlayer {
		return cmd.ActorID
	}
	return strings.TrimSpace(override)
}

// ownsAbility reports whether the player can invoke the descriptor:
// their own instance for role abilities, faction membership for shared
// ones.
func ownsAbility(p player.Player, desc ability.Descriptor) bool {
	if desc.Kind == ability.KindShared {
		return p.AlignmentName == desc.Alignment
	}
	_, ok := p.Ability(desc.ID)
	return ok
}

// abilityInstance finds the usage record backing a descriptor.
func abilityInstance(state State, p player.Player, desc ability.Descriptor) (player.AbilityInstance, bool) {
	if desc.Kind == ability.KindShared {
		inst, ok := state.Shared[desc.ID]
		return inst, ok
	}
	return p.Ability(desc.ID)
}

func reject(code apperrors.Code, message string) command.Decision {
	return command.Reject(command.Rejection{Code: string(code), Message: message})
}

// rejectError converts a domain error into a rejection, keeping the
// structured code when the error carries one.
func rejectError(err error) command.Decision {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return reject(appErr.Code, appErr.Message)
	}
	return reject(apperrors.CodeIneligibleNow, err.Error())
}
