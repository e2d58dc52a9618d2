package game

import (
	"encoding/json"

	"github.com/louisbranch/smalltown/internal/services/game/domain/chat"
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/player"
)

// Fold applies an event to state and returns the next state. Unknown
// event types leave state untouched so old journals stay replayable.
func Fold(state State, evt event.Event) State {
	switch evt.Type {
	case event.TypeGameCreated:
		var payload CreatedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state = State{
			Created:       true,
			Name:          payload.Name,
			ModTokenHash:  payload.ModTokenHash,
			RequireGrants: payload.RequireGrants,
			Phase:         payload.Phase,
			CategoryOrder: payload.CategoryOrder,
			Shared:        payload.Shared,
		}
		if len(payload.Players) > 0 {
			state.Players = make(map[string]player.Player, len(payload.Players))
			state.PlayerOrder = make([]string, 0, len(payload.Players))
			for _, p := range payload.Players {
				state.Players[p.Name] = p
				state.PlayerOrder = append(state.PlayerOrder, p.Name)
			}
		}
		if len(payload.Chats) > 0 {
			state.Chats = make(map[string]chat.Channel, len(payload.Chats))
			state.ChatOrder = make([]string, 0, len(payload.Chats))
			for _, ch := range payload.Chats {
				state.Chats[ch.ID] = ch
				state.ChatOrder = append(state.ChatOrder, ch.ID)
			}
		}
		for _, seed := range payload.Knowledge {
			state.Knowledge = state.Knowledge.Learn(seed.Observer, seed.Subject, seed.Fact)
		}

	case event.TypePhaseSet:
		var payload PhaseSetPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Phase = payload.Phase
		state.Queue = nil
		state.Votes = nil

	case event.TypePhaseAdvanced:
		var payload PhaseAdvancedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Phase = payload.To
		state.Queue = nil
		state.Votes = nil

	case event.TypeGameResolved:
		var payload ResolvedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Resolved = true
		state.WinningAlignment = payload.WinningAlignment

	case event.TypeAbilityQueued:
		var payload QueuedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		for i := range state.Queue {
			if state.Queue[i].AbilityID != payload.AbilityID {
				continue
			}
			if !payload.Shared && state.Queue[i].User != payload.User {
				continue
			}
			state.Queue[i].User = payload.User
			state.Queue[i].Targets = payload.Targets
			return state
		}
		if state.NextQueueSeq == 0 {
			state.NextQueueSeq = 1
		}
		state.Queue = append(state.Queue, QueuedAbility{
			AbilityID: payload.AbilityID,
			User:      payload.User,
			Targets:   payload.Targets,
			Phase:     evt.Phase,
			Day:       evt.Day,
			Seq:       state.NextQueueSeq,
			Shared:    payload.Shared,
		})
		state.NextQueueSeq++

	case event.TypeAbilityDequeued:
		var payload DequeuedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Queue = removeQueueEntry(state.Queue, payload.AbilityID, payload.User, payload.Shared)

	case event.TypeAbilityResolved, event.TypeAbilityBlocked:
		var payload OutcomePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Queue = removeQueueEntry(state.Queue, payload.AbilityID, payload.User, payload.Shared)
		state = consumeUse(state, payload, evt.Day)

	case event.TypeAbilityFizzled:
		var payload OutcomePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Queue = removeQueueEntry(state.Queue, payload.AbilityID, payload.User, payload.Shared)

	case event.TypePlayerDied:
		var payload DiedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if p, ok := state.Players[payload.Player]; ok {
			p.Die(payload.Cause)
			state.Players[payload.Player] = p
		}

	case event.TypePlayerProtected, event.TypePlayerBlocked:
		// Transient resolution effects; the journal keeps the record,
		// state does not.

	case event.TypeKnowledgeLearned:
		var payload LearnedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Knowledge = state.Knowledge.Learn(payload.Observer, payload.Subject, payload.Fact)

	case event.TypeChatCreated:
		var payload ChatCreatedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if state.Chats == nil {
			state.Chats = make(map[string]chat.Channel)
		}
		if _, exists := state.Chats[payload.Channel.ID]; !exists {
			state.Chats[payload.Channel.ID] = payload.Channel
			state.ChatOrder = append(state.ChatOrder, payload.Channel.ID)
		}

	case event.TypeChatPosted:
		var payload PostedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if ch, ok := state.Chats[payload.ChatID]; ok {
			ch.MessageCount++
			state.Chats[payload.ChatID] = ch
		}

	case event.TypeVoteCast:
		var payload VoteCastPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Votes = state.Votes.Cast(payload.Voter, payload.Target)

	case event.TypeVoteRetracted:
		var payload VoteRetractedPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Votes.Retract(payload.Voter)
	}
	return state
}

func removeQueueEntry(queue []QueuedAbility, abilityID, user string, shared bool) []QueuedAbility {
	for i, entry := range queue {
		if entry.AbilityID != abilityID {
			continue
		}
		if !shared && entry.User != user {
			continue
		}
		return append(queue[:i:i], queue[i+1:]...)
	}
	return queue
}

// consumeUse burns one use of the ability that fired. Shared abilities
// decrement the faction instance; actions decrement the user's.
func consumeUse(state State, payload OutcomePayload, day int) State {
	if payload.Shared {
		inst, ok := state.Shared[payload.AbilityID]
		if !ok {
			return state
		}
		if inst.UsesLeft != nil {
			left := *inst.UsesLeft - 1
			if left < 0 {
				left = 0
			}
			inst.UsesLeft = &left
		}
		inst.LastUsedDay = day
		state.Shared[payload.AbilityID] = inst
		return state
	}
	p, ok := state.Players[payload.User]
	if !ok {
		return state
	}
	p.ConsumeAbility(payload.AbilityID, day)
	state.Players[payload.User] = p
	return state
}
