package game

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
)

// Command payloads validate shape only. Semantic checks live in the
// decider, which reports them as typed rejections rather than
// validation errors.
var gameCommandDefinitions = []command.Definition{
	{Type: CommandTypeCreate, ValidatePayload: decodeShape[CreatePayload]},
	{Type: CommandTypeSetPhase, ValidatePayload: decodeShape[SetPhasePayload]},
	{Type: CommandTypeAdvancePhase},
	{Type: CommandTypeResolve},
	{Type: CommandTypeQueue, ValidatePayload: decodeShape[QueuePayload]},
	{Type: CommandTypeDequeue, ValidatePayload: decodeShape[DequeuePayload]},
	{Type: CommandTypePost, ValidatePayload: decodeShape[PostPayload]},
	{Type: CommandTypeVote, ValidatePayload: decodeShape[VotePayload]},
	{Type: CommandTypeRetractVote, ValidatePayload: decodeShape[RetractVotePayload]},
}

var gameEventDefinitions = []event.Definition{
	{Type: event.TypeGameCreated, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validateCreatedPayload},
	{Type: event.TypeGameResolved, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validateResolvedPayload},
	{Type: event.TypePhaseSet, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validatePhaseSetPayload},
	{Type: event.TypePhaseAdvanced, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validatePhaseAdvancedPayload},
	{Type: event.TypeAbilityQueued, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validateQueuedPayload},
	{Type: event.TypeAbilityDequeued, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validateDequeuedPayload},
	{Type: event.TypeAbilityResolved, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validateOutcomePayload},
	{Type: event.TypeAbilityBlocked, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validateOutcomePayload},
	{Type: event.TypeAbilityFizzled, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validateOutcomePayload},
	{Type: event.TypePlayerDied, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validateDiedPayload},
	{Type: event.TypePlayerProtected, Addressing: event.AddressingPolicyEntityTarget, Intent: event.IntentAuditOnly, ValidatePayload: validateProtectedPayload},
	{Type: event.TypePlayerBlocked, Addressing: event.AddressingPolicyEntityTarget, Intent: event.IntentAuditOnly, ValidatePayload: validateBlockedPayload},
	{Type: event.TypeKnowledgeLearned, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validateLearnedPayload},
	{Type: event.TypeChatCreated, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validateChatCreatedPayload},
	{Type: event.TypeChatPosted, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validatePostedPayload},
	{Type: event.TypeVoteCast, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validateVoteCastPayload},
	{Type: event.TypeVoteRetracted, Addressing: event.AddressingPolicyEntityTarget, ValidatePayload: validateVoteRetractedPayload},
}

// RegisterCommands registers the game command definitions.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	for _, definition := range gameCommandDefinitions {
		if err := registry.Register(definition); err != nil {
			return err
		}
	}
	return nil
}

// RegisterEvents registers the game event definitions.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	for _, definition := range gameEventDefinitions {
		if err := registry.Register(definition); err != nil {
			return err
		}
	}
	return nil
}

// decodeShape confirms the payload unmarshals into its struct form.
func decodeShape[T any](raw json.RawMessage) error {
	var payload T
	return json.Unmarshal(raw, &payload)
}

func validateCreatedPayload(raw json.RawMessage) error {
	var payload CreatedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if len(payload.Players) == 0 {
		return errors.New("players are required")
	}
	if payload.Phase.Kind != phase.KindDay && payload.Phase.Kind != phase.KindNight {
		return errors.New("phase kind must be a day or a night")
	}
	if payload.Phase.Day < 1 {
		return errors.New("phase day must be positive")
	}
	return nil
}

func validateResolvedPayload(raw json.RawMessage) error {
	var payload ResolvedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.WinningAlignment) == "" {
		return errors.New("winning alignment is required")
	}
	return nil
}

func validatePhaseSetPayload(raw json.RawMessage) error {
	var payload PhaseSetPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.Phase.Kind != phase.KindDay && payload.Phase.Kind != phase.KindNight {
		return errors.New("phase kind must be a day or a night")
	}
	if payload.Phase.Day < 1 {
		return errors.New("phase day must be positive")
	}
	return nil
}

func validatePhaseAdvancedPayload(raw json.RawMessage) error {
	var payload PhaseAdvancedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.From.Kind == phase.KindUnspecified || payload.To.Kind == phase.KindUnspecified {
		return errors.New("from and to phases are required")
	}
	return nil
}

func validateQueuedPayload(raw json.RawMessage) error {
	var payload QueuedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.AbilityID) == "" {
		return errors.New("ability id is required")
	}
	if strings.TrimSpace(payload.User) == "" {
		return errors.New("user is required")
	}
	return nil
}

func validateDequeuedPayload(raw json.RawMessage) error {
	var payload DequeuedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.AbilityID) == "" {
		return errors.New("ability id is required")
	}
	if strings.TrimSpace(payload.User) == "" {
		return errors.New("user is required")
	}
	return nil
}

func validateOutcomePayload(raw json.RawMessage) error {
	var payload OutcomePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.AbilityID) == "" {
		return errors.New("ability id is required")
	}
	if strings.TrimSpace(payload.User) == "" {
		return errors.New("user is required")
	}
	return nil
}

func validateDiedPayload(raw json.RawMessage) error {
	var payload DiedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.Player) == "" {
		return errors.New("player is required")
	}
	if strings.TrimSpace(payload.Cause) == "" {
		return errors.New("cause is required")
	}
	return nil
}

func validateProtectedPayload(raw json.RawMessage) error {
	var payload ProtectedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.Player) == "" {
		return errors.New("player is required")
	}
	return nil
}

func validateBlockedPayload(raw json.RawMessage) error {
	var payload BlockedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.Player) == "" {
		return errors.New("player is required")
	}
	return nil
}

func validateLearnedPayload(raw json.RawMessage) error {
	var payload LearnedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.Observer) == "" {
		return errors.New("observer is required")
	}
	if strings.TrimSpace(payload.Subject) == "" {
		return errors.New("subject is required")
	}
	if payload.Fact.IsZero() {
		return errors.New("fact is required")
	}
	return nil
}

func validateChatCreatedPayload(raw json.RawMessage) error {
	var payload ChatCreatedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.Channel.ID) == "" {
		return errors.New("channel id is required")
	}
	if strings.TrimSpace(string(payload.Channel.Kind)) == "" {
		return errors.New("channel kind is required")
	}
	return nil
}

func validatePostedPayload(raw json.RawMessage) error {
	var payload PostedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.ChatID) == "" {
		return errors.New("chat id is required")
	}
	if payload.Seq == 0 {
		return errors.New("message seq is required")
	}
	if strings.TrimSpace(payload.Author) == "" {
		return errors.New("author is required")
	}
	if strings.TrimSpace(payload.Body) == "" {
		return errors.New("body is required")
	}
	return nil
}

func validateVoteCastPayload(raw json.RawMessage) error {
	var payload VoteCastPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.Voter) == "" {
		return errors.New("voter is required")
	}
	if strings.TrimSpace(payload.Target) == "" {
		return errors.New("target is required")
	}
	return nil
}

func validateVoteRetractedPayload(raw json.RawMessage) error {
	var payload VoteRetractedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.Voter) == "" {
		return errors.New("voter is required")
	}
	return nil
}
