package app

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
	"github.com/louisbranch/smalltown/internal/services/game/storage"
	"github.com/louisbranch/smalltown/internal/telemetry"
)

// Execute validates a command, decides it against the game's current state,
// appends the resulting events to the journal, and updates the read models.
// Domain rejections come back inside the decision, not as errors; errors
// signal validation or infrastructure failures. The returned decision's
// events carry their assigned sequence and hash.
func (s *Service) Execute(ctx context.Context, cmd command.Command) (command.Decision, error) {
	cmd, err := s.commands.ValidateForDecision(cmd)
	if err != nil {
		return command.Decision{}, err
	}

	h := s.handle(cmd.GameID)
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := s.hydrateLocked(ctx, cmd.GameID, h); err != nil {
		return command.Decision{}, err
	}
	if !h.state.Created && cmd.Type != game.CommandTypeCreate {
		return command.Decision{}, errGameNotFound(cmd.GameID)
	}

	now := s.clock().UTC()
	decision := s.decider.Decide(h.state, cmd, func() time.Time { return now })
	if len(decision.Rejections) > 0 {
		s.recordRejection(ctx, cmd, decision.Rejections[0])
		return decision, nil
	}
	if len(decision.Events) == 0 {
		// Legal no-op, nothing to append.
		return decision, nil
	}

	for i, evt := range decision.Events {
		validated, err := s.events.ValidateForAppend(evt)
		if err != nil {
			return command.Decision{}, fmt.Errorf("validate %s event: %w", evt.Type, err)
		}
		decision.Events[i] = validated
	}

	appended, err := s.store.BatchAppendEvents(ctx, decision.Events)
	if err != nil {
		return command.Decision{}, fmt.Errorf("append events for game %s: %w", cmd.GameID, err)
	}

	next := h.state
	for _, evt := range appended {
		next = game.Fold(next, evt)
	}
	createdAt := h.createdAt
	if createdAt.IsZero() {
		createdAt = now
	}
	if err := s.projector.ApplyGame(ctx, cmd.GameID, next, createdAt, now); err != nil {
		return command.Decision{}, fmt.Errorf("project game %s: %w", cmd.GameID, err)
	}
	if err := s.projector.ApplyAll(ctx, appended); err != nil {
		return command.Decision{}, err
	}
	h.state = next
	h.createdAt = createdAt

	s.observe(ctx, cmd, next, appended)
	decision.Events = appended
	return decision, nil
}

// observe logs the executed command and emits lifecycle telemetry.
func (s *Service) observe(ctx context.Context, cmd command.Command, state game.State, appended []event.Event) {
	s.logger.Info().
		Str("game_id", cmd.GameID).
		Str("command", string(cmd.Type)).
		Int("events", len(appended)).
		Msg("command executed")

	for _, evt := range appended {
		switch evt.Type {
		case event.TypeGameCreated:
			s.emit(ctx, cmd, telemetry.EventGameCreated, telemetry.SeverityInfo, map[string]any{
				"players": len(state.PlayerOrder),
			})
		case event.TypeGameResolved:
			s.emit(ctx, cmd, telemetry.EventGameResolved, telemetry.SeverityInfo, map[string]any{
				"winner": state.WinningAlignment,
				"day":    state.Phase.Day,
			})
		}
	}
}

// recordRejection logs and emits telemetry for a domain-level rejection.
func (s *Service) recordRejection(ctx context.Context, cmd command.Command, rej command.Rejection) {
	s.logger.Warn().
		Str("game_id", cmd.GameID).
		Str("command", string(cmd.Type)).
		Str("code", rej.Code).
		Msg("command rejected")

	s.emit(ctx, cmd, telemetry.EventCommandRejected, telemetry.SeverityWarn, map[string]any{
		"code":   rej.Code,
		"reason": rej.Message,
	})
}

func (s *Service) emit(ctx context.Context, cmd command.Command, name string, severity telemetry.Severity, attrs map[string]any) {
	evt := storage.TelemetryEvent{
		EventName:  name,
		Severity:   string(severity),
		GameID:     cmd.GameID,
		ActorType:  string(cmd.ActorType),
		ActorID:    cmd.ActorID,
		RequestID:  cmd.RequestID,
		Attributes: attrs,
	}
	if err := s.telemetry.Emit(ctx, evt); err != nil {
		s.logger.Error().Err(err).Str("event", name).Msg("telemetry emit failed")
	}
}
