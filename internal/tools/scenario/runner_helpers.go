package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/smalltown/internal/id"
	"github.com/louisbranch/smalltown/internal/services/game/app"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
)

func (r *Runner) failf(format string, args ...any) error {
	return r.assertions.Failf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	return r.assertions.Assertf(format, args...)
}

// ensureGame creates the game from the accumulated setup steps. The
// first command or expectation of a run lands here; seat steps are
// rejected once the roster is frozen.
func (r *Runner) ensureGame(ctx context.Context, state *scenarioState) error {
	if state.gameID != "" {
		return nil
	}
	if len(state.players) == 0 {
		return r.failf("at least one seat is required")
	}
	name := state.gameName
	if name == "" {
		name = "Scenario Game"
	}
	requestID, err := id.NewID()
	if err != nil {
		return fmt.Errorf("mint request id: %w", err)
	}
	result, err := r.svc.CreateGame(ctx, app.CreateParams{
		RequestID: requestID,
		Payload: game.CreatePayload{
			Name:          name,
			RequireGrants: state.requireGrants,
			Players:       state.players,
			StartPhase:    state.startPhase,
			CategoryOrder: state.categoryOrder,
		},
	})
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	if rejection := firstRejection(result.Decision); rejection != nil {
		return r.failf("create game rejected: %s (%s)", rejection.Message, rejection.Code)
	}
	state.gameID = result.GameID
	r.logf("game created: id=%s players=%d", state.gameID, len(state.players))
	return nil
}

// execute runs one command and reconciles the decision against the
// step's rejected expectation: a step expecting a rejection fails when
// the command is accepted, and vice versa.
func (r *Runner) execute(ctx context.Context, state *scenarioState, step Step, cmd command.Command) (command.Decision, error) {
	requestID, err := id.NewID()
	if err != nil {
		return command.Decision{}, fmt.Errorf("mint request id: %w", err)
	}
	cmd.GameID = state.gameID
	cmd.RequestID = requestID
	if cmd.ActorType == "" {
		cmd.ActorType = command.ActorTypeModerator
	}
	decision, err := r.svc.Execute(ctx, cmd)
	if err != nil {
		return command.Decision{}, fmt.Errorf("execute %s: %w", cmd.Type, err)
	}

	expected := optionalString(step.Args, "rejected", "")
	rejection := firstRejection(decision)
	switch {
	case expected == "" && rejection != nil:
		return decision, r.assertf("%s rejected: %s (%s)", cmd.Type, rejection.Message, rejection.Code)
	case expected != "" && rejection == nil:
		return decision, r.assertf("%s was accepted, want rejection %s", cmd.Type, expected)
	case expected != "" && rejection.Code != expected:
		return decision, r.assertf("%s rejected with %s, want %s", cmd.Type, rejection.Code, expected)
	}
	return decision, nil
}

func firstRejection(decision command.Decision) *command.Rejection {
	if len(decision.Rejections) == 0 {
		return nil
	}
	return &decision.Rejections[0]
}

func (r *Runner) moderatorOverview(ctx context.Context, state *scenarioState) (game.Overview, error) {
	overview, err := r.svc.Overview(ctx, state.gameID, game.Viewer{Moderator: true})
	if err != nil {
		return game.Overview{}, fmt.Errorf("read overview: %w", err)
	}
	return overview, nil
}

// resolveChatID maps a scripted channel reference to its ID, matching
// the ID first and the display name second.
func (r *Runner) resolveChatID(ctx context.Context, state *scenarioState, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	chats, err := r.svc.Chats(ctx, state.gameID, game.Viewer{Moderator: true})
	if err != nil {
		return "", fmt.Errorf("list chats: %w", err)
	}
	for _, ch := range chats {
		if ch.ID == ref {
			return ch.ID, nil
		}
	}
	for _, ch := range chats {
		if ch.Name == ref {
			return ch.ID, nil
		}
	}
	return "", r.failf("unknown chat %q", ref)
}

func requiredString(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if ok && text != "" {
		return text
	}
	return ""
}

func optionalString(args map[string]any, key, fallback string) string {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	text, ok := value.(string)
	if ok && text != "" {
		return text
	}
	return fallback
}

func readInt(args map[string]any, key string) (int, bool) {
	value, ok := args[key]
	if !ok {
		return 0, false
	}
	switch typed := value.(type) {
	case int:
		return typed, true
	case float64:
		return int(typed), true
	default:
		return 0, false
	}
}

func optionalInt(args map[string]any, key string, fallback int) int {
	if value, ok := readInt(args, key); ok {
		return value
	}
	return fallback
}

func optionalBool(args map[string]any, key string, fallback bool) bool {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		lower := strings.ToLower(strings.TrimSpace(typed))
		if lower == "true" || lower == "yes" || lower == "1" {
			return true
		}
		if lower == "false" || lower == "no" || lower == "0" {
			return false
		}
	}
	return fallback
}

// stringList reads a list argument. A bare string reads as a
// single-element list so scripts can write targets = "bob".
func stringList(args map[string]any, key string) []string {
	value, ok := args[key]
	if !ok {
		return nil
	}
	if text, ok := value.(string); ok {
		if text == "" {
			return nil
		}
		return []string{text}
	}
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := item.(string); ok && text != "" {
			out = append(out, text)
		}
	}
	return out
}
