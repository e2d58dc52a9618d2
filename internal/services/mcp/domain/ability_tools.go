package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AbilityQueueInput represents the MCP tool input for queueing an ability.
type AbilityQueueInput struct {
	GameID         string   `json:"game_id" jsonschema:"game identifier"`
	ModeratorToken string   `json:"moderator_token" jsonschema:"moderator token returned by game_create"`
	Player         string   `json:"player" jsonschema:"player whose ability to queue"`
	AbilityID      string   `json:"ability_id" jsonschema:"ability identifier, e.g. doctor.protect"`
	Targets        []string `json:"targets,omitempty" jsonschema:"target player names, in order"`
}

// AbilityQueueResult represents the MCP tool output for queueing an ability.
type AbilityQueueResult struct {
	Player     string           `json:"player" jsonschema:"player the ability was queued for"`
	AbilityID  string           `json:"ability_id" jsonschema:"ability identifier"`
	Targets    []string         `json:"targets,omitempty" jsonschema:"target player names"`
	Queued     bool             `json:"queued" jsonschema:"whether the engine accepted the invocation"`
	Events     []EventEntry     `json:"events,omitempty" jsonschema:"immediate effects, for abilities that fire on queue"`
	Rejections []RejectionEntry `json:"rejections,omitempty" jsonschema:"why the invocation was declined"`
}

// AbilityQueueTool defines the MCP tool schema for queueing an ability.
func AbilityQueueTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ability_queue",
		Description: "Queues an ability invocation on a player's behalf. The invocation sits in the queue until game_resolve, except for immediate abilities, which fire at once.",
	}
}

// AbilityQueueHandler executes an ability queue request.
func AbilityQueueHandler(svc GameService) mcp.ToolHandlerFor[AbilityQueueInput, AbilityQueueResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AbilityQueueInput) (*mcp.CallToolResult, AbilityQueueResult, error) {
		payload, err := json.Marshal(game.QueuePayload{
			AbilityID: input.AbilityID,
			Targets:   input.Targets,
			User:      input.Player,
		})
		if err != nil {
			return nil, AbilityQueueResult{}, fmt.Errorf("encode queue payload: %w", err)
		}
		decision, err := executeModeratorCommand(ctx, svc, input.GameID, input.ModeratorToken, game.CommandTypeQueue, payload)
		if err != nil {
			return nil, AbilityQueueResult{}, err
		}
		result := AbilityQueueResult{
			Player:    input.Player,
			AbilityID: input.AbilityID,
			Targets:   input.Targets,
		}
		if rejections := rejectionEntries(decision.Rejections); len(rejections) > 0 {
			result.Rejections = rejections
			return nil, result, nil
		}
		result.Queued = true
		result.Events = eventEntries(decision.Events)
		return nil, result, nil
	}
}
