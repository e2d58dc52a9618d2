package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// EventListInput represents the MCP tool input for listing journal events.
type EventListInput struct {
	GameID         string `json:"game_id" jsonschema:"game identifier"`
	ModeratorToken string `json:"moderator_token" jsonschema:"moderator token returned by game_create"`
	Filter         string `json:"filter,omitempty" jsonschema:"optional filter expression, e.g. type = \"chat.posted\" or day >= 2"`
	Start          int    `json:"start,omitempty" jsonschema:"number of events to skip"`
	Limit          int    `json:"limit,omitempty" jsonschema:"page size; defaults to 50, capped at 200"`
}

// EventListResult represents the MCP tool output for listing journal events.
type EventListResult struct {
	Events      []EventEntry `json:"events" jsonschema:"matching events in sequence order"`
	TotalCount  int          `json:"total_count" jsonschema:"total events matching the filter"`
	HasNextPage bool         `json:"has_next_page" jsonschema:"whether more events exist past this page"`
}

// EventListTool defines the MCP tool schema for listing journal events.
func EventListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "event_list",
		Description: "Lists the game's event journal with optional filtering on type, phase, day, actor, or entity. The journal is the complete, ordered record of everything that happened.",
	}
}

// EventListHandler executes an event list request.
func EventListHandler(svc GameService) mcp.ToolHandlerFor[EventListInput, EventListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventListInput) (*mcp.CallToolResult, EventListResult, error) {
		if err := svc.VerifyModerator(ctx, input.GameID, input.ModeratorToken); err != nil {
			return nil, EventListResult{}, fmt.Errorf("verify moderator: %w", err)
		}
		page, err := svc.Events(ctx, input.GameID, input.Filter, input.Start, input.Limit)
		if err != nil {
			return nil, EventListResult{}, fmt.Errorf("event list failed: %w", err)
		}
		return nil, EventListResult{
			Events:      eventEntries(page.Events),
			TotalCount:  page.TotalCount,
			HasNextPage: page.HasNextPage,
		}, nil
	}
}
