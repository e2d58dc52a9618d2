package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/smalltown/internal/id"
	"github.com/louisbranch/smalltown/internal/services/game/app"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GameCreateInput represents the MCP tool input for game creation.
type GameCreateInput struct {
	GameID        string        `json:"game_id,omitempty" jsonschema:"optional game identifier; minted when empty"`
	Name          string        `json:"name" jsonschema:"game name"`
	Players       []PlayerEntry `json:"players" jsonschema:"player roster with roles and alignments"`
	ShuffleRoles  bool          `json:"shuffle_roles,omitempty" jsonschema:"deal the listed roles randomly across the named players"`
	RequireGrants bool          `json:"require_grants,omitempty" jsonschema:"require signed seat grants for player credentials"`
}

// GameCreateResult represents the MCP tool output for game creation.
type GameCreateResult struct {
	GameID         string           `json:"game_id,omitempty" jsonschema:"game identifier"`
	ModeratorToken string           `json:"moderator_token,omitempty" jsonschema:"moderator token for every other tool; returned exactly once and never stored"`
	Rejections     []RejectionEntry `json:"rejections,omitempty" jsonschema:"why the game was not created"`
}

// GameCreateTool defines the MCP tool schema for game creation.
func GameCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "game_create",
		Description: "Creates a game with a named player roster. Returns the moderator token required by every other tool.",
	}
}

// GameCreateHandler executes a game creation request.
func GameCreateHandler(svc GameService) mcp.ToolHandlerFor[GameCreateInput, GameCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameCreateInput) (*mcp.CallToolResult, GameCreateResult, error) {
		requestID, err := id.NewID()
		if err != nil {
			return nil, GameCreateResult{}, fmt.Errorf("mint request id: %w", err)
		}

		players := make([]game.PlayerSetup, len(input.Players))
		for i, p := range input.Players {
			players[i] = game.PlayerSetup{
				Name:      p.Name,
				Role:      p.Role,
				Alignment: p.Alignment,
				Modifiers: p.Modifiers,
			}
		}
		result, err := svc.CreateGame(ctx, app.CreateParams{
			GameID:    input.GameID,
			RequestID: requestID,
			Payload: game.CreatePayload{
				Name:          input.Name,
				RequireGrants: input.RequireGrants,
				Players:       players,
				ShuffleRoles:  input.ShuffleRoles,
			},
		})
		if err != nil {
			return nil, GameCreateResult{}, fmt.Errorf("game create failed: %w", err)
		}
		if rejections := rejectionEntries(result.Decision.Rejections); len(rejections) > 0 {
			return nil, GameCreateResult{Rejections: rejections}, nil
		}
		return nil, GameCreateResult{GameID: result.GameID, ModeratorToken: result.Token}, nil
	}
}

// GameGetInput represents the MCP tool input for reading a game.
type GameGetInput struct {
	GameID         string `json:"game_id" jsonschema:"game identifier"`
	ModeratorToken string `json:"moderator_token" jsonschema:"moderator token returned by game_create"`
}

// GameGetResult represents the MCP tool output for reading a game.
type GameGetResult struct {
	GameID           string              `json:"game_id" jsonschema:"game identifier"`
	Name             string              `json:"name" jsonschema:"game name"`
	Phase            string              `json:"phase" jsonschema:"current phase (DAY, NIGHT)"`
	Day              int                 `json:"day" jsonschema:"current day number"`
	Resolved         bool                `json:"resolved" jsonschema:"whether the game has ended"`
	WinningAlignment string              `json:"winning_alignment,omitempty" jsonschema:"winning alignment, when resolved"`
	Players          []PlayerStatusEntry `json:"players" jsonschema:"every seat with role and alignment"`
}

// GameGetTool defines the MCP tool schema for reading a game.
func GameGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "game_get",
		Description: "Reads the moderator view of a game: phase, day, and every seat with its role, alignment, and life state.",
	}
}

// GameGetHandler executes a game read request.
func GameGetHandler(svc GameService) mcp.ToolHandlerFor[GameGetInput, GameGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameGetInput) (*mcp.CallToolResult, GameGetResult, error) {
		if err := svc.VerifyModerator(ctx, input.GameID, input.ModeratorToken); err != nil {
			return nil, GameGetResult{}, fmt.Errorf("verify moderator: %w", err)
		}
		overview, err := svc.Overview(ctx, input.GameID, game.Viewer{Moderator: true})
		if err != nil {
			return nil, GameGetResult{}, fmt.Errorf("game get failed: %w", err)
		}
		return nil, GameGetResult{
			GameID:           input.GameID,
			Name:             overview.Name,
			Phase:            string(overview.Phase.Kind),
			Day:              overview.Phase.Day,
			Resolved:         overview.Resolved,
			WinningAlignment: overview.WinningAlignment,
			Players:          playerStatusEntries(overview.Players),
		}, nil
	}
}

// PhaseAdvanceInput represents the MCP tool input for advancing the clock.
type PhaseAdvanceInput struct {
	GameID         string `json:"game_id" jsonschema:"game identifier"`
	ModeratorToken string `json:"moderator_token" jsonschema:"moderator token returned by game_create"`
}

// PhaseAdvanceResult represents the MCP tool output for advancing the clock.
type PhaseAdvanceResult struct {
	Phase      string           `json:"phase,omitempty" jsonschema:"phase after the advance (DAY, NIGHT)"`
	Day        int              `json:"day,omitempty" jsonschema:"day number after the advance"`
	Rejections []RejectionEntry `json:"rejections,omitempty" jsonschema:"why the clock did not move"`
}

// PhaseAdvanceTool defines the MCP tool schema for advancing the clock.
func PhaseAdvanceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "phase_advance",
		Description: "Advances the game clock to the next phase: day N becomes night N, night N becomes day N+1. Queued night actions are not resolved by this tool; call game_resolve first.",
	}
}

// PhaseAdvanceHandler executes a phase advance request.
func PhaseAdvanceHandler(svc GameService) mcp.ToolHandlerFor[PhaseAdvanceInput, PhaseAdvanceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PhaseAdvanceInput) (*mcp.CallToolResult, PhaseAdvanceResult, error) {
		decision, err := executeModeratorCommand(ctx, svc, input.GameID, input.ModeratorToken, game.CommandTypeAdvancePhase, nil)
		if err != nil {
			return nil, PhaseAdvanceResult{}, err
		}
		if rejections := rejectionEntries(decision.Rejections); len(rejections) > 0 {
			return nil, PhaseAdvanceResult{Rejections: rejections}, nil
		}
		overview, err := svc.Overview(ctx, input.GameID, game.Viewer{Moderator: true})
		if err != nil {
			return nil, PhaseAdvanceResult{}, fmt.Errorf("read phase: %w", err)
		}
		return nil, PhaseAdvanceResult{
			Phase: string(overview.Phase.Kind),
			Day:   overview.Phase.Day,
		}, nil
	}
}

// GameResolveInput represents the MCP tool input for resolving the queue.
type GameResolveInput struct {
	GameID         string `json:"game_id" jsonschema:"game identifier"`
	ModeratorToken string `json:"moderator_token" jsonschema:"moderator token returned by game_create"`
}

// GameResolveResult represents the MCP tool output for resolving the queue.
type GameResolveResult struct {
	Events           []EventEntry     `json:"events,omitempty" jsonschema:"everything the resolution pass produced, in order"`
	Resolved         bool             `json:"resolved" jsonschema:"whether the game ended during this pass"`
	WinningAlignment string           `json:"winning_alignment,omitempty" jsonschema:"winning alignment, when the game ended"`
	Rejections       []RejectionEntry `json:"rejections,omitempty" jsonschema:"why the pass did not run"`
}

// GameResolveTool defines the MCP tool schema for resolving the queue.
func GameResolveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "game_resolve",
		Description: "Resolves every queued ability in priority order, records deaths and learned facts, and checks win conditions. An empty queue resolves to nothing.",
	}
}

// GameResolveHandler executes a resolution request.
func GameResolveHandler(svc GameService) mcp.ToolHandlerFor[GameResolveInput, GameResolveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GameResolveInput) (*mcp.CallToolResult, GameResolveResult, error) {
		decision, err := executeModeratorCommand(ctx, svc, input.GameID, input.ModeratorToken, game.CommandTypeResolve, nil)
		if err != nil {
			return nil, GameResolveResult{}, err
		}
		if rejections := rejectionEntries(decision.Rejections); len(rejections) > 0 {
			return nil, GameResolveResult{Rejections: rejections}, nil
		}
		overview, err := svc.Overview(ctx, input.GameID, game.Viewer{Moderator: true})
		if err != nil {
			return nil, GameResolveResult{}, fmt.Errorf("read outcome: %w", err)
		}
		return nil, GameResolveResult{
			Events:           eventEntries(decision.Events),
			Resolved:         overview.Resolved,
			WinningAlignment: overview.WinningAlignment,
		}, nil
	}
}

// executeModeratorCommand verifies the token and runs one command as
// the moderator, minting a fresh request id for the journal.
func executeModeratorCommand(ctx context.Context, svc GameService, gameID, token string, cmdType command.Type, payload []byte) (command.Decision, error) {
	if err := svc.VerifyModerator(ctx, gameID, token); err != nil {
		return command.Decision{}, fmt.Errorf("verify moderator: %w", err)
	}
	requestID, err := id.NewID()
	if err != nil {
		return command.Decision{}, fmt.Errorf("mint request id: %w", err)
	}
	decision, err := svc.Execute(ctx, command.Command{
		GameID:      gameID,
		Type:        cmdType,
		ActorType:   command.ActorTypeModerator,
		RequestID:   requestID,
		PayloadJSON: payload,
	})
	if err != nil {
		return command.Decision{}, fmt.Errorf("execute %s: %w", cmdType, err)
	}
	return decision, nil
}
