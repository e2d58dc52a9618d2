package domain

import (
	"context"

	"github.com/louisbranch/smalltown/internal/services/game/app"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
	"github.com/louisbranch/smalltown/internal/services/game/storage"
)

// GameService is the slice of the app layer the tools drive. The real
// game service satisfies it; tests may substitute their own.
type GameService interface {
	CreateGame(ctx context.Context, params app.CreateParams) (app.CreateResult, error)
	VerifyModerator(ctx context.Context, gameID, token string) error
	Execute(ctx context.Context, cmd command.Command) (command.Decision, error)
	Overview(ctx context.Context, gameID string, viewer game.Viewer) (game.Overview, error)
	Events(ctx context.Context, gameID, filter string, start, limit int) (storage.ListEventsPageResult, error)
}

// RejectionEntry is one reason the engine declined a command.
type RejectionEntry struct {
	Code    string `json:"code" jsonschema:"stable rejection code"`
	Message string `json:"message" jsonschema:"human-readable reason"`
}

// EventEntry is one journal event flattened for MCP clients.
type EventEntry struct {
	Seq       uint64 `json:"seq" jsonschema:"event sequence number within the game"`
	Type      string `json:"type" jsonschema:"event type, e.g. player.died"`
	ActorType string `json:"actor_type" jsonschema:"who issued the command (moderator, player, system)"`
	ActorID   string `json:"actor_id,omitempty" jsonschema:"acting player name, when a player acted"`
	EntityID  string `json:"entity_id,omitempty" jsonschema:"entity the event concerns"`
	Phase     string `json:"phase" jsonschema:"phase the event happened in (DAY, NIGHT)"`
	Day       int    `json:"day" jsonschema:"day number the event happened on"`
	Payload   string `json:"payload,omitempty" jsonschema:"event payload as a JSON document"`
}

// PlayerEntry is one seat in a game_create roster.
type PlayerEntry struct {
	Name      string   `json:"name" jsonschema:"unique player name"`
	Role      string   `json:"role" jsonschema:"role name from the catalog (Vanilla, Cop, Doctor, ...)"`
	Alignment string   `json:"alignment" jsonschema:"alignment name (town, mafia, serialkiller)"`
	Modifiers []string `json:"modifiers,omitempty" jsonschema:"optional modifier names (1-Shot, Loyal, ...)"`
}

// PlayerStatusEntry is one seat as the moderator sees it.
type PlayerStatusEntry struct {
	Name        string   `json:"name" jsonschema:"player name"`
	Alive       bool     `json:"alive" jsonschema:"whether the player is alive"`
	Role        string   `json:"role" jsonschema:"role name"`
	Alignment   string   `json:"alignment" jsonschema:"alignment name"`
	Modifiers   []string `json:"modifiers,omitempty" jsonschema:"modifier names on the seat"`
	DeathCauses []string `json:"death_causes,omitempty" jsonschema:"recorded causes of death, when dead"`
}

func rejectionEntries(rejections []command.Rejection) []RejectionEntry {
	if len(rejections) == 0 {
		return nil
	}
	entries := make([]RejectionEntry, len(rejections))
	for i, rej := range rejections {
		entries[i] = RejectionEntry{Code: rej.Code, Message: rej.Message}
	}
	return entries
}

func eventEntries(events []event.Event) []EventEntry {
	if len(events) == 0 {
		return nil
	}
	entries := make([]EventEntry, len(events))
	for i, ev := range events {
		entries[i] = EventEntry{
			Seq:       ev.Seq,
			Type:      string(ev.Type),
			ActorType: string(ev.ActorType),
			ActorID:   ev.ActorID,
			EntityID:  ev.EntityID,
			Phase:     string(ev.Phase),
			Day:       ev.Day,
			Payload:   string(ev.PayloadJSON),
		}
	}
	return entries
}

func playerStatusEntries(players []game.PlayerOverview) []PlayerStatusEntry {
	entries := make([]PlayerStatusEntry, len(players))
	for i, p := range players {
		entries[i] = PlayerStatusEntry{
			Name:        p.Name,
			Alive:       p.Alive,
			Role:        p.Role,
			Alignment:   p.Alignment,
			Modifiers:   p.Modifiers,
			DeathCauses: p.DeathCauses,
		}
	}
	return entries
}
