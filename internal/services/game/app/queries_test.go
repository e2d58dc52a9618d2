package app

import (
	"context"
	"testing"

	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
)

func TestOverviewGatesRoles(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	createTestGame(t, svc, "game-1")

	public, err := svc.Overview(ctx, "game-1", game.Viewer{})
	if err != nil {
		t.Fatalf("public overview: %v", err)
	}
	if len(public.Players) != 4 {
		t.Fatalf("expected 4 seats, got %d", len(public.Players))
	}
	for _, p := range public.Players {
		if p.Role != "" || p.Alignment != "" {
			t.Fatalf("public viewer must not see seat details, got %+v", p)
		}
	}

	mod, err := svc.Overview(ctx, "game-1", game.Viewer{Moderator: true})
	if err != nil {
		t.Fatalf("moderator overview: %v", err)
	}
	for _, p := range mod.Players {
		if p.Role == "" || p.Alignment == "" {
			t.Fatalf("moderator must see every seat, got %+v", p)
		}
	}
}

func TestAbilitiesListsRoleActions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	createTestGame(t, svc, "game-1")

	abilities, err := svc.Abilities(ctx, "game-1", "alice")
	if err != nil {
		t.Fatalf("abilities: %v", err)
	}
	var found bool
	for _, a := range abilities {
		if a.ID == "doctor.protect" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected doctor.protect for alice, got %+v", abilities)
	}

	if _, err := svc.Abilities(ctx, "game-1", "mallory"); err == nil {
		t.Fatal("expected error for unknown player")
	}
}

func TestChatsVisibility(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	createTestGame(t, svc, "game-1")

	town, err := svc.Chats(ctx, "game-1", game.Viewer{Player: "alice"})
	if err != nil {
		t.Fatalf("chats for alice: %v", err)
	}
	if len(town) != 1 || town[0].ID != "global" {
		t.Fatalf("expected alice to see only the global channel, got %+v", town)
	}

	mafia, err := svc.Chats(ctx, "game-1", game.Viewer{Player: "carol"})
	if err != nil {
		t.Fatalf("chats for carol: %v", err)
	}
	if len(mafia) != 2 {
		t.Fatalf("expected carol to see global and faction channels, got %+v", mafia)
	}

	mod, err := svc.Chats(ctx, "game-1", game.Viewer{Moderator: true})
	if err != nil {
		t.Fatalf("chats for moderator: %v", err)
	}
	if len(mod) != 2 {
		t.Fatalf("expected moderator to see every channel, got %+v", mod)
	}
}

func TestMessagesEnforcesReadAccess(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	createTestGame(t, svc, "game-1")

	if _, err := svc.Messages(ctx, "game-1", "nope", game.Viewer{Moderator: true}, 0, 10); err == nil {
		t.Fatal("expected error for unknown chat")
	} else {
		assertCode(t, err, "UNKNOWN_CHAT")
	}

	if _, err := svc.Messages(ctx, "game-1", "faction:mafia", game.Viewer{Player: "alice"}, 0, 10); err == nil {
		t.Fatal("expected error for non-member read")
	} else {
		assertCode(t, err, "CHAT_NOT_READABLE")
	}

	if _, err := svc.Messages(ctx, "game-1", "faction:mafia", game.Viewer{Player: "carol"}, 0, 10); err != nil {
		t.Fatalf("member read: %v", err)
	}
	if _, err := svc.Messages(ctx, "game-1", "faction:mafia", game.Viewer{Moderator: true}, 0, 10); err != nil {
		t.Fatalf("moderator read: %v", err)
	}
}

func TestMessagesPaging(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	createTestGame(t, svc, "game-1")

	bodies := []string{"first", "second", "third"}
	for _, body := range bodies {
		if _, err := svc.Execute(ctx, command.Command{
			GameID:      "game-1",
			Type:        game.CommandTypePost,
			ActorType:   command.ActorTypePlayer,
			ActorID:     "alice",
			PayloadJSON: mustMarshal(t, game.PostPayload{ChatID: "global", Body: body}),
		}); err != nil {
			t.Fatalf("post %q: %v", body, err)
		}
	}

	page, err := svc.Messages(ctx, "game-1", "global", game.Viewer{Player: "bob"}, 1, 1)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if page.TotalCount != 3 {
		t.Fatalf("expected total 3, got %d", page.TotalCount)
	}
	if len(page.Messages) != 1 || page.Messages[0].Content != "second" {
		t.Fatalf("expected the second message, got %+v", page.Messages)
	}
}

func TestListGames(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	createTestGame(t, svc, "game-1")
	createTestGame(t, svc, "game-2")

	page, err := svc.ListGames(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if page.TotalCount != 2 || len(page.Games) != 2 {
		t.Fatalf("expected 2 games, got %+v", page)
	}
}

func TestEventsFilteredListing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	createTestGame(t, svc, "game-1")

	for _, body := range []string{"one", "two"} {
		if _, err := svc.Execute(ctx, command.Command{
			GameID:      "game-1",
			Type:        game.CommandTypePost,
			ActorType:   command.ActorTypePlayer,
			ActorID:     "alice",
			PayloadJSON: mustMarshal(t, game.PostPayload{ChatID: "global", Body: body}),
		}); err != nil {
			t.Fatalf("post %q: %v", body, err)
		}
	}

	result, err := svc.Events(ctx, "game-1", `type = "chat.posted"`, 0, 10)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if result.TotalCount != 2 || len(result.Events) != 2 {
		t.Fatalf("expected 2 chat.posted events, got %+v", result)
	}

	all, err := svc.Events(ctx, "game-1", "", 0, 100)
	if err != nil {
		t.Fatalf("events unfiltered: %v", err)
	}
	if all.TotalCount <= 2 {
		t.Fatalf("expected creation events in the journal, got %d", all.TotalCount)
	}

	if _, err := svc.Events(ctx, "game-1", `bogus ~ "x"`, 0, 10); err == nil {
		t.Fatal("expected error for invalid filter")
	} else {
		assertCode(t, err, "INVALID_FILTER")
	}

	if _, err := svc.Events(ctx, "missing", "", 0, 10); err == nil {
		t.Fatal("expected error for unknown game")
	}
}
