package app

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
	"github.com/louisbranch/smalltown/internal/services/game/core/filter"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
	"github.com/louisbranch/smalltown/internal/services/game/storage"
)

// State returns a copy of the folded state for a game.
func (s *Service) State(ctx context.Context, gameID string) (game.State, error) {
	h := s.handle(gameID)

	h.mu.RLock()
	if h.hydrated {
		defer h.mu.RUnlock()
		if !h.state.Created {
			return game.State{}, errGameNotFound(gameID)
		}
		return h.state.Clone(), nil
	}
	h.mu.RUnlock()

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := s.hydrateLocked(ctx, gameID, h); err != nil {
		return game.State{}, err
	}
	if !h.state.Created {
		return game.State{}, errGameNotFound(gameID)
	}
	return h.state.Clone(), nil
}

// Overview returns the viewer-gated game summary.
func (s *Service) Overview(ctx context.Context, gameID string, viewer game.Viewer) (game.Overview, error) {
	state, err := s.State(ctx, gameID)
	if err != nil {
		return game.Overview{}, err
	}
	return game.BuildOverview(state, viewer), nil
}

// Abilities lists a player's abilities with their usability and targets.
func (s *Service) Abilities(ctx context.Context, gameID, playerName string) ([]game.AbilityStatus, error) {
	state, err := s.State(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.BuildAbilityList(s.set, state, playerName)
}

// Chats lists the channels the viewer can read.
func (s *Service) Chats(ctx context.Context, gameID string, viewer game.Viewer) ([]game.ChatOverview, error) {
	state, err := s.State(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.BuildChatList(state, viewer), nil
}

// Messages lists a page of chat messages, enforcing channel read access.
// Moderators read every channel.
func (s *Service) Messages(ctx context.Context, gameID, chatID string, viewer game.Viewer, start, limit int) (storage.MessagePage, error) {
	state, err := s.State(ctx, gameID)
	if err != nil {
		return storage.MessagePage{}, err
	}
	ch, ok := state.Chats[chatID]
	if !ok {
		return storage.MessagePage{}, apperrors.New(apperrors.CodeUnknownChat,
			fmt.Sprintf("chat %s does not exist", chatID))
	}
	if !viewer.Moderator && !ch.CanRead(viewer.Player) {
		return storage.MessagePage{}, apperrors.New(apperrors.CodeChatNotReadable,
			fmt.Sprintf("chat %s is not readable", chatID))
	}
	return s.store.ListMessages(ctx, gameID, chatID, start, limit)
}

// VoteTally returns current vote counts grouped by target.
func (s *Service) VoteTally(ctx context.Context, gameID string) ([]game.VoteCount, error) {
	state, err := s.State(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.BuildVoteTally(state), nil
}

// ListGames returns a page of game records, newest first.
func (s *Service) ListGames(ctx context.Context, start, limit int) (storage.GamePage, error) {
	return s.store.ListGames(ctx, start, limit)
}

// Events returns a page of journal events for moderator introspection.
// The filter string uses the event history filter grammar.
func (s *Service) Events(ctx context.Context, gameID, filterStr string, start, limit int) (storage.ListEventsPageResult, error) {
	if _, err := s.State(ctx, gameID); err != nil {
		return storage.ListEventsPageResult{}, err
	}
	req := storage.ListEventsPageRequest{
		GameID:   gameID,
		Start:    start,
		PageSize: limit,
	}
	if filterStr != "" {
		cond, err := filter.ParseEventFilter(filterStr)
		if err != nil {
			return storage.ListEventsPageResult{}, apperrors.Wrap(apperrors.CodeInvalidFilter,
				"parse event filter", err)
		}
		req.FilterClause = cond.Clause
		req.FilterParams = cond.Params
	}
	return s.store.ListEventsPage(ctx, req)
}
