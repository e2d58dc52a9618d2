package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/smalltown/internal/random"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
)

// CreateParams describes a game creation request. The moderator token hash
// inside the payload is assigned by the service, never by the caller.
type CreateParams struct {
	// GameID is optional; a fresh id is minted when empty.
	GameID    string
	RequestID string
	Payload   game.CreatePayload
}

// CreateResult reports a handled creation command. Token is the moderator
// token in plain text, returned exactly once and never stored; it is empty
// when the decision carries rejections.
type CreateResult struct {
	GameID   string
	Token    string
	Decision command.Decision
}

// CreateGame mints a game id and moderator token, stamps the token hash
// into the payload, and executes the creation command. A shuffled deal
// without a pinned seed draws one from OS entropy here; the decider
// never draws entropy itself.
func (s *Service) CreateGame(ctx context.Context, params CreateParams) (CreateResult, error) {
	gameID := strings.TrimSpace(params.GameID)
	if gameID == "" {
		minted, err := s.newID()
		if err != nil {
			return CreateResult{}, fmt.Errorf("mint game id: %w", err)
		}
		gameID = minted
	}
	token, err := s.newID()
	if err != nil {
		return CreateResult{}, fmt.Errorf("mint moderator token: %w", err)
	}

	payload := params.Payload
	payload.ModTokenHash = HashModeratorToken(token)
	if payload.ShuffleRoles && payload.ShuffleSeed == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return CreateResult{}, fmt.Errorf("draw shuffle seed: %w", err)
		}
		payload.ShuffleSeed = &seed
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return CreateResult{}, fmt.Errorf("encode create payload: %w", err)
	}

	decision, err := s.Execute(ctx, command.Command{
		GameID:      gameID,
		Type:        game.CommandTypeCreate,
		ActorType:   command.ActorTypeModerator,
		RequestID:   params.RequestID,
		PayloadJSON: payloadJSON,
	})
	if err != nil {
		return CreateResult{}, err
	}

	result := CreateResult{GameID: gameID, Decision: decision}
	if len(decision.Rejections) == 0 {
		result.Token = token
	}
	return result, nil
}
