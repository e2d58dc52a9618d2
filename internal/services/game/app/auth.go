package app

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
	"github.com/louisbranch/smalltown/internal/services/game/domain/grant"
)

// Credentials carries the identity material presented with a request.
// A moderator token wins over a player identity when both are present.
type Credentials struct {
	ModToken  string
	Player    string
	SeatGrant string
}

// HashModeratorToken returns the hex SHA-256 digest stored in game state.
// The plain token is shown to the moderator once at creation.
func HashModeratorToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// VerifyModerator checks a token against the game's stored hash.
func (s *Service) VerifyModerator(ctx context.Context, gameID, token string) error {
	state, err := s.State(ctx, gameID)
	if err != nil {
		return err
	}
	if token == "" || state.ModTokenHash == "" {
		return apperrors.New(apperrors.CodeNotAuthorized, "moderator token required")
	}
	hashed := HashModeratorToken(token)
	if subtle.ConstantTimeCompare([]byte(hashed), []byte(state.ModTokenHash)) != 1 {
		return apperrors.New(apperrors.CodeNotAuthorized, "moderator token mismatch")
	}
	return nil
}

// ResolveViewer authenticates request credentials against a game and
// returns the viewer used to gate state disclosure. Empty credentials
// resolve to the public viewer.
func (s *Service) ResolveViewer(ctx context.Context, gameID string, creds Credentials) (game.Viewer, error) {
	if creds.ModToken != "" {
		if err := s.VerifyModerator(ctx, gameID, creds.ModToken); err != nil {
			return game.Viewer{}, err
		}
		return game.Viewer{Moderator: true}, nil
	}
	if creds.Player == "" {
		return game.Viewer{}, nil
	}

	state, err := s.State(ctx, gameID)
	if err != nil {
		return game.Viewer{}, err
	}
	if _, ok := state.Players[creds.Player]; !ok {
		return game.Viewer{}, apperrors.New(apperrors.CodeUnknownPlayer,
			fmt.Sprintf("player %s is not in game %s", creds.Player, gameID))
	}
	if state.RequireGrants {
		if s.grants == nil {
			return game.Viewer{}, apperrors.New(apperrors.CodeNotAuthorized,
				"game requires seat grants but no verifier is configured")
		}
		expected := grant.SeatGrantExpectation{GameID: gameID, Player: creds.Player}
		if _, err := grant.ValidateSeatGrant(creds.SeatGrant, expected, *s.grants); err != nil {
			return game.Viewer{}, err
		}
	}
	return game.Viewer{Player: creds.Player}, nil
}

// ClaimSeat validates a presented seat grant for a game and returns the
// claims it binds. Callers use it to confirm which seat a grant names
// before acting with it.
func (s *Service) ClaimSeat(ctx context.Context, gameID, grantToken string) (grant.SeatGrantClaims, error) {
	state, err := s.State(ctx, gameID)
	if err != nil {
		return grant.SeatGrantClaims{}, err
	}
	if s.grants == nil {
		return grant.SeatGrantClaims{}, apperrors.New(apperrors.CodeNotAuthorized,
			"seat grant verification is not configured")
	}
	claims, err := grant.ClaimSeatGrant(grantToken, gameID, *s.grants)
	if err != nil {
		return grant.SeatGrantClaims{}, err
	}
	if _, ok := state.Players[claims.Player]; !ok {
		return grant.SeatGrantClaims{}, apperrors.New(apperrors.CodeUnknownPlayer,
			fmt.Sprintf("player %s is not in game %s", claims.Player, gameID))
	}
	return claims, nil
}
