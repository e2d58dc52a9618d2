package grant

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/smalltown/internal/id"
)

// SeatGrantParams describes a grant to issue for one seat.
type SeatGrantParams struct {
	Issuer   string
	Audience string
	GameID   string
	Player   string
	TTL      time.Duration
	Now      func() time.Time
	NewID    func() (string, error)
}

// SignSeatGrant issues an EdDSA seat grant carrying every claim the
// verifier checks: issuer, audience, jti, exp, nbf, and the seat
// binding.
func SignSeatGrant(params SeatGrantParams, key ed25519.PrivateKey) (string, error) {
	if strings.TrimSpace(params.Issuer) == "" {
		return "", errors.New("issuer is required")
	}
	if strings.TrimSpace(params.Audience) == "" {
		return "", errors.New("audience is required")
	}
	if strings.TrimSpace(params.GameID) == "" {
		return "", errors.New("game id is required")
	}
	if strings.TrimSpace(params.Player) == "" {
		return "", errors.New("player is required")
	}
	if params.TTL <= 0 {
		return "", errors.New("ttl must be positive")
	}
	if len(key) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("private key must be %d bytes", ed25519.PrivateKeySize)
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	newID := params.NewID
	if newID == nil {
		newID = id.NewID
	}
	jti, err := newID()
	if err != nil {
		return "", fmt.Errorf("mint grant id: %w", err)
	}

	issued := now().UTC()
	claims := seatGrantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    params.Issuer,
			Audience:  jwt.ClaimStrings{params.Audience},
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(params.TTL)),
		},
		GameID: params.GameID,
		Player: params.Player,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign seat grant: %w", err)
	}
	return signed, nil
}
