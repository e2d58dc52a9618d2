// Package grant verifies moderator-issued seat grants.
//
// A seat grant is a short-lived EdDSA JWT binding a caller to a player seat
// in one game. Deployments that configure a verifier require players to
// present a grant before the service accepts their player identity.
package grant

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
)

// Environment variables configuring seat grant verification.
const (
	EnvSeatGrantIssuer    = "SMALLTOWN_SEAT_GRANT_ISSUER"
	EnvSeatGrantAudience  = "SMALLTOWN_SEAT_GRANT_AUDIENCE"
	EnvSeatGrantPublicKey = "SMALLTOWN_SEAT_GRANT_PUBLIC_KEY"
)

// seatGrantEnv holds raw env values before post-parse validation.
type seatGrantEnv struct {
	Issuer    string `env:"SMALLTOWN_SEAT_GRANT_ISSUER"`
	Audience  string `env:"SMALLTOWN_SEAT_GRANT_AUDIENCE"`
	PublicKey string `env:"SMALLTOWN_SEAT_GRANT_PUBLIC_KEY"`
}

// SeatGrantConfig defines how seat grants are verified.
type SeatGrantConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// SeatGrantExpectation defines the expected identity for a seat grant.
type SeatGrantExpectation struct {
	GameID string
	Player string
}

// SeatGrantClaims captures validated seat grant claims.
type SeatGrantClaims struct {
	Issuer    string
	Audience  []string
	ExpiresAt time.Time
	NotBefore time.Time
	IssuedAt  time.Time
	JWTID     string
	GameID    string
	Player    string
}

// seatGrantClaims is the internal claims type used for JWT parsing.
type seatGrantClaims struct {
	jwt.RegisteredClaims
	GameID string `json:"game_id"`
	Player string `json:"player"`
}

// LoadSeatGrantConfigFromEnv reads seat grant verification configuration.
func LoadSeatGrantConfigFromEnv(now func() time.Time) (SeatGrantConfig, error) {
	var raw seatGrantEnv
	if err := env.Parse(&raw); err != nil {
		return SeatGrantConfig{}, fmt.Errorf("parse seat grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" {
		return SeatGrantConfig{}, fmt.Errorf("%s is required", EnvSeatGrantIssuer)
	}
	if audience == "" {
		return SeatGrantConfig{}, fmt.Errorf("%s is required", EnvSeatGrantAudience)
	}
	if publicKey == "" {
		return SeatGrantConfig{}, fmt.Errorf("%s is required", EnvSeatGrantPublicKey)
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return SeatGrantConfig{}, fmt.Errorf("decode seat grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return SeatGrantConfig{}, fmt.Errorf("seat grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return SeatGrantConfig{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// ValidateSeatGrant verifies a seat grant token and validates expected claims.
func ValidateSeatGrant(grant string, expected SeatGrantExpectation, cfg SeatGrantConfig) (SeatGrantClaims, error) {
	parsed, err := verifySeatGrant(grant, cfg)
	if err != nil {
		return SeatGrantClaims{}, err
	}
	if strings.TrimSpace(parsed.GameID) == "" || parsed.GameID != expected.GameID {
		return SeatGrantClaims{}, apperrors.WithMetadata(
			apperrors.CodeSeatGrantMismatch,
			"seat grant game mismatch",
			map[string]string{"Field": "game_id"},
		)
	}
	if strings.TrimSpace(parsed.Player) == "" || parsed.Player != expected.Player {
		return SeatGrantClaims{}, apperrors.WithMetadata(
			apperrors.CodeSeatGrantMismatch,
			"seat grant player mismatch",
			map[string]string{"Field": "player"},
		)
	}
	return buildSeatGrantClaims(parsed), nil
}

// ClaimSeatGrant verifies a seat grant token against a game without a known
// seat and returns the claims it binds. Callers use it to discover which
// player a presented grant names.
func ClaimSeatGrant(grant string, gameID string, cfg SeatGrantConfig) (SeatGrantClaims, error) {
	parsed, err := verifySeatGrant(grant, cfg)
	if err != nil {
		return SeatGrantClaims{}, err
	}
	if strings.TrimSpace(parsed.GameID) == "" || parsed.GameID != gameID {
		return SeatGrantClaims{}, apperrors.WithMetadata(
			apperrors.CodeSeatGrantMismatch,
			"seat grant game mismatch",
			map[string]string{"Field": "game_id"},
		)
	}
	if strings.TrimSpace(parsed.Player) == "" {
		return SeatGrantClaims{}, apperrors.New(apperrors.CodeSeatGrantInvalid, "seat grant player is required")
	}
	return buildSeatGrantClaims(parsed), nil
}

// verifySeatGrant runs the claim checks shared by every entry point:
// signature, issuer, audience, jti, exp, and nbf.
func verifySeatGrant(grant string, cfg SeatGrantConfig) (seatGrantClaims, error) {
	grant = strings.TrimSpace(grant)
	if grant == "" {
		return seatGrantClaims{}, apperrors.New(apperrors.CodeSeatGrantInvalid, "seat grant is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || len(cfg.Key) != ed25519.PublicKeySize {
		return seatGrantClaims{}, errors.New("seat grant verifier is not configured")
	}

	var parsed seatGrantClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return seatGrantClaims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return seatGrantClaims{}, apperrors.WithMetadata(
			apperrors.CodeSeatGrantMismatch,
			"seat grant issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return seatGrantClaims{}, apperrors.WithMetadata(
			apperrors.CodeSeatGrantMismatch,
			"seat grant audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}

	if parsed.ID == "" {
		return seatGrantClaims{}, apperrors.New(apperrors.CodeSeatGrantInvalid, "seat grant jti is required")
	}
	if parsed.ExpiresAt == nil {
		return seatGrantClaims{}, apperrors.New(apperrors.CodeSeatGrantInvalid, "seat grant exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return seatGrantClaims{}, apperrors.New(apperrors.CodeSeatGrantExpired, "seat grant is expired")
	}
	if parsed.NotBefore != nil {
		nbf := parsed.NotBefore.Time.UTC()
		if now.Before(nbf) {
			return seatGrantClaims{}, apperrors.New(apperrors.CodeSeatGrantInvalid, "seat grant not active yet")
		}
	}
	return parsed, nil
}

func buildSeatGrantClaims(parsed seatGrantClaims) SeatGrantClaims {
	claims := SeatGrantClaims{
		Issuer:   parsed.Issuer,
		Audience: []string(parsed.Audience),
		JWTID:    parsed.ID,
		GameID:   parsed.GameID,
		Player:   parsed.Player,
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.Time.UTC()
	}
	if parsed.NotBefore != nil {
		claims.NotBefore = parsed.NotBefore.Time.UTC()
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeSeatGrantInvalid, "seat grant signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeSeatGrantInvalid, "seat grant alg is invalid")
	}
	return apperrors.New(apperrors.CodeSeatGrantInvalid, "seat grant is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
