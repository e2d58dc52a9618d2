// Package seatgrant mints seat grant key pairs and signs grants for seats.
package seatgrant

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	entrypoint "github.com/louisbranch/smalltown/internal/platform/cmd"
	"github.com/louisbranch/smalltown/internal/services/game/domain/grant"
)

// EnvPrivateKey holds the base64 signing key used when issuing grants.
const EnvPrivateKey = "SMALLTOWN_SEAT_GRANT_PRIVATE_KEY"

// Config holds seat grant tool configuration. Without -game and
// -player the tool mints a key pair; with them it signs a grant.
type Config struct {
	Issuer     string `env:"SMALLTOWN_SEAT_GRANT_ISSUER"`
	Audience   string `env:"SMALLTOWN_SEAT_GRANT_AUDIENCE"`
	PrivateKey string `env:"SMALLTOWN_SEAT_GRANT_PRIVATE_KEY"`
	GameID     string
	Player     string
	TTL        time.Duration
}

// ParseConfig reads issuer settings from env, flags over env.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.TTL = 24 * time.Hour
	fs.StringVar(&cfg.Issuer, "issuer", cfg.Issuer, "grant issuer claim")
	fs.StringVar(&cfg.Audience, "audience", cfg.Audience, "grant audience claim")
	fs.StringVar(&cfg.PrivateKey, "key", cfg.PrivateKey, "base64 signing key (defaults to "+EnvPrivateKey+")")
	fs.StringVar(&cfg.GameID, "game", cfg.GameID, "game the grant binds")
	fs.StringVar(&cfg.Player, "player", cfg.Player, "player seat the grant binds")
	fs.DurationVar(&cfg.TTL, "ttl", cfg.TTL, "grant lifetime")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run mints a key pair or signs a grant and writes the result to out.
func Run(cfg Config, out io.Writer, reader io.Reader) error {
	if out == nil {
		return errors.New("output is required")
	}
	if cfg.GameID == "" && cfg.Player == "" {
		return runKeygen(out, reader)
	}
	return runSign(cfg, out)
}

func runKeygen(out io.Writer, reader io.Reader) error {
	if reader == nil {
		reader = rand.Reader
	}
	publicKey, privateKey, err := ed25519.GenerateKey(reader)
	if err != nil {
		return fmt.Errorf("generate seat grant key: %w", err)
	}
	if _, err := fmt.Fprintf(out, "export %s=%s\n", EnvPrivateKey, base64.RawStdEncoding.EncodeToString(privateKey)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "export %s=%s\n", grant.EnvSeatGrantPublicKey, base64.RawStdEncoding.EncodeToString(publicKey)); err != nil {
		return err
	}
	return nil
}

func runSign(cfg Config, out io.Writer) error {
	key, err := decodePrivateKey(cfg.PrivateKey)
	if err != nil {
		return err
	}
	signed, err := grant.SignSeatGrant(grant.SeatGrantParams{
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		GameID:   cfg.GameID,
		Player:   cfg.Player,
		TTL:      cfg.TTL,
	}, key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, signed)
	return err
}

func decodePrivateKey(value string) (ed25519.PrivateKey, error) {
	if value == "" {
		return nil, fmt.Errorf("signing key is required (set %s or -key)", EnvPrivateKey)
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(value)
	}
	if err != nil {
		return nil, fmt.Errorf("decode signing key: %w", err)
	}
	if len(decoded) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("signing key must be %d bytes", ed25519.PrivateKeySize)
	}
	return ed25519.PrivateKey(decoded), nil
}
