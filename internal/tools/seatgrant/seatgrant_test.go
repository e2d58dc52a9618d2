package seatgrant

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/domain/grant"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("seat-grant-key", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.TTL != 24*time.Hour {
		t.Fatalf("expected default ttl 24h, got %v", cfg.TTL)
	}
	if cfg.GameID != "" || cfg.Player != "" {
		t.Fatalf("expected keygen mode defaults, got %+v", cfg)
	}
}

func TestParseConfigSignFlags(t *testing.T) {
	fs := flag.NewFlagSet("seat-grant-key", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-issuer", "host", "-audience", "game-service",
		"-game", "game-1", "-player", "alice", "-ttl", "1h",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Issuer != "host" || cfg.Audience != "game-service" {
		t.Fatalf("expected issuer and audience flags, got %+v", cfg)
	}
	if cfg.GameID != "game-1" || cfg.Player != "alice" || cfg.TTL != time.Hour {
		t.Fatalf("expected sign flags, got %+v", cfg)
	}
}

func TestRunKeygenWritesExports(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Run(Config{}, buf, zeroReader{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 export lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "export "+EnvPrivateKey+"=") {
		t.Fatalf("expected private key export, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "export "+grant.EnvSeatGrantPublicKey+"=") {
		t.Fatalf("expected public key export, got %q", lines[1])
	}
}

func TestRunSignProducesVerifiableGrant(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	buf := &bytes.Buffer{}
	cfg := Config{
		Issuer:     "host",
		Audience:   "game-service",
		PrivateKey: base64.RawStdEncoding.EncodeToString(priv),
		GameID:     "game-1",
		Player:     "alice",
		TTL:        time.Hour,
	}
	if err := Run(cfg, buf, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	token := strings.TrimSpace(buf.String())
	verifier := grant.SeatGrantConfig{Issuer: "host", Audience: "game-service", Key: pub}
	claims, err := grant.ValidateSeatGrant(token, grant.SeatGrantExpectation{GameID: "game-1", Player: "alice"}, verifier)
	if err != nil {
		t.Fatalf("validate minted grant: %v", err)
	}
	if claims.Player != "alice" {
		t.Fatalf("expected player alice, got %q", claims.Player)
	}
}

func TestRunSignRequiresKey(t *testing.T) {
	cfg := Config{Issuer: "host", Audience: "game-service", GameID: "game-1", Player: "alice", TTL: time.Hour}
	if err := Run(cfg, &bytes.Buffer{}, nil); err == nil {
		t.Fatal("expected error without a signing key")
	}
}

func TestRunNilOutput(t *testing.T) {
	if err := Run(Config{}, nil, nil); err == nil {
		t.Fatal("expected error for nil output")
	}
}

// zeroReader feeds deterministic bytes to key generation.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
