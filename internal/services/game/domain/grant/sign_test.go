package grant

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"
)

func TestSignSeatGrantRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	grant, err := SignSeatGrant(SeatGrantParams{
		Issuer:   "issuer",
		Audience: "game-service",
		GameID:   "game-1",
		Player:   "alice",
		TTL:      2 * time.Hour,
		Now:      func() time.Time { return now },
	}, priv)
	if err != nil {
		t.Fatalf("sign seat grant: %v", err)
	}

	cfg := SeatGrantConfig{Issuer: "issuer", Audience: "game-service", Key: pub, Now: func() time.Time { return now }}
	claims, err := ValidateSeatGrant(grant, SeatGrantExpectation{GameID: "game-1", Player: "alice"}, cfg)
	if err != nil {
		t.Fatalf("validate signed grant: %v", err)
	}
	if claims.GameID != "game-1" || claims.Player != "alice" {
		t.Fatal("expected game and player claims to round-trip")
	}
	if claims.JWTID == "" {
		t.Fatal("expected a minted jti")
	}
	if !claims.ExpiresAt.Equal(now.Add(2 * time.Hour)) {
		t.Fatalf("expires at = %v, want %v", claims.ExpiresAt, now.Add(2*time.Hour))
	}
}

func TestSignSeatGrantValidatesParams(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	base := SeatGrantParams{
		Issuer:   "issuer",
		Audience: "game-service",
		GameID:   "game-1",
		Player:   "alice",
		TTL:      time.Hour,
	}

	tests := []struct {
		name   string
		mutate func(*SeatGrantParams)
		key    ed25519.PrivateKey
	}{
		{name: "missing issuer", mutate: func(p *SeatGrantParams) { p.Issuer = " " }, key: priv},
		{name: "missing audience", mutate: func(p *SeatGrantParams) { p.Audience = "" }, key: priv},
		{name: "missing game", mutate: func(p *SeatGrantParams) { p.GameID = "" }, key: priv},
		{name: "missing player", mutate: func(p *SeatGrantParams) { p.Player = "" }, key: priv},
		{name: "non-positive ttl", mutate: func(p *SeatGrantParams) { p.TTL = 0 }, key: priv},
		{name: "short key", mutate: func(*SeatGrantParams) {}, key: priv[:16]},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := base
			tc.mutate(&params)
			if _, err := SignSeatGrant(params, tc.key); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSignSeatGrantRejectsWrongVerifier(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	otherPub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	grant, err := SignSeatGrant(SeatGrantParams{
		Issuer:   "issuer",
		Audience: "game-service",
		GameID:   "game-1",
		Player:   "alice",
		TTL:      time.Hour,
	}, priv)
	if err != nil {
		t.Fatalf("sign seat grant: %v", err)
	}

	cfg := SeatGrantConfig{Issuer: "issuer", Audience: "game-service", Key: otherPub}
	if _, err := ValidateSeatGrant(grant, SeatGrantExpectation{GameID: "game-1", Player: "alice"}, cfg); err == nil {
		t.Fatal("expected signature error under another key")
	}
}
