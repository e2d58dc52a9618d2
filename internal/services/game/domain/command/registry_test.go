package command

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestRegistryValidateForDecision_MissingGameID(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{Type: Type("game.create")}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	_, err := registry.ValidateForDecision(Command{Type: Type("game.create")})
	if !errors.Is(err, ErrGameIDRequired) {
		t.Fatalf("expected ErrGameIDRequired, got %v", err)
	}
}

func TestRegistryValidateForDecision_UnknownType(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.ValidateForDecision(Command{GameID: "game-1", Type: Type("nope")})
	if !errors.Is(err, ErrTypeUnknown) {
		t.Fatalf("expected ErrTypeUnknown, got %v", err)
	}
}

func TestRegistryValidateForDecision_DefaultsActorToSystem(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{Type: Type("game.create")}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	cmd, err := registry.ValidateForDecision(Command{GameID: "game-1", Type: Type("game.create")})
	if err != nil {
		t.Fatalf("validate command: %v", err)
	}
	if cmd.ActorType != ActorTypeSystem {
		t.Fatalf("ActorType = %q, want system default", cmd.ActorType)
	}
	if string(cmd.PayloadJSON) != "{}" {
		t.Fatalf("PayloadJSON = %s, want empty object default", cmd.PayloadJSON)
	}
}

func TestRegistryValidateForDecision_PlayerRequiresActorID(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{Type: Type("ability.queue")}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	_, err := registry.ValidateForDecision(Command{
		GameID:    "game-1",
		Type:      Type("ability.queue"),
		ActorType: ActorTypePlayer,
	})
	if !errors.Is(err, ErrActorIDRequired) {
		t.Fatalf("expected ErrActorIDRequired, got %v", err)
	}

	cmd, err := registry.ValidateForDecision(Command{
		GameID:    "game-1",
		Type:      Type("ability.queue"),
		ActorType: ActorTypeModerator,
	})
	if err != nil {
		t.Fatalf("moderator without actor id rejected: %v", err)
	}
	if cmd.ActorType != ActorTypeModerator {
		t.Fatalf("ActorType = %q, want moderator", cmd.ActorType)
	}
}

func TestRegistryValidateForDecision_InvalidActorType(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{Type: Type("game.create")}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	_, err := registry.ValidateForDecision(Command{
		GameID:    "game-1",
		Type:      Type("game.create"),
		ActorType: ActorType("alien"),
	})
	if !errors.Is(err, ErrActorTypeInvalid) {
		t.Fatalf("expected ErrActorTypeInvalid, got %v", err)
	}
}

func TestRegistryValidateForDecision_CanonicalizesPayload(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{
		Type: Type("vote.cast"),
		ValidatePayload: func(raw json.RawMessage) error {
			if !strings.HasPrefix(string(raw), `{"target":`) {
				return errors.New("payload not canonical")
			}
			return nil
		},
	}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	cmd, err := registry.ValidateForDecision(Command{
		GameID:      "game-1",
		Type:        Type("vote.cast"),
		PayloadJSON: []byte("{\"voter\":\"alice\",\"target\":\"bob\"}"),
	})
	if err != nil {
		t.Fatalf("validate command: %v", err)
	}
	if string(cmd.PayloadJSON) != `{"target":"bob","voter":"alice"}` {
		t.Fatalf("PayloadJSON = %s, want canonical key order", cmd.PayloadJSON)
	}
}

func TestRegistryValidateForDecision_InvalidPayload(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{Type: Type("game.create")}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	_, err := registry.ValidateForDecision(Command{
		GameID:      "game-1",
		Type:        Type("game.create"),
		PayloadJSON: []byte("{"),
	})
	if !errors.Is(err, ErrPayloadInvalid) {
		t.Fatalf("expected ErrPayloadInvalid, got %v", err)
	}
}

func TestRegistryRegister_RejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{Type: Type("game.create")}); err != nil {
		t.Fatalf("register type: %v", err)
	}
	if err := registry.Register(Definition{Type: Type("game.create")}); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestRegistryListDefinitions_Sorted(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"vote.cast", "ability.queue", "game.create"} {
		if err := registry.Register(Definition{Type: Type(name)}); err != nil {
			t.Fatalf("register type %s: %v", name, err)
		}
	}
	definitions := registry.ListDefinitions()
	want := []Type{"ability.queue", "game.create", "vote.cast"}
	if len(definitions) != len(want) {
		t.Fatalf("definitions length = %d, want %d", len(definitions), len(want))
	}
	for i, w := range want {
		if definitions[i].Type != w {
			t.Fatalf("definitions[%d].Type = %s, want %s", i, definitions[i].Type, w)
		}
	}
}
