package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	coreencoding "github.com/louisbranch/smalltown/internal/services/game/domain/core/encoding"
)

// Type identifies the command type string.
type Type string

// ActorType identifies who initiated the command.
type ActorType string

const (
	// ActorTypeSystem marks commands the service issues to itself.
	ActorTypeSystem ActorType = "system"
	// ActorTypePlayer marks commands from a seated player.
	ActorTypePlayer ActorType = "player"
	// ActorTypeModerator marks commands from the table moderator.
	ActorTypeModerator ActorType = "moderator"
)

// Command is the canonical envelope handed to deciders.
type Command struct {
	GameID      string
	Type        Type
	ActorType   ActorType
	ActorID     string
	RequestID   string
	EntityType  string
	EntityID    string
	PayloadJSON []byte
}

// Envelope validation errors. Deciders never see a command that failed
// these checks.
var (
	ErrGameIDRequired   = errors.New("game id is required")
	ErrTypeRequired     = errors.New("command type is required")
	ErrTypeUnknown      = errors.New("command type is not registered")
	ErrActorTypeInvalid = errors.New("actor type is invalid")
	ErrActorIDRequired  = errors.New("actor id is required for player commands")
	ErrPayloadInvalid   = errors.New("payload json must be valid")
)

// PayloadValidator checks a payload JSON document.
type PayloadValidator func(json.RawMessage) error

// Definition registers metadata for a command type.
type Definition struct {
	Type            Type
	ValidatePayload PayloadValidator
}

// Registry holds command definitions and normalizes incoming commands
// against them.
type Registry struct {
	definitions map[Type]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Type]Definition)}
}

// Register adds a command type definition. Duplicate registrations are
// an error so wiring mistakes surface at startup, not at dispatch.
func (r *Registry) Register(def Definition) error {
	if r == nil {
		return errors.New("registry is required")
	}
	def.Type = Type(strings.TrimSpace(string(def.Type)))
	if def.Type == "" {
		return ErrTypeRequired
	}
	if r.definitions == nil {
		r.definitions = make(map[Type]Definition)
	}
	if _, exists := r.definitions[def.Type]; exists {
		return fmt.Errorf("command type already registered: %s", def.Type)
	}
	r.definitions[def.Type] = def
	return nil
}

// ValidateForDecision normalizes the envelope and runs the type's
// payload validator. The returned command has trimmed identifiers, a
// settled actor type, and canonical payload JSON.
func (r *Registry) ValidateForDecision(cmd Command) (Command, error) {
	cmd, def, err := r.normalizeEnvelope(cmd)
	if err != nil {
		return Command{}, err
	}
	return canonicalizePayload(cmd, def)
}

// normalizeEnvelope trims identifiers, settles the actor type, and
// resolves the command definition.
func (r *Registry) normalizeEnvelope(cmd Command) (Command, Definition, error) {
	cmd.GameID = strings.TrimSpace(cmd.GameID)
	cmd.Type = Type(strings.TrimSpace(string(cmd.Type)))
	cmd.ActorType = ActorType(strings.TrimSpace(string(cmd.ActorType)))
	cmd.ActorID = strings.TrimSpace(cmd.ActorID)

	if cmd.GameID == "" {
		return Command{}, Definition{}, ErrGameIDRequired
	}
	if cmd.Type == "" {
		return Command{}, Definition{}, ErrTypeRequired
	}
	def, ok := r.definitions[cmd.Type]
	if !ok {
		return Command{}, Definition{}, ErrTypeUnknown
	}

	if cmd.ActorType == "" {
		cmd.ActorType = ActorTypeSystem
	}
	switch cmd.ActorType {
	case ActorTypeSystem, ActorTypePlayer, ActorTypeModerator:
	default:
		return Command{}, Definition{}, ErrActorTypeInvalid
	}
	if cmd.ActorType == ActorTypePlayer && cmd.ActorID == "" {
		return Command{}, Definition{}, ErrActorIDRequired
	}

	return cmd, def, nil
}

// canonicalizePayload defaults an empty payload to {}, canonicalizes the
// JSON, and runs the registered validator on the canonical bytes, so
// every layer below sees exactly what the journal will hash.
func canonicalizePayload(cmd Command, def Definition) (Command, error) {
	if len(cmd.PayloadJSON) == 0 {
		cmd.PayloadJSON = []byte("{}")
	}
	if !json.Valid(cmd.PayloadJSON) {
		return Command{}, ErrPayloadInvalid
	}

	canonical, err := coreencoding.CanonicalJSON(json.RawMessage(cmd.PayloadJSON))
	if err != nil {
		return Command{}, fmt.Errorf("canonical payload json: %w", err)
	}
	cmd.PayloadJSON = canonical

	if def.ValidatePayload != nil {
		if err := def.ValidatePayload(json.RawMessage(cmd.PayloadJSON)); err != nil {
			return Command{}, fmt.Errorf("payload invalid: %w", err)
		}
	}
	return cmd, nil
}

// Definition returns the registered definition for a type.
func (r *Registry) Definition(cmdType Type) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	cmdType = Type(strings.TrimSpace(string(cmdType)))
	if cmdType == "" {
		return Definition{}, false
	}
	def, ok := r.definitions[cmdType]
	return def, ok
}

// ListDefinitions returns registered definitions sorted by type.
func (r *Registry) ListDefinitions() []Definition {
	if r == nil || len(r.definitions) == 0 {
		return nil
	}
	definitions := make([]Definition, 0, len(r.definitions))
	for _, definition := range r.definitions {
		definitions = append(definitions, definition)
	}
	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Type < definitions[j].Type
	})
	return definitions
}
