package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	coreencoding "github.com/louisbranch/smalltown/internal/services/game/domain/core/encoding"
)

var (
	// ErrGameIDRequired indicates a missing game id.
	ErrGameIDRequired = errors.New("game id is required")
	// ErrTypeRequired indicates a missing event type.
	ErrTypeRequired = errors.New("event type is required")
	// ErrTypeUnknown indicates an unregistered event type.
	ErrTypeUnknown = errors.New("event type is not registered")
	// ErrEntityTypeRequired indicates missing entity addressing.
	ErrEntityTypeRequired = errors.New("entity type is required")
	// ErrEntityIDRequired indicates missing entity addressing.
	ErrEntityIDRequired = errors.New("entity id is required")
	// ErrActorTypeInvalid indicates an unknown actor type.
	ErrActorTypeInvalid = errors.New("actor type is invalid")
	// ErrActorIDRequired indicates a missing actor id for player events.
	ErrActorIDRequired = errors.New("actor id is required for player events")
	// ErrPayloadInvalid indicates malformed payload JSON.
	ErrPayloadInvalid = errors.New("payload json must be valid")
)

// AddressingPolicy declares whether an event type must name an entity.
type AddressingPolicy string

const (
	// AddressingPolicyNone indicates entity addressing is optional.
	AddressingPolicyNone AddressingPolicy = "none"
	// AddressingPolicyEntityTarget indicates entity addressing is required.
	AddressingPolicyEntityTarget AddressingPolicy = "entity-target"
)

// Intent declares how an event type participates in state rebuilding.
type Intent string

const (
	// IntentProjectionAndReplay marks events that fold into state and
	// feed projections.
	IntentProjectionAndReplay Intent = "projection-and-replay"
	// IntentAuditOnly marks events kept purely for the record.
	IntentAuditOnly Intent = "audit-only"
)

// PayloadValidator validates a payload JSON document.
type PayloadValidator func(json.RawMessage) error

// Definition registers metadata for an event type.
type Definition struct {
	Type            Type
	Addressing      AddressingPolicy
	Intent          Intent
	ValidatePayload PayloadValidator
}

// Registry stores event definitions and validates events before append.
type Registry struct {
	definitions map[Type]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Type]Definition)}
}

// Register adds a new event type definition to the registry.
func (r *Registry) Register(def Definition) error {
	if r == nil {
		return errors.New("registry is required")
	}
	def.Type = Type(strings.TrimSpace(string(def.Type)))
	if def.Type == "" {
		return ErrTypeRequired
	}
	switch def.Addressing {
	case AddressingPolicyNone, AddressingPolicyEntityTarget:
	case "":
		def.Addressing = AddressingPolicyNone
	default:
		return fmt.Errorf("addressing policy is invalid: %s", def.Addressing)
	}
	switch def.Intent {
	case IntentProjectionAndReplay, IntentAuditOnly:
	case "":
		def.Intent = IntentProjectionAndReplay
	default:
		return fmt.Errorf("intent is invalid: %s", def.Intent)
	}
	if r.definitions == nil {
		r.definitions = make(map[Type]Definition)
	}
	if _, exists := r.definitions[def.Type]; exists {
		return fmt.Errorf("event type already registered: %s", def.Type)
	}
	r.definitions[def.Type] = def
	return nil
}

// ValidateForAppend validates and normalizes an event before persistence.
func (r *Registry) ValidateForAppend(evt Event) (Event, error) {
	evt.GameID = strings.TrimSpace(evt.GameID)
	if evt.GameID == "" {
		return Event{}, ErrGameIDRequired
	}
	evt.Type = Type(strings.TrimSpace(string(evt.Type)))
	if evt.Type == "" {
		return Event{}, ErrTypeRequired
	}
	def, ok := r.definitions[evt.Type]
	if !ok {
		return Event{}, ErrTypeUnknown
	}

	evt.EntityType = strings.TrimSpace(evt.EntityType)
	evt.EntityID = strings.TrimSpace(evt.EntityID)
	if def.Addressing == AddressingPolicyEntityTarget {
		if evt.EntityType == "" {
			return Event{}, ErrEntityTypeRequired
		}
		if evt.EntityID == "" {
			return Event{}, ErrEntityIDRequired
		}
	}

	evt.ActorType = ActorType(strings.TrimSpace(string(evt.ActorType)))
	if evt.ActorType == "" {
		evt.ActorType = ActorTypeSystem
	}
	switch evt.ActorType {
	case ActorTypeSystem, ActorTypePlayer, ActorTypeModerator:
	default:
		return Event{}, ErrActorTypeInvalid
	}
	evt.ActorID = strings.TrimSpace(evt.ActorID)
	if evt.ActorType == ActorTypePlayer && evt.ActorID == "" {
		return Event{}, ErrActorIDRequired
	}

	if len(evt.PayloadJSON) == 0 {
		evt.PayloadJSON = []byte("{}")
	}
	if !json.Valid(evt.PayloadJSON) {
		return Event{}, ErrPayloadInvalid
	}
	canonical, err := coreencoding.CanonicalJSON(json.RawMessage(evt.PayloadJSON))
	if err != nil {
		return Event{}, fmt.Errorf("canonical payload json: %w", err)
	}
	evt.PayloadJSON = canonical
	if def.ValidatePayload != nil {
		if err := def.ValidatePayload(json.RawMessage(evt.PayloadJSON)); err != nil {
			return Event{}, fmt.Errorf("payload invalid: %w", err)
		}
	}
	return evt, nil
}

// Definition returns the event definition for a given type.
func (r *Registry) Definition(eventType Type) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	eventType = Type(strings.TrimSpace(string(eventType)))
	if eventType == "" {
		return Definition{}, false
	}
	def, ok := r.definitions[eventType]
	return def, ok
}

// ListDefinitions returns a stable, sorted snapshot of registered definitions.
func (r *Registry) ListDefinitions() []Definition {
	if r == nil || len(r.definitions) == 0 {
		return nil
	}
	definitions := make([]Definition, 0, len(r.definitions))
	for _, definition := range r.definitions {
		definitions = append(definitions, definition)
	}
	sort.Slice(definitions, func(i, j int) bool {
		return string(definitions[i].Type) < string(definitions[j].Type)
	})
	return definitions
}
