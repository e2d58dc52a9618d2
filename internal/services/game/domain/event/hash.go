package event

import (
	"encoding/json"
	"errors"

	coreencoding "github.com/louisbranch/smalltown/internal/services/game/domain/core/encoding"
)

// ErrHashRequired indicates a chain hash was requested before the content hash.
var ErrHashRequired = errors.New("event hash is required")

// hashEnvelope is the canonical hashed view of an event. The integrity
// fields assigned during append (Seq, Hash, PrevHash, ChainHash,
// Signature) stay out: a retried append of the same fact hashes
// identically, so the journal's unique hash index deduplicates it.
type hashEnvelope struct {
	GameID     string          `json:"game_id"`
	Timestamp  int64           `json:"timestamp"`
	Type       string          `json:"type"`
	RequestID  string          `json:"request_id"`
	ActorType  string          `json:"actor_type"`
	ActorID    string          `json:"actor_id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Phase      string          `json:"phase"`
	Day        int             `json:"day"`
	Payload    json.RawMessage `json:"payload"`
}

// EventHash computes the content-addressed identity of an event.
//
// The hash covers the addressing and payload fields only; the field set
// is defined here in one place for append and verification.
func EventHash(evt Event) (string, error) {
	if evt.GameID == "" {
		return "", ErrGameIDRequired
	}
	if evt.Type == "" {
		return "", ErrTypeRequired
	}

	payload := evt.PayloadJSON
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	if !json.Valid(payload) {
		return "", ErrPayloadInvalid
	}

	return coreencoding.ContentHash(hashEnvelope{
		GameID:     evt.GameID,
		Timestamp:  evt.Timestamp.UTC().UnixMilli(),
		Type:       string(evt.Type),
		RequestID:  evt.RequestID,
		ActorType:  string(evt.ActorType),
		ActorID:    evt.ActorID,
		EntityType: evt.EntityType,
		EntityID:   evt.EntityID,
		Phase:      string(evt.Phase),
		Day:        evt.Day,
		Payload:    json.RawMessage(payload),
	})
}

// chainEnvelope links an event hash to its predecessor's chain hash.
type chainEnvelope struct {
	EventHash string `json:"event_hash"`
	PrevHash  string `json:"prev_hash"`
}

// ChainHash links an event's content hash to the previous chain hash.
// The first event of a game passes an empty prevHash.
func ChainHash(evt Event, prevHash string) (string, error) {
	if evt.Hash == "" {
		return "", ErrHashRequired
	}
	return coreencoding.ContentHash(chainEnvelope{
		EventHash: evt.Hash,
		PrevHash:  prevHash,
	})
}
