package command

import (
	"errors"

	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
)

// Rejection codes shared by multiple deciders.
const (
	// RejectionCodePayloadDecodeFailed signals malformed command payload JSON.
	RejectionCodePayloadDecodeFailed = "PAYLOAD_DECODE_FAILED"
	// RejectionCodeCommandTypeUnsupported signals a command type no decider handles.
	RejectionCodeCommandTypeUnsupported = "COMMAND_TYPE_UNSUPPORTED"
)

// Decision represents the pure outcome of handling a command. A decision
// with neither events nor rejections is a deliberate no-op.
type Decision struct {
	Events     []event.Event
	Rejections []Rejection
}

// Validate confirms the decision carries events or rejections.
func (d Decision) Validate() error {
	if len(d.Events) == 0 && len(d.Rejections) == 0 {
		return errors.New("decision must carry events or rejections")
	}
	return nil
}

// Rejection captures a domain-level reason a command was declined.
type Rejection struct {
	Code    string
	Message string
}

// Accept returns a decision that emits the provided events.
func Accept(events ...event.Event) Decision {
	return Decision{Events: append([]event.Event(nil), events...)}
}

// Reject returns a decision that carries the provided rejections.
func Reject(rejections ...Rejection) Decision {
	return Decision{Rejections: append([]Rejection(nil), rejections...)}
}
