package integrity

import (
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
)

// EventHash and ChainHash re-export the domain event hashes for the
// storage layer. The envelope layout lives with the event type; the
// journal only needs the digests, so the domain package stays the one
// place that defines field ordering.

// EventHash computes the content hash for a single event payload.
func EventHash(evt event.Event) (string, error) {
	return event.EventHash(evt)
}

// ChainHash computes the hash linking an event to its predecessor.
func ChainHash(evt event.Event, prevHash string) (string, error) {
	return event.ChainHash(evt, prevHash)
}
