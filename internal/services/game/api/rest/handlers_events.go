package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
)

// eventJSON is the wire form of a journal event. The signature fields
// stay server-side; hash and chain hash are enough for external audit.
type eventJSON struct {
	Seq        uint64          `json:"seq"`
	Type       event.Type      `json:"type"`
	Timestamp  time.Time       `json:"timestamp"`
	ActorType  event.ActorType `json:"actor_type,omitempty"`
	ActorID    string          `json:"actor_id,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
	EntityType string          `json:"entity_type,omitempty"`
	EntityID   string          `json:"entity_id,omitempty"`
	Phase      phase.Kind      `json:"phase,omitempty"`
	Day        int             `json:"day,omitempty"`
	Hash       string          `json:"hash,omitempty"`
	ChainHash  string          `json:"chain_hash,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

func toEventJSON(ev event.Event) eventJSON {
	return eventJSON{
		Seq:        ev.Seq,
		Type:       ev.Type,
		Timestamp:  ev.Timestamp,
		ActorType:  ev.ActorType,
		ActorID:    ev.ActorID,
		RequestID:  ev.RequestID,
		EntityType: ev.EntityType,
		EntityID:   ev.EntityID,
		Phase:      ev.Phase,
		Day:        ev.Day,
		Hash:       ev.Hash,
		ChainHash:  ev.ChainHash,
		Payload:    json.RawMessage(ev.PayloadJSON),
	}
}

type eventListResponse struct {
	Events      []eventJSON `json:"events"`
	TotalCount  int         `json:"total_count"`
	HasNextPage bool        `json:"has_next_page"`
}

// handleListEvents serves the moderator audit view of the journal,
// optionally narrowed by an AIP-160 filter expression.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game")
	if err := s.service.VerifyModerator(r.Context(), gameID, credentialsFrom(r).ModToken); err != nil {
		s.writeError(w, r, err)
		return
	}
	start, limit := pagingParams(r)
	result, err := s.service.Events(r.Context(), gameID, r.URL.Query().Get("filter"), start, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := eventListResponse{
		Events:      make([]eventJSON, 0, len(result.Events)),
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}
	for _, ev := range result.Events {
		resp.Events = append(resp.Events, toEventJSON(ev))
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

type claimSeatRequest struct {
	Grant string `json:"grant"`
}

type claimSeatResponse struct {
	GameID    string    `json:"game_id"`
	Player    string    `json:"player"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleClaimSeat verifies a seat grant and discloses which seat it
// names, so clients can exchange an invite link for an identity.
func (s *Server) handleClaimSeat(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game")
	var req claimSeatRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	claims, err := s.service.ClaimSeat(r.Context(), gameID, req.Grant)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, claimSeatResponse{
		GameID:    claims.GameID,
		Player:    claims.Player,
		ExpiresAt: claims.ExpiresAt,
	})
}
