package rest

import (
	"encoding/json"
	"net/http"

	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
)

type voteTallyResponse struct {
	Votes []game.VoteCount `json:"votes"`
}

// handleVoteTally returns the public day-vote standings. Votes are
// open information, so no credentials are needed.
func (s *Server) handleVoteTally(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game")
	votes, err := s.service.VoteTally(r.Context(), gameID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, voteTallyResponse{Votes: votes})
}

type castVoteRequest struct {
	Target string `json:"target"`
	// Voter is honored only for moderator calls.
	Voter string `json:"voter"`
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game")
	actorType, actorID, err := s.resolveActor(r, gameID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req castVoteRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	payload := game.VotePayload{Target: req.Target}
	if actorType == command.ActorTypeModerator {
		payload.Voter = req.Voter
	}
	s.executeVote(w, r, gameID, game.CommandTypeVote, actorType, actorID, payload)
}

type retractVoteRequest struct {
	// Voter is honored only for moderator calls.
	Voter string `json:"voter"`
}

func (s *Server) handleRetractVote(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game")
	actorType, actorID, err := s.resolveActor(r, gameID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req retractVoteRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	payload := game.RetractVotePayload{}
	if actorType == command.ActorTypeModerator {
		payload.Voter = req.Voter
	}
	s.executeVote(w, r, gameID, game.CommandTypeRetractVote, actorType, actorID, payload)
}

// executeVote runs a vote command and responds with the refreshed
// tally so clients need no follow-up read.
func (s *Server) executeVote(w http.ResponseWriter, r *http.Request, gameID string,
	cmdType command.Type, actorType command.ActorType, actorID string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	decision, err := s.service.Execute(r.Context(), command.Command{
		GameID:      gameID,
		Type:        cmdType,
		ActorType:   actorType,
		ActorID:     actorID,
		RequestID:   requestIDFrom(r),
		PayloadJSON: raw,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(decision.Rejections) > 0 {
		writeRejections(w, decision.Rejections)
		return
	}
	votes, err := s.service.VoteTally(r.Context(), gameID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, voteTallyResponse{Votes: votes})
}
