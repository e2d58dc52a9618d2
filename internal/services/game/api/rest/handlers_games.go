package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
	"github.com/louisbranch/smalltown/internal/services/game/app"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
)

// Batch actions accepted by PATCH /v1/games/{game}.
const (
	actionResolve   = "resolve"
	actionNextPhase = "next_phase"
)

type createGameRequest struct {
	// GameID is optional; one is minted when empty.
	GameID string `json:"game_id"`
	game.CreatePayload
}

type createGameResponse struct {
	GameID string `json:"game_id"`
	// ModeratorToken is disclosed here and never again.
	ModeratorToken string `json:"moderator_token"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	// The hash is derived from the minted token, never client-supplied.
	req.ModTokenHash = ""
	result, err := s.service.CreateGame(r.Context(), app.CreateParams{
		GameID:    req.GameID,
		RequestID: requestIDFrom(r),
		Payload:   req.CreatePayload,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(result.Decision.Rejections) > 0 {
		writeRejections(w, result.Decision.Rejections)
		return
	}
	_ = writeJSON(w, http.StatusCreated, createGameResponse{
		GameID:         result.GameID,
		ModeratorToken: result.Token,
	})
}

type gameSummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Phase       phase.Kind `json:"phase"`
	Day         int        `json:"day"`
	Winner      string     `json:"winner,omitempty"`
	PlayerCount int        `json:"player_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type listGamesResponse struct {
	Games      []gameSummary `json:"games"`
	TotalCount int           `json:"total_count"`
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	start, limit := pagingParams(r)
	page, err := s.service.ListGames(r.Context(), start, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := listGamesResponse{Games: make([]gameSummary, 0, len(page.Games)), TotalCount: page.TotalCount}
	for _, rec := range page.Games {
		resp.Games = append(resp.Games, gameSummary{
			ID:          rec.ID,
			Name:        rec.Name,
			Status:      rec.Status,
			Phase:       rec.Phase,
			Day:         rec.Day,
			Winner:      rec.Winner,
			PlayerCount: rec.PlayerCount,
			CreatedAt:   rec.CreatedAt,
			UpdatedAt:   rec.UpdatedAt,
		})
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game")
	viewer, err := s.service.ResolveViewer(r.Context(), gameID, credentialsFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	overview, err := s.service.Overview(r.Context(), gameID, viewer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleSetPhase(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game")
	if err := s.service.VerifyModerator(r.Context(), gameID, credentialsFrom(r).ModToken); err != nil {
		s.writeError(w, r, err)
		return
	}
	var payload game.SetPhasePayload
	if err := decodeBody(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	decision, err := s.service.Execute(r.Context(), command.Command{
		GameID:      gameID,
		Type:        game.CommandTypeSetPhase,
		ActorType:   command.ActorTypeModerator,
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
	s.writeModeratorOverview(w, r, gameID)
}

type advanceGameRequest struct {
	Actions []string `json:"actions"`
}

// actionResult reports the outcome of one batch action. Events are
// fully disclosed; only moderators reach this endpoint.
type actionResult struct {
	Action     string          `json:"action"`
	Events     []eventJSON     `json:"events,omitempty"`
	Rejections []rejectionBody `json:"rejections,omitempty"`
}

type advanceGameResponse struct {
	Results  []actionResult `json:"results"`
	Overview game.Overview  `json:"overview"`
}

// handleAdvanceGame runs the requested lifecycle actions. Resolution
// always runs before the phase advance so queued night abilities are
// settled against the phase they were queued in.
func (s *Server) handleAdvanceGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game")
	if err := s.service.VerifyModerator(r.Context(), gameID, credentialsFrom(r).ModToken); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req advanceGameRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Actions) == 0 {
		s.writeError(w, r, apperrors.New(apperrors.CodeInvalidRequest, "actions is required"))
		return
	}
	var wantResolve, wantAdvance bool
	for _, action := range req.Actions {
		switch action {
		case actionResolve:
			wantResolve = true
		case actionNextPhase:
			wantAdvance = true
		default:
			s.writeError(w, r, apperrors.New(apperrors.CodeInvalidRequest,
				fmt.Sprintf("unknown action %q", action)))
			return
		}
	}
	ordered := make([]string, 0, 2)
	if wantResolve {
		ordered = append(ordered, actionResolve)
	}
	if wantAdvance {
		ordered = append(ordered, actionNextPhase)
	}

	resp := advanceGameResponse{Results: make([]actionResult, 0, len(ordered))}
	for _, action := range ordered {
		cmdType := game.CommandTypeResolve
		if action == actionNextPhase {
			cmdType = game.CommandTypeAdvancePhase
		}
		decision, err := s.service.Execute(r.Context(), command.Command{
			GameID:    gameID,
			Type:      cmdType,
			ActorType: command.ActorTypeModerator,
			RequestID: requestIDFrom(r),
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		result := actionResult{Action: action}
		for _, ev := range decision.Events {
			result.Events = append(result.Events, toEventJSON(ev))
		}
		for _, rej := range decision.Rejections {
			result.Rejections = append(result.Rejections, rejectionBody{Code: rej.Code, Message: rej.Message})
		}
		resp.Results = append(resp.Results, result)
	}

	overview, err := s.service.Overview(r.Context(), gameID, game.Viewer{Moderator: true})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp.Overview = overview
	_ = writeJSON(w, http.StatusOK, resp)
}

// writeModeratorOverview responds with the unredacted game overview.
func (s *Server) writeModeratorOverview(w http.ResponseWriter, r *http.Request, gameID string) {
	overview, err := s.service.Overview(r.Context(), gameID, game.Viewer{Moderator: true})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, overview)
}
