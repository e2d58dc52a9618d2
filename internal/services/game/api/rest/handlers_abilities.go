package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
	"github.com/louisbranch/smalltown/internal/services/game/i18n"
)

type abilityListResponse struct {
	Abilities []game.AbilityStatus `json:"abilities"`
}

// localizeAbilities rewrites display names and descriptions for the
// locale in the Accept-Language header. Ability IDs stay stable so
// requests are unaffected.
func localizeAbilities(r *http.Request, abilities []game.AbilityStatus) {
	p := i18n.Printer(r.Header.Get("Accept-Language"))
	for i := range abilities {
		abilities[i].Name = i18n.Lookup(p, i18n.AbilityNameKey(abilities[i].ID), abilities[i].Name)
		abilities[i].Description = i18n.Lookup(p, i18n.AbilityDescriptionKey(abilities[i].ID), abilities[i].Description)
	}
}

// authorizePlayerView admits the moderator and the named player.
// Ability state discloses role information, so other seats stay out.
func (s *Server) authorizePlayerView(r *http.Request, gameID, player string) error {
	viewer, err := s.service.ResolveViewer(r.Context(), gameID, credentialsFrom(r))
	if err != nil {
		return err
	}
	if viewer.Moderator || viewer.Player == player {
		return nil
	}
	return apperrors.New(apperrors.CodeNotAuthorized,
		fmt.Sprintf("caller is not player %s", player))
}

func (s *Server) handleListAbilities(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game")
	player := r.PathValue("player")
	if err := s.authorizePlayerView(r, gameID, player); err != nil {
		s.writeError(w, r, err)
		return
	}
	abilities, err := s.service.Abilities(r.Context(), gameID, player)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	localizeAbilities(r, abilities)
	_ = writeJSON(w, http.StatusOK, abilityListResponse{Abilities: abilities})
}

type queueAbilityRequest struct {
	Targets []string `json:"targets"`
}

func (s *Server) handleQueueAbility(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game")
	player := r.PathValue("player")
	abilityID := r.PathValue("ability")
	actorType, actorID, err := s.resolveActor(r, gameID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if actorType == command.ActorTypePlayer && actorID != player {
		s.writeError(w, r, apperrors.New(apperrors.CodeNotAuthorized,
			fmt.Sprintf("caller is not player %s", player)))
		return
	}
	var req queueAbilityRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	payload := game.QueuePayload{AbilityID: abilityID, Targets: req.Targets}
	if actorType == command.ActorTypeModerator {
		payload.User = player
	}
	s.executeAbility(w, r, gameID, player, game.CommandTypeQueue, actorType, actorID, payload)
}

func (s *Server) handleDequeueAbility(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game")
	player := r.PathValue("player")
	abilityID := r.PathValue("ability")
	actorType, actorID, err := s.resolveActor(r, gameID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if actorType == command.ActorTypePlayer && actorID != player {
		s.writeError(w, r, apperrors.New(apperrors.CodeNotAuthorized,
			fmt.Sprintf("caller is not player %s", player)))
		return
	}
	payload := game.DequeuePayload{AbilityID: abilityID}
	if actorType == command.ActorTypeModerator {
		payload.User = player
	}
	s.executeAbility(w, r, gameID, player, game.CommandTypeDequeue, actorType, actorID, payload)
}

// executeAbility runs a queue or dequeue command and responds with the
// refreshed ability list so clients need no follow-up read.
func (s *Server) executeAbility(w http.ResponseWriter, r *http.Request, gameID, player string,
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
	abilities, err := s.service.Abilities(r.Context(), gameID, player)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	localizeAbilities(r, abilities)
	_ = writeJSON(w, http.StatusOK, abilityListResponse{Abilities: abilities})
}
