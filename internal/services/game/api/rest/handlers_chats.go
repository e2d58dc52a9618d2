package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
)

type chatListResponse struct {
	Chats []game.ChatOverview `json:"chats"`
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game")
	viewer, err := s.service.ResolveViewer(r.Context(), gameID, credentialsFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	chats, err := s.service.Chats(r.Context(), gameID, viewer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, chatListResponse{Chats: chats})
}

type messageJSON struct {
	Seq    uint64    `json:"seq"`
	Author string    `json:"author"`
	At     time.Time `json:"at"`
	Body   string    `json:"body"`
}

type messageListResponse struct {
	Messages   []messageJSON `json:"messages"`
	TotalCount int           `json:"total_count"`
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("game")
	chatID := r.PathValue("chat")
	viewer, err := s.service.ResolveViewer(r.Context(), gameID, credentialsFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	start, limit := pagingParams(r)
	page, err := s.service.Messages(r.Context(), gameID, chatID, viewer, start, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := messageListResponse{Messages: make([]messageJSON, 0, len(page.Messages)), TotalCount: page.TotalCount}
	for _, msg := range page.Messages {
		resp.Messages = append(resp.Messages, messageJSON{
			Seq:    msg.Seq,
			Author: msg.Author,
			At:     msg.At,
			Body:   msg.Content,
		})
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

type postMessageRequest struct {
	Body string `json:"body"`
}

type postMessageResponse struct {
	ChatID string `json:"chat_id"`
	Seq    uint64 `json:"seq"`
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	s.postMessage(w, r, game.PostPayload{ChatID: r.PathValue("chat")})
}

// handleDirectMessage posts into the pairwise private channel with the
// named player, creating the channel on first contact.
func (s *Server) handleDirectMessage(w http.ResponseWriter, r *http.Request) {
	s.postMessage(w, r, game.PostPayload{To: r.PathValue("player")})
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request, payload game.PostPayload) {
	gameID := r.PathValue("game")
	actorType, actorID, err := s.resolveActor(r, gameID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req postMessageRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	payload.Body = req.Body
	raw, err := json.Marshal(payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	decision, err := s.service.Execute(r.Context(), command.Command{
		GameID:      gameID,
		Type:        game.CommandTypePost,
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
	resp := postMessageResponse{}
	for _, ev := range decision.Events {
		if ev.Type != event.TypeChatPosted {
			continue
		}
		var posted game.PostedPayload
		if err := json.Unmarshal(ev.PayloadJSON, &posted); err == nil {
			resp.ChatID = posted.ChatID
			resp.Seq = posted.Seq
		}
	}
	_ = writeJSON(w, http.StatusCreated, resp)
}
