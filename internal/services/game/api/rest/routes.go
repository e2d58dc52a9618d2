package rest

import "net/http"

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc(http.MethodPost+" /v1/games", s.handleCreateGame)
	mux.HandleFunc(http.MethodGet+" /v1/games", s.handleListGames)

	mux.HandleFunc(http.MethodGet+" /v1/games/{game}", s.handleGetGame)
	mux.HandleFunc(http.MethodPut+" /v1/games/{game}", s.handleSetPhase)
	mux.HandleFunc(http.MethodPatch+" /v1/games/{game}", s.handleAdvanceGame)

	mux.HandleFunc(http.MethodGet+" /v1/games/{game}/players/{player}/abilities", s.handleListAbilities)
	mux.HandleFunc(http.MethodPut+" /v1/games/{game}/players/{player}/abilities/{ability}", s.handleQueueAbility)
	mux.HandleFunc(http.MethodDelete+" /v1/games/{game}/players/{player}/abilities/{ability}", s.handleDequeueAbility)

	mux.HandleFunc(http.MethodGet+" /v1/games/{game}/chats", s.handleListChats)
	mux.HandleFunc(http.MethodGet+" /v1/games/{game}/chats/{chat}/messages", s.handleListMessages)
	mux.HandleFunc(http.MethodPost+" /v1/games/{game}/chats/{chat}/messages", s.handlePostMessage)
	mux.HandleFunc(http.MethodPost+" /v1/games/{game}/players/{player}/messages", s.handleDirectMessage)

	mux.HandleFunc(http.MethodGet+" /v1/games/{game}/votes", s.handleVoteTally)
	mux.HandleFunc(http.MethodPost+" /v1/games/{game}/votes", s.handleCastVote)
	mux.HandleFunc(http.MethodDelete+" /v1/games/{game}/votes", s.handleRetractVote)

	mux.HandleFunc(http.MethodGet+" /v1/games/{game}/events", s.handleListEvents)
	mux.HandleFunc(http.MethodPost+" /v1/games/{game}/claims", s.handleClaimSeat)
}
