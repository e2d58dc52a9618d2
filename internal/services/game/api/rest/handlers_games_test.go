package rest

import (
	"net/http"
	"testing"

	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
)

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)

	resp, raw := doRequest(t, ts, testRequest{
		method: http.MethodPost,
		path:   "/v1/games",
		body:   testCreateBody(),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var out createGameResponse
	unmarshalBody(t, raw, &out)
	if len(out.GameID) != 26 {
		t.Fatalf("game id %q is not a minted id", out.GameID)
	}
	if out.ModeratorToken == "" {
		t.Fatal("expected a moderator token")
	}
}

func TestCreateGameRejection(t *testing.T) {
	ts := newTestServer(t)

	resp, raw := doRequest(t, ts, testRequest{
		method: http.MethodPost,
		path:   "/v1/games",
		body:   map[string]any{"name": "empty"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var out rejectionsResponse
	unmarshalBody(t, raw, &out)
	if len(out.Rejections) == 0 || out.Rejections[0].Code != "GAME_NO_PLAYERS" {
		t.Fatalf("rejections = %+v", out.Rejections)
	}
}

func TestCreateGameMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	resp, raw := doRequest(t, ts, testRequest{
		method:  http.MethodPost,
		path:    "/v1/games",
		rawBody: "{not json",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var out errorResponse
	unmarshalBody(t, raw, &out)
	if out.Code != "INVALID_REQUEST" {
		t.Fatalf("code = %q, want INVALID_REQUEST", out.Code)
	}
}

func TestListGames(t *testing.T) {
	ts := newTestServer(t)
	createGame(t, ts)
	createGame(t, ts)

	resp, raw := doRequest(t, ts, testRequest{method: http.MethodGet, path: "/v1/games"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var out listGamesResponse
	unmarshalBody(t, raw, &out)
	if out.TotalCount != 2 || len(out.Games) != 2 {
		t.Fatalf("total = %d, games = %d, want 2", out.TotalCount, len(out.Games))
	}
	first := out.Games[0]
	if first.Name != "smalltown" || first.Status != "active" || first.PlayerCount != 4 {
		t.Fatalf("summary = %+v", first)
	}
}

func TestGetGameGatesRoles(t *testing.T) {
	ts := newTestServer(t)
	gameID, token := createGame(t, ts)

	resp, raw := doRequest(t, ts, testRequest{method: http.MethodGet, path: "/v1/games/" + gameID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var public game.Overview
	unmarshalBody(t, raw, &public)
	if len(public.Players) != 4 {
		t.Fatalf("players = %d, want 4", len(public.Players))
	}
	for _, p := range public.Players {
		if p.Role != "" || p.Alignment != "" {
			t.Fatalf("public view disclosed %s as %s/%s", p.Name, p.Role, p.Alignment)
		}
	}

	_, raw = doRequest(t, ts, testRequest{
		method:  http.MethodGet,
		path:    "/v1/games/" + gameID,
		headers: modHeaders(token),
	})
	var moderated game.Overview
	unmarshalBody(t, raw, &moderated)
	for _, p := range moderated.Players {
		if p.Role == "" || p.Alignment == "" {
			t.Fatalf("moderator view hid %s", p.Name)
		}
	}

	_, raw = doRequest(t, ts, testRequest{
		method:  http.MethodGet,
		path:    "/v1/games/" + gameID,
		headers: playerHeaders("alice"),
	})
	var self game.Overview
	unmarshalBody(t, raw, &self)
	for _, p := range self.Players {
		if p.Name == "alice" && p.Role != "Doctor" {
			t.Fatalf("alice sees her role as %q", p.Role)
		}
		if p.Name == "bob" && p.Role != "" {
			t.Fatalf("alice sees bob's role as %q", p.Role)
		}
	}
}

func TestGetGameNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doRequest(t, ts, testRequest{method: http.MethodGet, path: "/v1/games/missing"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestSetPhaseRequiresModerator(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := createGame(t, ts)

	resp, _ := doRequest(t, ts, testRequest{
		method: http.MethodPut,
		path:   "/v1/games/" + gameID,
		body:   map[string]any{"kind": "night", "day": 1},
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}

func TestSetPhase(t *testing.T) {
	ts := newTestServer(t)
	gameID, token := createGame(t, ts)

	resp, raw := doRequest(t, ts, testRequest{
		method:  http.MethodPut,
		path:    "/v1/games/" + gameID,
		body:    map[string]any{"kind": "night", "day": 1},
		headers: modHeaders(token),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var overview game.Overview
	unmarshalBody(t, raw, &overview)
	if overview.Phase.Kind != "night" || overview.Phase.Day != 1 {
		t.Fatalf("phase = %+v, want night 1", overview.Phase)
	}
}

func TestSetPhaseRejection(t *testing.T) {
	ts := newTestServer(t)
	gameID, token := createGame(t, ts)

	resp, raw := doRequest(t, ts, testRequest{
		method:  http.MethodPut,
		path:    "/v1/games/" + gameID,
		body:    map[string]any{"kind": "dusk", "day": 1},
		headers: modHeaders(token),
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var out rejectionsResponse
	unmarshalBody(t, raw, &out)
	if len(out.Rejections) == 0 || out.Rejections[0].Code != "ILLEGAL_PHASE_TRANSITION" {
		t.Fatalf("rejections = %+v", out.Rejections)
	}
}

func TestPatchRunsResolveBeforeAdvance(t *testing.T) {
	ts := newTestServer(t)
	gameID, token := createGame(t, ts)

	resp, raw := doRequest(t, ts, testRequest{
		method:  http.MethodPatch,
		path:    "/v1/games/" + gameID,
		body:    map[string]any{"actions": []string{"next_phase", "resolve"}},
		headers: modHeaders(token),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var out advanceGameResponse
	unmarshalBody(t, raw, &out)
	if len(out.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(out.Results))
	}
	if out.Results[0].Action != "resolve" || out.Results[1].Action != "next_phase" {
		t.Fatalf("order = %s, %s", out.Results[0].Action, out.Results[1].Action)
	}
	// Day 1 advances to night 1.
	if out.Overview.Phase.Kind != "night" || out.Overview.Phase.Day != 1 {
		t.Fatalf("phase = %+v, want night 1", out.Overview.Phase)
	}
}

func TestPatchUnknownAction(t *testing.T) {
	ts := newTestServer(t)
	gameID, token := createGame(t, ts)

	resp, raw := doRequest(t, ts, testRequest{
		method:  http.MethodPatch,
		path:    "/v1/games/" + gameID,
		body:    map[string]any{"actions": []string{"explode"}},
		headers: modHeaders(token),
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
}
