package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func castVote(t *testing.T, ts *httptest.Server, gameID, voter, target string) voteTallyResponse {
	t.Helper()
	resp, raw := doRequest(t, ts, testRequest{
		method:  http.MethodPost,
		path:    "/v1/games/" + gameID + "/votes",
		body:    map[string]any{"target": target},
		headers: playerHeaders(voter),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("vote status = %d, body %s", resp.StatusCode, raw)
	}
	var out voteTallyResponse
	unmarshalBody(t, raw, &out)
	return out
}

func TestVoteTallyAggregates(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := createGame(t, ts)

	castVote(t, ts, gameID, "alice", "carol")
	out := castVote(t, ts, gameID, "bob", "carol")
	if len(out.Votes) != 1 || out.Votes[0].Target != "carol" || len(out.Votes[0].Voters) != 2 {
		t.Fatalf("tally = %+v, want carol with 2 voters", out.Votes)
	}

	resp, raw := doRequest(t, ts, testRequest{
		method: http.MethodGet,
		path:   "/v1/games/" + gameID + "/votes",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tally status = %d, body %s", resp.StatusCode, raw)
	}
	unmarshalBody(t, raw, &out)
	if len(out.Votes) != 1 || len(out.Votes[0].Voters) != 2 {
		t.Fatalf("tally = %+v", out.Votes)
	}
}

func TestRevoteMovesTheVote(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := createGame(t, ts)

	castVote(t, ts, gameID, "alice", "carol")
	out := castVote(t, ts, gameID, "alice", "dave")
	if len(out.Votes) != 1 || out.Votes[0].Target != "dave" {
		t.Fatalf("tally = %+v, want only dave", out.Votes)
	}
}

func TestRetractVote(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := createGame(t, ts)

	castVote(t, ts, gameID, "alice", "carol")
	castVote(t, ts, gameID, "bob", "carol")

	resp, raw := doRequest(t, ts, testRequest{
		method:  http.MethodDelete,
		path:    "/v1/games/" + gameID + "/votes",
		headers: playerHeaders("alice"),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("retract status = %d, body %s", resp.StatusCode, raw)
	}
	var out voteTallyResponse
	unmarshalBody(t, raw, &out)
	if len(out.Votes) != 1 || len(out.Votes[0].Voters) != 1 || out.Votes[0].Voters[0] != "bob" {
		t.Fatalf("tally = %+v, want only bob", out.Votes)
	}
}

func TestRetractWithoutStandingVote(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := createGame(t, ts)

	// A no-op, not an error.
	resp, raw := doRequest(t, ts, testRequest{
		method:  http.MethodDelete,
		path:    "/v1/games/" + gameID + "/votes",
		headers: playerHeaders("alice"),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
}

func TestModeratorVotesOnBehalf(t *testing.T) {
	ts := newTestServer(t)
	gameID, token := createGame(t, ts)

	resp, raw := doRequest(t, ts, testRequest{
		method:  http.MethodPost,
		path:    "/v1/games/" + gameID + "/votes",
		body:    map[string]any{"target": "carol", "voter": "dave"},
		headers: modHeaders(token),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var out voteTallyResponse
	unmarshalBody(t, raw, &out)
	if len(out.Votes) != 1 || out.Votes[0].Voters[0] != "dave" {
		t.Fatalf("tally = %+v, want dave's vote", out.Votes)
	}
}

func TestPlayerCannotVoteForOthers(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := createGame(t, ts)

	// The voter override is dropped for player credentials.
	_, raw := doRequest(t, ts, testRequest{
		method:  http.MethodPost,
		path:    "/v1/games/" + gameID + "/votes",
		body:    map[string]any{"target": "carol", "voter": "bob"},
		headers: playerHeaders("alice"),
	})
	var out voteTallyResponse
	unmarshalBody(t, raw, &out)
	if len(out.Votes) != 1 || out.Votes[0].Voters[0] != "alice" {
		t.Fatalf("tally = %+v, want alice's own vote", out.Votes)
	}
}

func TestVoteRejectedAtNight(t *testing.T) {
	ts := newTestServer(t)
	gameID, token := createGame(t, ts)
	setNight(t, ts, gameID, token)

	resp, raw := doRequest(t, ts, testRequest{
		method:  http.MethodPost,
		path:    "/v1/games/" + gameID + "/votes",
		body:    map[string]any{"target": "carol"},
		headers: playerHeaders("alice"),
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
	var out rejectionsResponse
	unmarshalBody(t, raw, &out)
	if len(out.Rejections) == 0 || out.Rejections[0].Code != "INELIGIBLE_NOW" {
		t.Fatalf("rejections = %+v", out.Rejections)
	}
}

func TestVoteUnknownTarget(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := createGame(t, ts)

	resp, raw := doRequest(t, ts, testRequest{
		method:  http.MethodPost,
		path:    "/v1/games/" + gameID + "/votes",
		body:    map[string]any{"target": "mallory"},
		headers: playerHeaders("alice"),
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}
}
