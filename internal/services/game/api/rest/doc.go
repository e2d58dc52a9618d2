// Package rest exposes the game service over a JSON HTTP API.
//
// Callers authenticate per request through three headers: the
// moderator token minted at creation (Authorization-Mod-Token), a
// plain player name (Authorization-Player-Name), and the optional
// seat grant JWT (Authorization-Seat-Grant) that games created with
// require_grants demand alongside the player name. Command rejections
// are returned in the response body with the HTTP status derived from
// the rejection code, so a rolled-back vote and a malformed request
// are distinguishable without parsing messages.
package rest
