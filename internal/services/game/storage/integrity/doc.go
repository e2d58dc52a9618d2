// Package integrity signs the game event journal. Each appended event
// carries a content hash, a chain hash linking it to its predecessor,
// and an HMAC signature from a per-game derived key, so a stored game
// can be verified end to end and tampering localized to an event.
//
// Keys come from the environment (SMALLTOWN_GAME_EVENT_HMAC_KEY or the
// multi-key SMALLTOWN_GAME_EVENT_HMAC_KEYS form) and rotate by key id;
// verification accepts any configured key while signing always uses the
// active one.
package integrity
