// Package domain translates MCP tool calls into game commands.
//
// The package is intentionally explicit about that mapping:
// - carry the moderator token on every input, as the REST headers do,
// - route calls through the in-process app layer,
// - and surface flat, structured outputs that MCP clients can render.
//
// Command rejections are data, not errors: a rejected call returns a
// populated rejections list so the client sees exactly why the engine
// declined, while transport and authorization failures return errors.
package domain
