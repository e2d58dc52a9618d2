// Package timeouts holds the timeout values shared across service
// boundaries so the HTTP server, telemetry shutdown, and the scenario
// runner agree on how long to wait.
package timeouts

import "time"

// ReadHeader caps how long the REST server waits for request headers
// before dropping a slow client.
const ReadHeader = 5 * time.Second

// Shutdown caps graceful drain of in-flight requests on exit, and
// doubles as the telemetry flush window.
const Shutdown = 5 * time.Second

// ScenarioStep caps a single scenario step against the game service.
// Steps are local sqlite work, so anything slower is a hang.
const ScenarioStep = 10 * time.Second
