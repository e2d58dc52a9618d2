package scenario

import "github.com/louisbranch/smalltown/internal/services/game/domain/game"

// scenarioState tracks one run: the setup being assembled and, once
// the first command forces creation, the game every later step
// addresses.
type scenarioState struct {
	gameID        string
	gameName      string
	requireGrants bool
	startPhase    *game.PhaseSetup
	categoryOrder []string
	players       []game.PlayerSetup
}
