package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
)

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "game":
		return r.runGameStep(state, step)
	case "seat":
		return r.runSeatStep(state, step)
	case "set_phase":
		return r.runSetPhaseStep(ctx, state, step)
	case "advance_phase":
		return r.runAdvancePhaseStep(ctx, state, step)
	case "queue":
		return r.runQueueStep(ctx, state, step)
	case "dequeue":
		return r.runDequeueStep(ctx, state, step)
	case "vote":
		return r.runVoteStep(ctx, state, step)
	case "retract_vote":
		return r.runRetractVoteStep(ctx, state, step)
	case "post":
		return r.runPostStep(ctx, state, step)
	case "resolve":
		return r.runResolveStep(ctx, state, step)
	case "expect_alive":
		return r.runExpectAliveStep(ctx, state, step, true)
	case "expect_dead":
		return r.runExpectAliveStep(ctx, state, step, false)
	case "expect_phase":
		return r.runExpectPhaseStep(ctx, state, step)
	case "expect_resolved":
		return r.runExpectResolvedStep(ctx, state, step)
	case "expect_unresolved":
		return r.runExpectUnresolvedStep(ctx, state)
	case "expect_knowledge":
		return r.runExpectKnowledgeStep(ctx, state, step)
	case "expect_queued":
		return r.runExpectQueuedStep(ctx, state, step)
	case "expect_event":
		return r.runExpectEventStep(ctx, state, step)
	case "expect_tally":
		return r.runExpectTallyStep(ctx, state, step)
	default:
		return r.failf("unknown step kind %q", step.Kind)
	}
}

// runGameStep records the game setup. The game itself is created
// lazily, once the roster is complete and the first command runs.
func (r *Runner) runGameStep(state *scenarioState, step Step) error {
	if state.gameID != "" {
		return r.failf("the game is already created")
	}
	state.gameName = optionalString(step.Args, "name", "")
	state.requireGrants = optionalBool(step.Args, "require_grants", false)
	if kind := optionalString(step.Args, "phase", ""); kind != "" {
		state.startPhase = &game.PhaseSetup{
			Kind: kind,
			Day:  optionalInt(step.Args, "day", 0),
		}
	}
	state.categoryOrder = stringList(step.Args, "category_order")
	return nil
}

func (r *Runner) runSeatStep(state *scenarioState, step Step) error {
	if state.gameID != "" {
		return r.failf("seats must be added before the first command")
	}
	name := requiredString(step.Args, "name")
	if name == "" {
		return r.failf("seat name is required")
	}
	state.players = append(state.players, game.PlayerSetup{
		Name:      name,
		Role:      optionalString(step.Args, "role", "Vanilla"),
		Alignment: optionalString(step.Args, "alignment", "town"),
		Modifiers: stringList(step.Args, "modifiers"),
	})
	return nil
}

func (r *Runner) runSetPhaseStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	payload, err := json.Marshal(game.SetPhasePayload{
		Kind: requiredString(step.Args, "kind"),
		Day:  optionalInt(step.Args, "day", 0),
	})
	if err != nil {
		return fmt.Errorf("encode set_phase payload: %w", err)
	}
	_, err = r.execute(ctx, state, step, command.Command{
		Type:        game.CommandTypeSetPhase,
		PayloadJSON: payload,
	})
	return err
}

func (r *Runner) runAdvancePhaseStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	_, err := r.execute(ctx, state, step, command.Command{Type: game.CommandTypeAdvancePhase})
	return err
}

func (r *Runner) runQueueStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	player := requiredString(step.Args, "player")
	abilityID := requiredString(step.Args, "ability")
	if player == "" || abilityID == "" {
		return r.failf("queue needs player and ability")
	}
	payload, err := json.Marshal(game.QueuePayload{
		AbilityID: abilityID,
		Targets:   stringList(step.Args, "targets"),
		User:      player,
	})
	if err != nil {
		return fmt.Errorf("encode queue payload: %w", err)
	}
	_, err = r.execute(ctx, state, step, command.Command{
		Type:        game.CommandTypeQueue,
		PayloadJSON: payload,
	})
	return err
}

func (r *Runner) runDequeueStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	player := requiredString(step.Args, "player")
	abilityID := requiredString(step.Args, "ability")
	if player == "" || abilityID == "" {
		return r.failf("dequeue needs player and ability")
	}
	payload, err := json.Marshal(game.DequeuePayload{
		AbilityID: abilityID,
		User:      player,
	})
	if err != nil {
		return fmt.Errorf("encode dequeue payload: %w", err)
	}
	_, err = r.execute(ctx, state, step, command.Command{
		Type:        game.CommandTypeDequeue,
		PayloadJSON: payload,
	})
	return err
}

func (r *Runner) runVoteStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	voter := requiredString(step.Args, "voter")
	target := requiredString(step.Args, "target")
	if voter == "" || target == "" {
		return r.failf("vote needs voter and target")
	}
	payload, err := json.Marshal(game.VotePayload{Target: target, Voter: voter})
	if err != nil {
		return fmt.Errorf("encode vote payload: %w", err)
	}
	_, err = r.execute(ctx, state, step, command.Command{
		Type:        game.CommandTypeVote,
		PayloadJSON: payload,
	})
	return err
}

func (r *Runner) runRetractVoteStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	voter := requiredString(step.Args, "voter")
	if voter == "" {
		return r.failf("retract_vote needs a voter")
	}
	payload, err := json.Marshal(game.RetractVotePayload{Voter: voter})
	if err != nil {
		return fmt.Errorf("encode retract_vote payload: %w", err)
	}
	_, err = r.execute(ctx, state, step, command.Command{
		Type:        game.CommandTypeRetractVote,
		PayloadJSON: payload,
	})
	return err
}

// runPostStep posts a chat message, as the named player or as the
// moderator when no player is given.
func (r *Runner) runPostStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	body := requiredString(step.Args, "body")
	if body == "" {
		return r.failf("post needs a body")
	}
	chatID, err := r.resolveChatID(ctx, state, optionalString(step.Args, "chat", ""))
	if err != nil {
		return err
	}
	payload, err := json.Marshal(game.PostPayload{
		ChatID: chatID,
		To:     optionalString(step.Args, "to", ""),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("encode post payload: %w", err)
	}
	cmd := command.Command{Type: game.CommandTypePost, PayloadJSON: payload}
	if player := optionalString(step.Args, "player", ""); player != "" {
		cmd.ActorType = command.ActorTypePlayer
		cmd.ActorID = player
	}
	_, err = r.execute(ctx, state, step, cmd)
	return err
}

func (r *Runner) runResolveStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	_, err := r.execute(ctx, state, step, command.Command{Type: game.CommandTypeResolve})
	return err
}

func (r *Runner) runExpectAliveStep(ctx context.Context, state *scenarioState, step Step, wantAlive bool) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	name := requiredString(step.Args, "player")
	if name == "" {
		return r.failf("a player name is required")
	}
	overview, err := r.moderatorOverview(ctx, state)
	if err != nil {
		return err
	}
	for _, p := range overview.Players {
		if p.Name != name {
			continue
		}
		if p.Alive != wantAlive {
			return r.assertf("%s alive = %t, want %t", name, p.Alive, wantAlive)
		}
		return nil
	}
	return r.failf("unknown player %q", name)
}

func (r *Runner) runExpectPhaseStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	kind := phase.Kind(strings.ToUpper(requiredString(step.Args, "kind")))
	day := optionalInt(step.Args, "day", 0)
	overview, err := r.moderatorOverview(ctx, state)
	if err != nil {
		return err
	}
	if overview.Phase.Kind != kind || overview.Phase.Day != day {
		return r.assertf("phase = %s(%d), want %s(%d)", overview.Phase.Kind, overview.Phase.Day, kind, day)
	}
	return nil
}

func (r *Runner) runExpectResolvedStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	overview, err := r.moderatorOverview(ctx, state)
	if err != nil {
		return err
	}
	if !overview.Resolved {
		return r.assertf("the game is not resolved")
	}
	if winner := optionalString(step.Args, "winner", ""); winner != "" && overview.WinningAlignment != winner {
		return r.assertf("winning alignment = %q, want %q", overview.WinningAlignment, winner)
	}
	return nil
}

func (r *Runner) runExpectUnresolvedStep(ctx context.Context, state *scenarioState) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	overview, err := r.moderatorOverview(ctx, state)
	if err != nil {
		return err
	}
	if overview.Resolved {
		return r.assertf("the game is resolved as %q", overview.WinningAlignment)
	}
	return nil
}

// runExpectKnowledgeStep reads the game as the observer and checks the
// fact they hold about the subject.
func (r *Runner) runExpectKnowledgeStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	observer := requiredString(step.Args, "observer")
	subject := requiredString(step.Args, "subject")
	if observer == "" || subject == "" {
		return r.failf("expect_knowledge needs observer and subject")
	}
	overview, err := r.svc.Overview(ctx, state.gameID, game.Viewer{Player: observer})
	if err != nil {
		return fmt.Errorf("read overview: %w", err)
	}
	fact, ok := overview.Knowledge[subject]
	if !ok {
		return r.assertf("%s knows nothing about %s", observer, subject)
	}
	if want := optionalString(step.Args, "alignment", ""); want != "" && fact.Alignment != want {
		return r.assertf("%s sees %s alignment %q, want %q", observer, subject, fact.Alignment, want)
	}
	if want := optionalString(step.Args, "role", ""); want != "" && fact.RoleName != want {
		return r.assertf("%s sees %s role %q, want %q", observer, subject, fact.RoleName, want)
	}
	if want := optionalString(step.Args, "flavor", ""); want != "" && fact.Flavor != want {
		return r.assertf("%s sees %s flavor %q, want %q", observer, subject, fact.Flavor, want)
	}
	return nil
}

func (r *Runner) runExpectQueuedStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	player := requiredString(step.Args, "player")
	abilityID := requiredString(step.Args, "ability")
	if player == "" || abilityID == "" {
		return r.failf("expect_queued needs player and ability")
	}
	statuses, err := r.svc.Abilities(ctx, state.gameID, player)
	if err != nil {
		return fmt.Errorf("read abilities: %w", err)
	}
	want := optionalBool(step.Args, "queued", true)
	for _, status := range statuses {
		if status.ID != abilityID {
			continue
		}
		if status.Queued != want {
			return r.assertf("%s %s queued = %t, want %t", player, abilityID, status.Queued, want)
		}
		return nil
	}
	return r.failf("%s does not hold %s", player, abilityID)
}

// runExpectEventStep counts journal events of one type through the
// same filter surface the API serves.
func (r *Runner) runExpectEventStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	eventType := requiredString(step.Args, "type")
	if eventType == "" {
		return r.failf("expect_event needs a type")
	}
	page, err := r.svc.Events(ctx, state.gameID, fmt.Sprintf("type = %q", eventType), 0, 1)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	if count, ok := readInt(step.Args, "count"); ok {
		if page.TotalCount != count {
			return r.assertf("%s events = %d, want %d", eventType, page.TotalCount, count)
		}
		return nil
	}
	if page.TotalCount == 0 {
		return r.assertf("no %s events", eventType)
	}
	return nil
}

func (r *Runner) runExpectTallyStep(ctx context.Context, state *scenarioState, step Step) error {
	if err := r.ensureGame(ctx, state); err != nil {
		return err
	}
	target := requiredString(step.Args, "target")
	if target == "" {
		return r.failf("expect_tally needs a target")
	}
	want, ok := readInt(step.Args, "votes")
	if !ok {
		return r.failf("expect_tally needs votes")
	}
	tally, err := r.svc.VoteTally(ctx, state.gameID)
	if err != nil {
		return fmt.Errorf("read tally: %w", err)
	}
	votes := 0
	for _, count := range tally {
		if count.Target == target {
			votes = len(count.Voters)
		}
	}
	if votes != want {
		return r.assertf("%s has %d votes, want %d", target, votes, want)
	}
	return nil
}
