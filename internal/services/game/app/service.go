package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/louisbranch/smalltown/internal/id"
	apperrors "github.com/louisbranch/smalltown/internal/platform/errors"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
	"github.com/louisbranch/smalltown/internal/services/game/domain/grant"
	"github.com/louisbranch/smalltown/internal/services/game/domain/resolve"
	"github.com/louisbranch/smalltown/internal/services/game/domain/role"
	"github.com/louisbranch/smalltown/internal/services/game/projection"
	"github.com/louisbranch/smalltown/internal/services/game/storage"
	"github.com/louisbranch/smalltown/internal/telemetry"
)

// replayPageSize bounds how many journal events one hydration query loads.
const replayPageSize = 200

// Config wires the service's collaborators. Store, Commands, Events, and
// Set are required; the rest default to sensible production values.
type Config struct {
	Store    storage.Store
	Commands *command.Registry
	Events   *event.Registry
	Set      *role.Set
	// Grants enables seat grant verification when non-nil. Games created
	// with the grant requirement reject player identities without one.
	Grants    *grant.SeatGrantConfig
	Telemetry *telemetry.Emitter
	Logger    zerolog.Logger
	Clock     func() time.Time
	NewID     func() (string, error)
}

// Service executes game commands and answers state queries. One handle per
// open game serializes its writes; reads share the handle's read lock.
type Service struct {
	store     storage.Store
	commands  *command.Registry
	events    *event.Registry
	decider   resolve.Decider
	set       *role.Set
	grants    *grant.SeatGrantConfig
	telemetry *telemetry.Emitter
	projector projection.Applier
	logger    zerolog.Logger
	clock     func() time.Time
	newID     func() (string, error)

	mu    sync.Mutex
	games map[string]*gameHandle
}

// gameHandle guards the in-memory folded state for one game.
type gameHandle struct {
	mu       sync.RWMutex
	hydrated bool
	state    game.State
	// createdAt mirrors the games row so projection updates preserve it.
	createdAt time.Time
}

// New validates the configuration and returns a ready service.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Commands == nil {
		return nil, errors.New("command registry is required")
	}
	if cfg.Events == nil {
		return nil, errors.New("event registry is required")
	}
	if cfg.Set == nil {
		return nil, errors.New("role set is required")
	}
	svc := &Service{
		store:     cfg.Store,
		commands:  cfg.Commands,
		events:    cfg.Events,
		decider:   resolve.NewDecider(cfg.Set),
		set:       cfg.Set,
		grants:    cfg.Grants,
		telemetry: cfg.Telemetry,
		projector: projection.Applier{Games: cfg.Store, Messages: cfg.Store},
		logger:    cfg.Logger,
		clock:     cfg.Clock,
		newID:     cfg.NewID,
		games:     make(map[string]*gameHandle),
	}
	if svc.clock == nil {
		svc.clock = time.Now
	}
	if svc.newID == nil {
		svc.newID = id.NewID
	}
	return svc, nil
}

// handle returns the lock handle for a game, creating it on first use.
func (s *Service) handle(gameID string) *gameHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.games[gameID]
	if !ok {
		h = &gameHandle{}
		s.games[gameID] = h
	}
	return h
}

// hydrateLocked loads a game's folded state into the handle. The caller
// must hold the handle's write lock. Missing games hydrate to the zero
// state so creation can proceed.
func (s *Service) hydrateLocked(ctx context.Context, gameID string, h *gameHandle) error {
	if h.hydrated {
		return nil
	}
	record, err := s.store.GetGame(ctx, gameID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("load game %s: %w", gameID, err)
	}
	if err == nil && len(record.SnapshotJSON) > 0 {
		state, derr := projection.GameState(record)
		if derr != nil {
			return fmt.Errorf("decode snapshot for game %s: %w", gameID, derr)
		}
		h.state = state
		h.createdAt = record.CreatedAt
		h.hydrated = true
		return nil
	}
	state, createdAt, err := s.replay(ctx, gameID)
	if err != nil {
		return err
	}
	h.state = state
	h.createdAt = createdAt
	h.hydrated = true
	return nil
}

// replay folds the full journal into a fresh state. It backs hydration
// when the games row is missing or carries no snapshot.
func (s *Service) replay(ctx context.Context, gameID string) (game.State, time.Time, error) {
	var state game.State
	var createdAt time.Time
	var afterSeq uint64
	for {
		events, err := s.store.ListEvents(ctx, gameID, afterSeq, replayPageSize)
		if err != nil {
			return game.State{}, time.Time{}, fmt.Errorf("replay game %s: %w", gameID, err)
		}
		for _, evt := range events {
			if createdAt.IsZero() {
				createdAt = evt.Timestamp
			}
			state = game.Fold(state, evt)
			afterSeq = evt.Seq
		}
		if len(events) < replayPageSize {
			return state, createdAt, nil
		}
	}
}

// errGameNotFound reports a game the journal has never seen.
func errGameNotFound(gameID string) error {
	return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("game %s does not exist", gameID))
}
