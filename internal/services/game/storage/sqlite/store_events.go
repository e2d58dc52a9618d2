package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
	"github.com/louisbranch/smalltown/internal/services/game/storage"
	"github.com/louisbranch/smalltown/internal/services/game/storage/integrity"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const eventColumns = "game_id, seq, event_hash, prev_event_hash, chain_hash, signature_key_id, event_signature, timestamp, event_type, request_id, actor_type, actor_id, entity_type, entity_id, phase, day, payload_json"

// appendReady checks everything the write path needs before a transaction
// is opened.
func (s *Store) appendReady(ctx context.Context) error {
	if err := s.readReady(ctx); err != nil {
		return err
	}
	if s.eventRegistry == nil {
		return fmt.Errorf("event registry is required")
	}
	if s.keyring == nil {
		return fmt.Errorf("event integrity keyring is required")
	}
	return nil
}

// readReady guards the query paths, which work without a registry or keyring.
func (s *Store) readReady(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// AppendEvent atomically appends an event and returns it with sequence,
// hashes, and signature filled in.
//
// Appends are idempotent on content hash. Retrying an identical event
// returns the stored copy instead of a duplicate row.
func (s *Store) AppendEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if err := s.appendReady(ctx); err != nil {
		return event.Event{}, err
	}

	validated, err := s.eventRegistry.ValidateForAppend(evt)
	if err != nil {
		return event.Event{}, err
	}
	evt = stampEventTime(validated)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return event.Event{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	seq, err := claimSeqs(ctx, tx, evt.GameID, 1)
	if err != nil {
		return event.Event{}, err
	}
	prevChain, err := chainTip(ctx, tx, evt.GameID, seq-1)
	if err != nil {
		return event.Event{}, err
	}

	sealed, err := s.sealEvent(evt, seq, prevChain)
	if err != nil {
		return event.Event{}, err
	}

	if err := writeEventRow(ctx, tx, newEventRow(sealed)); err != nil {
		if isConstraintError(err) {
			if stored, lookupErr := s.GetEventByHash(ctx, sealed.Hash); lookupErr == nil {
				return stored, nil
			}
		}
		return event.Event{}, fmt.Errorf("append event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return event.Event{}, fmt.Errorf("commit: %w", err)
	}

	return sealed, nil
}

// BatchAppendEvents appends several events of one game in a single
// transaction. Sequence numbers are claimed contiguously up front and the
// chain threads through the batch, starting from the last stored event.
func (s *Store) BatchAppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}
	if err := s.appendReady(ctx); err != nil {
		return nil, err
	}

	// Validate everything before touching the database.
	validated := make([]event.Event, len(events))
	for i, evt := range events {
		v, err := s.eventRegistry.ValidateForAppend(evt)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		validated[i] = stampEventTime(v)
	}

	gameID := validated[0].GameID
	for i, evt := range validated {
		if evt.GameID != gameID {
			return nil, fmt.Errorf("event %d: game id mismatch in batch", i)
		}
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	baseSeq, err := claimSeqs(ctx, tx, gameID, len(validated))
	if err != nil {
		return nil, err
	}
	prevChain, err := chainTip(ctx, tx, gameID, baseSeq-1)
	if err != nil {
		return nil, err
	}

	for i := range validated {
		sealed, err := s.sealEvent(validated[i], baseSeq+uint64(i), prevChain)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if err := writeEventRow(ctx, tx, newEventRow(sealed)); err != nil {
			return nil, fmt.Errorf("append event %d: %w", i, err)
		}
		prevChain = sealed.ChainHash
		validated[i] = sealed
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return validated, nil
}

// stampEventTime fills a missing timestamp and truncates to the journal's
// millisecond resolution, so the hashed value round-trips through storage.
func stampEventTime(evt event.Event) event.Event {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
	return evt
}

// claimSeqs reserves count contiguous sequence numbers for a game and
// returns the first. The per-game counter row is created on first use.
func claimSeqs(ctx context.Context, tx dbtx, gameID string, count int) (uint64, error) {
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO event_seqs (game_id, next_seq) VALUES (?, 1)", gameID); err != nil {
		return 0, fmt.Errorf("seed seq counter: %w", err)
	}
	var next int64
	if err := tx.QueryRowContext(ctx,
		"SELECT next_seq FROM event_seqs WHERE game_id = ?", gameID).Scan(&next); err != nil {
		return 0, fmt.Errorf("read seq counter: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE event_seqs SET next_seq = next_seq + ? WHERE game_id = ?", count, gameID); err != nil {
		return 0, fmt.Errorf("advance seq counter: %w", err)
	}
	return uint64(next), nil
}

// chainTip returns the chain hash of the event at seq, or "" when seq is
// zero and the chain has no predecessor.
func chainTip(ctx context.Context, q dbtx, gameID string, seq uint64) (string, error) {
	if seq == 0 {
		return "", nil
	}
	row, err := readEventRow(ctx, q, gameID, seq)
	if err != nil {
		return "", fmt.Errorf("load event seq=%d: %w", seq, err)
	}
	return row.ChainHash, nil
}

// sealEvent stamps the sequence number, content hash, chain link, and
// signature onto evt. prevChain is the chain hash of the preceding event.
func (s *Store) sealEvent(evt event.Event, seq uint64, prevChain string) (event.Event, error) {
	evt.Seq = seq

	hash, err := integrity.EventHash(evt)
	if err != nil {
		return event.Event{}, fmt.Errorf("compute event hash: %w", err)
	}
	if strings.TrimSpace(hash) == "" {
		return event.Event{}, fmt.Errorf("event hash is empty")
	}
	evt.Hash = hash

	chain, err := integrity.ChainHash(evt, prevChain)
	if err != nil {
		return event.Event{}, fmt.Errorf("compute chain hash: %w", err)
	}
	if strings.TrimSpace(chain) == "" {
		return event.Event{}, fmt.Errorf("chain hash is empty")
	}

	signature, keyID, err := s.keyring.SignChainHash(evt.GameID, chain)
	if err != nil {
		return event.Event{}, fmt.Errorf("sign chain hash: %w", err)
	}

	evt.PrevHash = prevChain
	evt.ChainHash = chain
	evt.Signature = signature
	evt.SignatureKeyID = keyID
	return evt, nil
}

// VerifyEventIntegrity recomputes hashes, chain links, and signatures for
// every stored game and fails on the first discrepancy.
func (s *Store) VerifyEventIntegrity(ctx context.Context) error {
	if err := s.readReady(ctx); err != nil {
		return err
	}
	if s.keyring == nil {
		return fmt.Errorf("event integrity keyring is required")
	}

	gameIDs, err := s.listEventGameIDs(ctx)
	if err != nil {
		return err
	}
	for _, gameID := range gameIDs {
		if err := s.verifyGameChain(ctx, gameID); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) listEventGameIDs(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, "SELECT DISTINCT game_id FROM events ORDER BY game_id")
	if err != nil {
		return nil, fmt.Errorf("list game ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan game id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game ids: %w", err)
	}
	return ids, nil
}

// verifyGameChain walks one game's journal in order, checking each event
// against its stored predecessor.
func (s *Store) verifyGameChain(ctx context.Context, gameID string) error {
	var lastSeq uint64
	prevChain := ""
	for {
		batch, err := s.ListEvents(ctx, gameID, lastSeq, 200)
		if err != nil {
			return fmt.Errorf("list events game_id=%s: %w", gameID, err)
		}
		if len(batch) == 0 {
			return nil
		}
		for _, evt := range batch {
			if err := s.checkChainLink(gameID, evt, lastSeq, prevChain); err != nil {
				return err
			}
			prevChain = evt.ChainHash
			lastSeq = evt.Seq
		}
	}
}

// checkChainLink recomputes a single event's hashes and signature and
// compares them with the stored values.
func (s *Store) checkChainLink(gameID string, evt event.Event, lastSeq uint64, prevChain string) error {
	switch {
	case evt.Seq != lastSeq+1:
		return fmt.Errorf("event sequence gap game_id=%s expected=%d got=%d", gameID, lastSeq+1, evt.Seq)
	case evt.Seq == 1 && evt.PrevHash != "":
		return fmt.Errorf("first event prev hash must be empty game_id=%s", gameID)
	case evt.Seq > 1 && evt.PrevHash != prevChain:
		return fmt.Errorf("prev hash mismatch game_id=%s seq=%d", gameID, evt.Seq)
	}

	hash, err := integrity.EventHash(evt)
	if err != nil {
		return fmt.Errorf("compute event hash game_id=%s seq=%d: %w", gameID, evt.Seq, err)
	}
	if hash != evt.Hash {
		return fmt.Errorf("event hash mismatch game_id=%s seq=%d", gameID, evt.Seq)
	}

	chain, err := integrity.ChainHash(evt, prevChain)
	if err != nil {
		return fmt.Errorf("compute chain hash game_id=%s seq=%d: %w", gameID, evt.Seq, err)
	}
	if chain != evt.ChainHash {
		return fmt.Errorf("chain hash mismatch game_id=%s seq=%d", gameID, evt.Seq)
	}

	if err := s.keyring.VerifyChainHash(gameID, chain, evt.Signature, evt.SignatureKeyID); err != nil {
		return fmt.Errorf("signature mismatch game_id=%s seq=%d: %w", gameID, evt.Seq, err)
	}
	return nil
}

// GetEventByHash retrieves an event by its content hash.
func (s *Store) GetEventByHash(ctx context.Context, hash string) (event.Event, error) {
	if err := s.readReady(ctx); err != nil {
		return event.Event{}, err
	}
	if strings.TrimSpace(hash) == "" {
		return event.Event{}, fmt.Errorf("event hash is required")
	}

	var row eventRow
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE event_hash = ?", hash).Scan(row.columns()...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, storage.ErrNotFound
		}
		return event.Event{}, fmt.Errorf("get event by hash: %w", err)
	}

	return row.domain(), nil
}

// GetEventBySeq retrieves a specific event by sequence number.
func (s *Store) GetEventBySeq(ctx context.Context, gameID string, seq uint64) (event.Event, error) {
	if err := s.readReady(ctx); err != nil {
		return event.Event{}, err
	}
	if strings.TrimSpace(gameID) == "" {
		return event.Event{}, fmt.Errorf("game id is required")
	}

	row, err := readEventRow(ctx, s.sqlDB, gameID, seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, storage.ErrNotFound
		}
		return event.Event{}, fmt.Errorf("get event by seq: %w", err)
	}

	return row.domain(), nil
}

// ListEvents returns up to limit events after afterSeq, ordered by
// sequence ascending.
func (s *Store) ListEvents(ctx context.Context, gameID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := s.readReady(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(gameID) == "" {
		return nil, fmt.Errorf("game id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE game_id = ? AND seq > ? ORDER BY seq ASC LIMIT ?",
		gameID, int64(afterSeq), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return collectEvents(rows)
}

// GetLatestEventSeq returns the highest stored sequence number for a game,
// or zero when the game has no events.
func (s *Store) GetLatestEventSeq(ctx context.Context, gameID string) (uint64, error) {
	if err := s.readReady(ctx); err != nil {
		return 0, err
	}
	if strings.TrimSpace(gameID) == "" {
		return 0, fmt.Errorf("game id is required")
	}

	var seq int64
	if err := s.sqlDB.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) FROM events WHERE game_id = ?", gameID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("get latest event seq: %w", err)
	}

	return uint64(seq), nil
}

// ListEventsPage returns a paginated, filtered, and sorted slice of the
// journal along with the total match count.
func (s *Store) ListEventsPage(ctx context.Context, req storage.ListEventsPageRequest) (storage.ListEventsPageResult, error) {
	if err := s.readReady(ctx); err != nil {
		return storage.ListEventsPageResult{}, err
	}
	if strings.TrimSpace(req.GameID) == "" {
		return storage.ListEventsPageResult{}, fmt.Errorf("game id is required")
	}
	if req.PageSize <= 0 {
		req.PageSize = 50
	}
	if req.PageSize > 200 {
		req.PageSize = 200
	}
	if req.Start < 0 {
		req.Start = 0
	}

	plan := buildListEventsPageSQLPlan(req)

	query := fmt.Sprintf(
		"SELECT %s FROM events WHERE %s %s %s",
		eventColumns,
		plan.whereClause,
		plan.orderClause,
		plan.limitClause,
	)

	rows, err := s.sqlDB.QueryContext(ctx, query, plan.params...)
	if err != nil {
		return storage.ListEventsPageResult{}, fmt.Errorf("query events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return storage.ListEventsPageResult{}, err
	}

	// The plan fetches one row beyond the page to detect a next page.
	hasMore := len(events) > req.PageSize
	if hasMore {
		events = events[:req.PageSize]
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM events WHERE %s", plan.countWhereClause)
	var totalCount int
	if err := s.sqlDB.QueryRowContext(ctx, countQuery, plan.countParams...).Scan(&totalCount); err != nil {
		return storage.ListEventsPageResult{}, fmt.Errorf("count events: %w", err)
	}

	return storage.ListEventsPageResult{
		Events:      events,
		HasNextPage: hasMore,
		TotalCount:  totalCount,
	}, nil
}

// collectEvents drains rows into domain events. It always closes rows.
func collectEvents(rows *sql.Rows) ([]event.Event, error) {
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var row eventRow
		if err := rows.Scan(row.columns()...); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, row.domain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func readEventRow(ctx context.Context, q dbtx, gameID string, seq uint64) (eventRow, error) {
	var row eventRow
	err := q.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE game_id = ? AND seq = ?",
		gameID, int64(seq)).Scan(row.columns()...)
	return row, err
}

func writeEventRow(ctx context.Context, q dbtx, row eventRow) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO events ("+eventColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		row.values()...)
	return err
}

// isConstraintError reports whether err is a SQLite uniqueness violation.
func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// eventRow mirrors the events table. Field order matches eventColumns,
// which columns and values depend on.
type eventRow struct {
	GameID         string
	Seq            int64
	EventHash      string
	PrevEventHash  string
	ChainHash      string
	SignatureKeyID string
	EventSignature string
	Timestamp      int64
	EventType      string
	RequestID      string
	ActorType      string
	ActorID        string
	EntityType     string
	EntityID       string
	Phase          string
	Day            int64
	PayloadJSON    []byte
}

// columns returns scan destinations in eventColumns order.
func (r *eventRow) columns() []any {
	return []any{
		&r.GameID,
		&r.Seq,
		&r.EventHash,
		&r.PrevEventHash,
		&r.ChainHash,
		&r.SignatureKeyID,
		&r.EventSignature,
		&r.Timestamp,
		&r.EventType,
		&r.RequestID,
		&r.ActorType,
		&r.ActorID,
		&r.EntityType,
		&r.EntityID,
		&r.Phase,
		&r.Day,
		&r.PayloadJSON,
	}
}

// values returns insert parameters in eventColumns order.
func (r eventRow) values() []any {
	return []any{
		r.GameID,
		r.Seq,
		r.EventHash,
		r.PrevEventHash,
		r.ChainHash,
		r.SignatureKeyID,
		r.EventSignature,
		r.Timestamp,
		r.EventType,
		r.RequestID,
		r.ActorType,
		r.ActorID,
		r.EntityType,
		r.EntityID,
		r.Phase,
		r.Day,
		r.PayloadJSON,
	}
}

func (r eventRow) domain() event.Event {
	return event.Event{
		GameID:         r.GameID,
		Seq:            uint64(r.Seq),
		Hash:           r.EventHash,
		PrevHash:       r.PrevEventHash,
		ChainHash:      r.ChainHash,
		SignatureKeyID: r.SignatureKeyID,
		Signature:      r.EventSignature,
		Timestamp:      fromMillis(r.Timestamp),
		Type:           event.Type(r.EventType),
		RequestID:      r.RequestID,
		ActorType:      event.ActorType(r.ActorType),
		ActorID:        r.ActorID,
		EntityType:     r.EntityType,
		EntityID:       r.EntityID,
		Phase:          phase.Kind(r.Phase),
		Day:            int(r.Day),
		PayloadJSON:    r.PayloadJSON,
	}
}

func newEventRow(evt event.Event) eventRow {
	return eventRow{
		GameID:         evt.GameID,
		Seq:            int64(evt.Seq),
		EventHash:      evt.Hash,
		PrevEventHash:  evt.PrevHash,
		ChainHash:      evt.ChainHash,
		SignatureKeyID: evt.SignatureKeyID,
		EventSignature: evt.Signature,
		Timestamp:      toMillis(evt.Timestamp),
		EventType:      string(evt.Type),
		RequestID:      evt.RequestID,
		ActorType:      string(evt.ActorType),
		ActorID:        evt.ActorID,
		EntityType:     evt.EntityType,
		EntityID:       evt.EntityID,
		Phase:          string(evt.Phase),
		Day:            int64(evt.Day),
		PayloadJSON:    evt.PayloadJSON,
	}
}
