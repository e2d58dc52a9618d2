package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/domain/phase"
	"github.com/louisbranch/smalltown/internal/services/game/storage"
)

// Game projection methods.

const gameColumns = "id, name, status, phase, day, winner, mod_token_hash, require_grants, player_count, created_at, updated_at, snapshot_json"

// PutGame inserts or updates a game record. CreatedAt is preserved on update.
func (s *Store) PutGame(ctx context.Context, g storage.GameRecord) error {
	if err := s.readReady(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	if g.UpdatedAt.IsZero() {
		g.UpdatedAt = g.CreatedAt
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO games (`+gameColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    status = excluded.status,
    phase = excluded.phase,
    day = excluded.day,
    winner = excluded.winner,
    mod_token_hash = excluded.mod_token_hash,
    require_grants = excluded.require_grants,
    player_count = excluded.player_count,
    updated_at = excluded.updated_at,
    snapshot_json = excluded.snapshot_json`,
		g.ID,
		g.Name,
		g.Status,
		string(g.Phase),
		int64(g.Day),
		g.Winner,
		g.ModTokenHash,
		boolToInt(g.RequireGrants),
		int64(g.PlayerCount),
		toMillis(g.CreatedAt),
		toMillis(g.UpdatedAt),
		g.SnapshotJSON,
	)
	if err != nil {
		return fmt.Errorf("put game: %w", err)
	}
	return nil
}

// GetGame fetches a game record by ID.
func (s *Store) GetGame(ctx context.Context, id string) (storage.GameRecord, error) {
	if err := s.readReady(ctx); err != nil {
		return storage.GameRecord{}, err
	}
	if strings.TrimSpace(id) == "" {
		return storage.GameRecord{}, fmt.Errorf("game id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT "+gameColumns+" FROM games WHERE id = ?", id)
	record, err := scanGameRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.GameRecord{}, storage.ErrNotFound
		}
		return storage.GameRecord{}, fmt.Errorf("get game: %w", err)
	}

	return record, nil
}

// ListGames returns a page of game records ordered by creation time
// descending, newest first.
func (s *Store) ListGames(ctx context.Context, start, limit int) (storage.GamePage, error) {
	if err := s.readReady(ctx); err != nil {
		return storage.GamePage{}, err
	}
	if start < 0 {
		start = 0
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT "+gameColumns+" FROM games ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?",
		int64(limit), int64(start))
	if err != nil {
		return storage.GamePage{}, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	page := storage.GamePage{
		Games: make([]storage.GameRecord, 0, limit),
	}
	for rows.Next() {
		record, err := scanGameRow(rows.Scan)
		if err != nil {
			return storage.GamePage{}, fmt.Errorf("scan game: %w", err)
		}
		page.Games = append(page.Games, record)
	}
	if err := rows.Err(); err != nil {
		return storage.GamePage{}, fmt.Errorf("iterate games: %w", err)
	}

	if err := s.sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM games").Scan(&page.TotalCount); err != nil {
		return storage.GamePage{}, fmt.Errorf("count games: %w", err)
	}

	return page, nil
}

func scanGameRow(scan func(dest ...any) error) (storage.GameRecord, error) {
	var (
		record        storage.GameRecord
		phaseValue    string
		day           int64
		requireGrants int64
		playerCount   int64
		createdAt     int64
		updatedAt     int64
	)
	if err := scan(
		&record.ID,
		&record.Name,
		&record.Status,
		&phaseValue,
		&day,
		&record.Winner,
		&record.ModTokenHash,
		&requireGrants,
		&playerCount,
		&createdAt,
		&updatedAt,
		&record.SnapshotJSON,
	); err != nil {
		return storage.GameRecord{}, err
	}
	record.Phase = phase.Kind(phaseValue)
	record.Day = int(day)
	record.RequireGrants = intToBool(requireGrants)
	record.PlayerCount = int(playerCount)
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func intToBool(value int64) bool {
	return value != 0
}
