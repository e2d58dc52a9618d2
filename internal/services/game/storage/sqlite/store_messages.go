package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/smalltown/internal/services/game/storage"
)

// Chat read model methods.

// AppendMessage records one chat message. The caller assigns Seq from the
// channel's running count, so replaying the same event is a no-op.
func (s *Store) AppendMessage(ctx context.Context, m storage.MessageRecord) error {
	if err := s.readReady(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(m.GameID) == "" {
		return fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(m.ChannelID) == "" {
		return fmt.Errorf("channel id is required")
	}
	if m.Seq == 0 {
		return fmt.Errorf("message seq is required")
	}
	if strings.TrimSpace(m.Author) == "" {
		return fmt.Errorf("message author is required")
	}
	if m.At.IsZero() {
		m.At = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx,
		"INSERT OR IGNORE INTO messages (game_id, channel_id, seq, author, at, content) VALUES (?, ?, ?, ?, ?, ?)",
		m.GameID,
		m.ChannelID,
		int64(m.Seq),
		m.Author,
		toMillis(m.At),
		m.Content,
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// ListMessages returns a page of messages for a channel ordered by seq ascending.
func (s *Store) ListMessages(ctx context.Context, gameID, channelID string, start, limit int) (storage.MessagePage, error) {
	if err := s.readReady(ctx); err != nil {
		return storage.MessagePage{}, err
	}
	if strings.TrimSpace(gameID) == "" {
		return storage.MessagePage{}, fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(channelID) == "" {
		return storage.MessagePage{}, fmt.Errorf("channel id is required")
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
		"SELECT game_id, channel_id, seq, author, at, content FROM messages WHERE game_id = ? AND channel_id = ? ORDER BY seq ASC LIMIT ? OFFSET ?",
		gameID, channelID, int64(limit), int64(start))
	if err != nil {
		return storage.MessagePage{}, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	page := storage.MessagePage{
		Messages: make([]storage.MessageRecord, 0, limit),
	}
	for rows.Next() {
		var (
			record storage.MessageRecord
			seq    int64
			at     int64
		)
		if err := rows.Scan(
			&record.GameID,
			&record.ChannelID,
			&seq,
			&record.Author,
			&at,
			&record.Content,
		); err != nil {
			return storage.MessagePage{}, fmt.Errorf("scan message: %w", err)
		}
		record.Seq = uint64(seq)
		record.At = fromMillis(at)
		page.Messages = append(page.Messages, record)
	}
	if err := rows.Err(); err != nil {
		return storage.MessagePage{}, fmt.Errorf("iterate messages: %w", err)
	}

	if err := s.sqlDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE game_id = ? AND channel_id = ?",
		gameID, channelID).Scan(&page.TotalCount); err != nil {
		return storage.MessagePage{}, fmt.Errorf("count messages: %w", err)
	}

	return page, nil
}
