package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"octowatch/internal/modules/notify/domain"
	notifyout "octowatch/internal/modules/notify/port/out"

	_ "modernc.org/sqlite"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// SQLiteHistoryStore keeps an append-only audit trail of delivery
// attempts. It is a projection; the lifecycle flags on the session
// records stay authoritative.
type SQLiteHistoryStore struct {
	db *sql.DB
}

func NewSQLiteHistoryStore(dbPath string) (*SQLiteHistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteHistoryStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteHistoryStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  session TEXT NOT NULL,
  tag TEXT NOT NULL,
  sink TEXT NOT NULL,
  message TEXT NOT NULL,
  sent_at TEXT NOT NULL,
  delivered INTEGER NOT NULL,
  error TEXT NOT NULL DEFAULT ''
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create notifications table: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) Record(ctx context.Context, delivery domain.Delivery) error {
	const stmt = `
INSERT INTO notifications (id, session, tag, sink, message, sent_at, delivered, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`
	delivered := 0
	if delivery.Delivered {
		delivered = 1
	}
	_, err := s.db.ExecContext(ctx, stmt,
		delivery.ID,
		delivery.Session,
		string(delivery.Tag),
		delivery.Sink,
		delivery.Message,
		delivery.SentAt.Format(timeFormat),
		delivered,
		delivery.Error,
	)
	if err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) ListSince(ctx context.Context, since time.Time) ([]domain.Delivery, error) {
	const query = `
SELECT id, session, tag, sink, message, sent_at, delivered, error
FROM notifications
WHERE sent_at >= ?
ORDER BY sent_at ASC;
`
	rows, err := s.db.QueryContext(ctx, query, since.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := []domain.Delivery{}
	for rows.Next() {
		var (
			d         domain.Delivery
			tag       string
			sentAt    string
			delivered int
		)
		if err := rows.Scan(&d.ID, &d.Session, &tag, &d.Sink, &d.Message, &sentAt, &delivered, &d.Error); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		parsed, err := time.Parse(timeFormat, sentAt)
		if err != nil {
			return nil, fmt.Errorf("parse delivery time: %w", err)
		}
		d.Tag = domain.Tag(tag)
		d.SentAt = parsed
		d.Delivered = delivered == 1
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}
	return deliveries, nil
}

func (s *SQLiteHistoryStore) Close() error {
	return s.db.Close()
}

var _ notifyout.HistoryStore = (*SQLiteHistoryStore)(nil)
