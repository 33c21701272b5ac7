package out

import (
	"context"

	"octowatch/internal/modules/watch/domain"
)

// SessionStore persists the three collections the watcher owns. Loads are
// forgiving: corruption degrades to an empty collection, never an error
// that would stop the poll loop.
type SessionStore interface {
	LoadActive(ctx context.Context) ([]domain.Session, error)
	SaveActive(ctx context.Context, sessions []domain.Session) error
	LoadArchived(ctx context.Context) ([]domain.Session, error)
	SaveArchived(ctx context.Context, sessions []domain.Session) error
	LoadLastSeen(ctx context.Context) ([]string, error)
	SaveLastSeen(ctx context.Context, observed []string) error
}

// ReportStore renders human-readable artifacts next to the JSON state.
type ReportStore interface {
	WriteArchiveReport(ctx context.Context, session domain.Session) error
	WriteStatus(ctx context.Context, active []domain.Session) error
}
