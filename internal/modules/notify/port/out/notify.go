package out

import (
	"context"
	"time"

	"octowatch/internal/modules/notify/domain"
)

// Sink pushes a composed message to one destination.
type Sink interface {
	Name() string
	Send(ctx context.Context, message string) error
}

// HistoryStore records every delivery attempt, successful or not.
type HistoryStore interface {
	Record(ctx context.Context, delivery domain.Delivery) error
	ListSince(ctx context.Context, since time.Time) ([]domain.Delivery, error)
}

// ManifestStore loads the configured channel manifests.
type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

// Host speaks the plugin protocol to channel binaries.
type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Deliver(ctx context.Context, manifest domain.Manifest, message string, tag domain.Tag) error
}
