package in

import (
	"context"

	"octowatch/internal/modules/watch/dto"
)

type Usecase interface {
	// Tick runs one full poll iteration: observe the source, ingest new
	// sessions, advance lifecycle stages, persist.
	Tick(ctx context.Context, input dto.TickInput) (dto.TickOutput, error)
	// Reconcile re-validates every persisted record against the resolver
	// and rewrites corrected schedules. Runs before the first tick.
	Reconcile(ctx context.Context) (dto.ReconcileOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
}
