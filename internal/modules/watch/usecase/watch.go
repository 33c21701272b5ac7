package usecase

import (
	"context"

	feedin "octowatch/internal/modules/feed/port/in"
	"octowatch/internal/modules/watch/domain"
	"octowatch/internal/modules/watch/dto"
	watchin "octowatch/internal/modules/watch/port/in"
	watchout "octowatch/internal/modules/watch/port/out"
	"octowatch/internal/modules/watch/service"
	"octowatch/internal/platform/clock"
	"octowatch/internal/platform/logging"
	"octowatch/internal/platform/tx"
)

// Interactor drives whole poll iterations. Every iteration runs inside the
// transaction manager so the load-modify-save sequence over the session
// collections is never interleaved.
type Interactor struct {
	lifecycle  *service.LifecycleService
	reconciler *service.ReconcileService
	feed       feedin.Usecase
	store      watchout.SessionStore
	reports    watchout.ReportStore
	txm        tx.Manager
	clock      clock.Clock
	log        *logging.Logger
}

func NewInteractor(
	lifecycle *service.LifecycleService,
	reconciler *service.ReconcileService,
	feed feedin.Usecase,
	store watchout.SessionStore,
	reports watchout.ReportStore,
	txm tx.Manager,
	clk clock.Clock,
	log *logging.Logger,
) watchin.Usecase {
	return &Interactor{
		lifecycle:  lifecycle,
		reconciler: reconciler,
		feed:       feed,
		store:      store,
		reports:    reports,
		txm:        txm,
		clock:      clk,
		log:        log,
	}
}

func (i *Interactor) Tick(ctx context.Context, input dto.TickInput) (dto.TickOutput, error) {
	out := dto.TickOutput{}
	err := i.txm.Within(ctx, func(ctx context.Context) error {
		now := i.clock.Now()

		observed := []string{}
		fetchOK := true
		observation, err := i.feed.Observe(ctx)
		if err != nil {
			// The source being unreachable never stops the lifecycle;
			// reminders for already-known sessions still have to fire.
			fetchOK = false
			i.log.Warn("source fetch failed, advancing without new observations", map[string]any{
				"error": err.Error(),
			})
		} else {
			observed = observation.Sessions
		}
		out.Observed = observed

		active, err := i.store.LoadActive(ctx)
		if err != nil {
			return err
		}
		archived, err := i.store.LoadArchived(ctx)
		if err != nil {
			return err
		}

		if input.Reprocess {
			active = i.lifecycle.ResetFlags(active)
		}

		created := i.lifecycle.Ingest(now, observed, active, archived)
		for _, session := range created {
			out.Created = append(out.Created, session.Raw)
		}
		active = append(active, created...)

		result := i.lifecycle.Advance(ctx, now, active, archived)
		out.Delivered = result.Delivered
		for _, session := range result.ArchivedNow {
			out.Archived = append(out.Archived, session.Raw)
		}

		if err := i.store.SaveActive(ctx, result.Active); err != nil {
			return err
		}
		if err := i.store.SaveArchived(ctx, result.Archived); err != nil {
			return err
		}

		for _, session := range result.ArchivedNow {
			if err := i.reports.WriteArchiveReport(ctx, session); err != nil {
				i.log.Warn("archive report write failed", map[string]any{
					"session": session.Raw, "error": err.Error(),
				})
			}
		}
		if err := i.reports.WriteStatus(ctx, result.Active); err != nil {
			i.log.Warn("status file write failed", map[string]any{"error": err.Error()})
		}

		if fetchOK {
			previous, err := i.store.LoadLastSeen(ctx)
			if err != nil {
				return err
			}
			out.Changed = !sameSet(previous, observed)
			if !out.Changed {
				i.log.Info("nothing changed on the source", map[string]any{
					"observed": len(observed),
				})
			}
			if err := i.store.SaveLastSeen(ctx, observed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dto.TickOutput{}, err
	}
	return out, nil
}

func (i *Interactor) Reconcile(ctx context.Context) (dto.ReconcileOutput, error) {
	out := dto.ReconcileOutput{}
	err := i.txm.Within(ctx, func(ctx context.Context) error {
		active, err := i.store.LoadActive(ctx)
		if err != nil {
			return err
		}
		archived, err := i.store.LoadArchived(ctx)
		if err != nil {
			return err
		}
		out.Checked = len(active) + len(archived)

		correctedActive, activeChanges := i.reconciler.Reconcile(active)
		correctedArchived, archivedChanges := i.reconciler.Reconcile(archived)
		out.Corrected = append(activeChanges, archivedChanges...)

		if len(activeChanges) > 0 {
			if err := i.store.SaveActive(ctx, correctedActive); err != nil {
				return err
			}
		}
		if len(archivedChanges) > 0 {
			if err := i.store.SaveArchived(ctx, correctedArchived); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dto.ReconcileOutput{}, err
	}
	return out, nil
}

func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	out := dto.StatusOutput{}
	err := i.txm.Within(ctx, func(ctx context.Context) error {
		active, err := i.store.LoadActive(ctx)
		if err != nil {
			return err
		}
		archived, err := i.store.LoadArchived(ctx)
		if err != nil {
			return err
		}
		out.Active = toInfos(active)
		out.Archived = toInfos(archived)
		return nil
	})
	if err != nil {
		return dto.StatusOutput{}, err
	}
	return out, nil
}

func toInfos(sessions []domain.Session) []dto.SessionInfo {
	out := make([]dto.SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, dto.SessionInfo{
			Raw:             session.Raw,
			StartTime:       session.StartTime,
			EndTime:         session.EndTime,
			ReminderTime:    session.ReminderTime,
			EndReminderTime: session.EndReminderTime,
			Notified:        session.Notified,
			ReminderSent:    session.ReminderSent,
			EndSent:         session.EndSent,
			Stage:           string(session.Stage()),
		})
	}
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]struct{}{}
	for _, s := range a {
		seen[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			return false
		}
	}
	return true
}
