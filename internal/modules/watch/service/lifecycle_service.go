package service

import (
	"context"
	"strings"
	"time"

	notifydto "octowatch/internal/modules/notify/dto"
	notifyin "octowatch/internal/modules/notify/port/in"
	"octowatch/internal/modules/watch/domain"
	"octowatch/internal/platform/logging"
)

// LifecycleService owns the per-tick state machine: ingest newly observed
// session strings, then advance every active record through its
// announcement sequence. Flags only ever move forward, and each flag is set
// at the moment delivery is attempted, delivered or not.
type LifecycleService struct {
	notifier notifyin.Usecase
	log      *logging.Logger
}

func NewLifecycleService(notifier notifyin.Usecase, log *logging.Logger) *LifecycleService {
	return &LifecycleService{notifier: notifier, log: log}
}

// Ingest resolves observed session strings that are absent from both the
// active and archived sets and returns the records to append. Strings
// already known in either set are duplicate observations and are ignored.
// Resolver failures skip the one string, never the batch.
func (s *LifecycleService) Ingest(now time.Time, observed []string, active, archived []domain.Session) []domain.Session {
	activeSet := map[string]struct{}{}
	for _, session := range active {
		activeSet[session.Raw] = struct{}{}
	}
	archivedByRaw := map[string]domain.Session{}
	for _, session := range archived {
		archivedByRaw[session.Raw] = session
	}

	created := []domain.Session{}
	seenBatch := map[string]struct{}{}
	for _, raw := range observed {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if _, ok := seenBatch[raw]; ok {
			continue
		}
		seenBatch[raw] = struct{}{}

		if _, ok := activeSet[raw]; ok {
			s.log.Debug("session already active, ignoring observation", map[string]any{"session": raw})
			continue
		}
		if _, ok := archivedByRaw[raw]; ok {
			s.log.Debug("session already archived, ignoring observation", map[string]any{"session": raw})
			continue
		}

		times, err := domain.Resolve(raw, now)
		if err != nil {
			s.log.Warn("skipping unresolvable session", map[string]any{
				"session": raw, "error": err.Error(),
			})
			continue
		}
		if times.NeedsReview {
			s.log.Warn("session duration still implausible after correction", map[string]any{
				"session": raw,
				"start":   times.Start.Format(time.RFC3339),
				"end":     times.End.Format(time.RFC3339),
			})
		}

		session := domain.New(raw, times)
		// Recovery insert: a record lost from the active store keeps its
		// announced status if an archived twin still carries it.
		if twin, ok := archivedByRaw[raw]; ok {
			session.Notified = twin.Notified
		}
		created = append(created, session)
		s.log.Info("new session detected", map[string]any{
			"session": raw,
			"start":   times.Start.Format(time.RFC3339),
			"end":     times.End.Format(time.RFC3339),
		})
	}
	return created
}

type AdvanceResult struct {
	Active      []domain.Session
	Archived    []domain.Session
	ArchivedNow []domain.Session
	Delivered   int
}

// Advance runs every active record through the notification stages against
// now, then moves ended records to the archive. A late-detected session is
// still announced even when its start is already past; reminders
// additionally require a non-null reminder instant that has been reached
// while the corresponding boundary is still ahead.
func (s *LifecycleService) Advance(ctx context.Context, now time.Time, active, archived []domain.Session) AdvanceResult {
	result := AdvanceResult{
		Active:   make([]domain.Session, 0, len(active)),
		Archived: archived,
	}
	for _, session := range active {
		if !session.Notified {
			result.Delivered += s.dispatch(ctx, session.Raw, "announced")
			session.Notified = true
		}
		if session.ReminderTime != nil && !session.ReminderSent &&
			!session.ReminderTime.After(now) && now.Before(session.StartTime) {
			result.Delivered += s.dispatch(ctx, session.Raw, "start_reminder")
			session.ReminderSent = true
		}
		if session.EndReminderTime != nil && !session.EndSent &&
			!session.EndReminderTime.After(now) && now.Before(session.EndTime) {
			result.Delivered += s.dispatch(ctx, session.Raw, "end_reminder")
			session.EndSent = true
		}
		if session.Ended(now) {
			result.Archived = append(result.Archived, session)
			result.ArchivedNow = append(result.ArchivedNow, session)
			s.log.Info("session archived", map[string]any{"session": session.Raw})
			continue
		}
		result.Active = append(result.Active, session)
	}
	return result
}

// ResetFlags clears every notification flag so the next advance replays the
// full sequence. Used by the explicit reprocess override only.
func (s *LifecycleService) ResetFlags(active []domain.Session) []domain.Session {
	out := make([]domain.Session, len(active))
	for i, session := range active {
		session.Notified = false
		session.ReminderSent = false
		session.EndSent = false
		out[i] = session
	}
	if len(out) > 0 {
		s.log.Info("notification flags reset for reprocessing", map[string]any{"count": len(out)})
	}
	return out
}

func (s *LifecycleService) dispatch(ctx context.Context, session, tag string) int {
	out, err := s.notifier.Dispatch(ctx, notifydto.DispatchInput{Session: session, Tag: tag})
	if err != nil {
		s.log.Warn("dispatch failed, flag advances anyway", map[string]any{
			"session": session, "tag": tag, "error": err.Error(),
		})
	}
	return out.Delivered
}
