package service

import (
	"time"

	"octowatch/internal/modules/watch/domain"
	"octowatch/internal/modules/watch/dto"
	"octowatch/internal/platform/logging"
)

// ReconcileService re-validates persisted schedules against the current
// resolver. Parsing fixes then reach records written by older builds
// without a manual migration. Notification flags are never touched.
type ReconcileService struct {
	log *logging.Logger
}

func NewReconcileService(log *logging.Logger) *ReconcileService {
	return &ReconcileService{log: log}
}

// Reconcile re-resolves every record with now pinned to the record's own
// start time, so the assumed year matches the original observation. A
// record is corrected when the recomputed range differs or the stored
// duration is implausible. Null reminder fields stay null; non-null ones
// are recomputed from the corrected boundaries.
func (s *ReconcileService) Reconcile(records []domain.Session) ([]domain.Session, []dto.Correction) {
	out := make([]domain.Session, len(records))
	corrections := []dto.Correction{}
	for i, record := range records {
		out[i] = record

		times, err := domain.Resolve(record.Raw, record.StartTime)
		if err != nil {
			s.log.Warn("stored session no longer resolvable, leaving as-is", map[string]any{
				"session": record.Raw, "error": err.Error(),
			})
			continue
		}
		if times.Start.Equal(record.StartTime) && times.End.Equal(record.EndTime) && record.DurationValid() {
			continue
		}

		corrected := record
		corrected.StartTime = times.Start
		corrected.EndTime = times.End
		if record.ReminderTime != nil {
			r := times.Start.Add(-domain.ReminderLead)
			corrected.ReminderTime = &r
		}
		if record.EndReminderTime != nil {
			r := times.End.Add(-domain.ReminderLead)
			corrected.EndReminderTime = &r
		}
		out[i] = corrected

		s.log.Info("corrected stored session times", map[string]any{
			"session":   record.Raw,
			"old_start": record.StartTime.Format(time.RFC3339),
			"old_end":   record.EndTime.Format(time.RFC3339),
			"new_start": corrected.StartTime.Format(time.RFC3339),
			"new_end":   corrected.EndTime.Format(time.RFC3339),
		})
		corrections = append(corrections, dto.Correction{
			Session:  record.Raw,
			OldStart: record.StartTime,
			OldEnd:   record.EndTime,
			NewStart: corrected.StartTime,
			NewEnd:   corrected.EndTime,
		})
	}
	return out, corrections
}
