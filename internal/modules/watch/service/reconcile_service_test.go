package service_test

import (
	"testing"
	"time"

	"octowatch/internal/modules/watch/domain"
	"octowatch/internal/modules/watch/service"
	"octowatch/internal/platform/logging"
)

func TestReconcileLeavesCorrectRecordsAlone(t *testing.T) {
	t.Parallel()

	svc := service.NewReconcileService(logging.Discard())

	start := time.Date(2025, time.October, 8, 20, 0, 0, 0, time.Local)
	reminder := start.Add(-domain.ReminderLead)
	record := domain.Session{
		Raw:          "8-10pm, Wednesday 8th October",
		StartTime:    start,
		EndTime:      start.Add(2 * time.Hour),
		ReminderTime: &reminder,
		Notified:     true,
	}

	out, corrections := svc.Reconcile([]domain.Session{record})
	if len(corrections) != 0 {
		t.Fatalf("expected no corrections, got %+v", corrections)
	}
	if !out[0].StartTime.Equal(start) || !out[0].Notified {
		t.Fatalf("record altered without cause: %+v", out[0])
	}
}

func TestReconcileCorrectsDriftedTimesPreservingFlags(t *testing.T) {
	t.Parallel()

	svc := service.NewReconcileService(logging.Discard())

	// Stored with a bad AM start from an older parser: 8am-10pm, 14 hours.
	wrongStart := time.Date(2025, time.October, 8, 8, 0, 0, 0, time.Local)
	end := time.Date(2025, time.October, 8, 22, 0, 0, 0, time.Local)
	reminder := wrongStart.Add(-domain.ReminderLead)
	record := domain.Session{
		Raw:          "8-10pm, Wednesday 8th October",
		StartTime:    wrongStart,
		EndTime:      end,
		ReminderTime: &reminder,
		Notified:     true,
		ReminderSent: true,
	}

	out, corrections := svc.Reconcile([]domain.Session{record})
	if len(corrections) != 1 {
		t.Fatalf("expected one correction, got %d", len(corrections))
	}
	got := out[0]
	wantStart := time.Date(2025, time.October, 8, 20, 0, 0, 0, time.Local)
	if !got.StartTime.Equal(wantStart) || !got.EndTime.Equal(end) {
		t.Fatalf("unexpected corrected times: %v - %v", got.StartTime, got.EndTime)
	}
	if !got.Notified || !got.ReminderSent {
		t.Fatal("reconciliation must never alter notification flags")
	}
	if got.ReminderTime == nil || !got.ReminderTime.Equal(wantStart.Add(-domain.ReminderLead)) {
		t.Fatalf("reminder not recomputed from corrected start: %v", got.ReminderTime)
	}
}

func TestReconcilePreservesNullReminders(t *testing.T) {
	t.Parallel()

	svc := service.NewReconcileService(logging.Discard())

	wrongStart := time.Date(2025, time.October, 8, 8, 0, 0, 0, time.Local)
	record := domain.Session{
		Raw:       "8-10pm, Wednesday 8th October",
		StartTime: wrongStart,
		EndTime:   time.Date(2025, time.October, 8, 22, 0, 0, 0, time.Local),
	}

	out, corrections := svc.Reconcile([]domain.Session{record})
	if len(corrections) != 1 {
		t.Fatalf("expected a correction, got %d", len(corrections))
	}
	if out[0].ReminderTime != nil || out[0].EndReminderTime != nil {
		t.Fatalf("null reminders must stay null: %+v", out[0])
	}
}

func TestReconcileKeepsUnresolvableRecords(t *testing.T) {
	t.Parallel()

	svc := service.NewReconcileService(logging.Discard())

	record := domain.Session{
		Raw:       "garbage with no structure",
		StartTime: time.Date(2025, time.October, 8, 20, 0, 0, 0, time.Local),
		EndTime:   time.Date(2025, time.October, 8, 22, 0, 0, 0, time.Local),
		Notified:  true,
	}

	out, corrections := svc.Reconcile([]domain.Session{record})
	if len(corrections) != 0 {
		t.Fatalf("expected no corrections, got %+v", corrections)
	}
	if out[0].Raw != record.Raw || !out[0].Notified {
		t.Fatalf("unresolvable record altered: %+v", out[0])
	}
}
