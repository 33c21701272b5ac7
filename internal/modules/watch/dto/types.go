package dto

import "time"

type TickInput struct {
	// Reprocess clears notification flags on every active record before
	// ingestion, forcing the full announcement sequence to replay.
	Reprocess bool
}

type TickOutput struct {
	Observed  []string
	Created   []string
	Archived  []string
	Delivered int
	Changed   bool
}

type SessionInfo struct {
	Raw             string
	StartTime       time.Time
	EndTime         time.Time
	ReminderTime    *time.Time
	EndReminderTime *time.Time
	Notified        bool
	ReminderSent    bool
	EndSent         bool
	Stage           string
}

type StatusOutput struct {
	Active   []SessionInfo
	Archived []SessionInfo
}

type Correction struct {
	Session  string
	OldStart time.Time
	OldEnd   time.Time
	NewStart time.Time
	NewEnd   time.Time
}

type ReconcileOutput struct {
	Checked   int
	Corrected []Correction
}
