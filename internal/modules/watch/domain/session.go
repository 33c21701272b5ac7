package domain

import "time"

// ReminderLead is how far before a boundary the corresponding reminder fires.
const ReminderLead = 5 * time.Minute

// MaxDuration bounds a plausible session. Anything longer is treated as a
// meridiem-inference error by the resolver.
const MaxDuration = 4 * time.Hour

// Stage is the derived position of a session in its notification sequence.
type Stage string

const (
	StageUnnotified   Stage = "unnotified"
	StageNotified     Stage = "notified"
	StageReminderSent Stage = "reminder_sent"
	StageEndSent      Stage = "end_sent"
)

// Session is one announced free-electricity window. Raw is the natural key:
// two sessions are the same session iff their announcement strings are equal.
// The JSON field names are the on-disk store format.
type Session struct {
	Raw             string     `json:"session"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	ReminderTime    *time.Time `json:"reminder_time,omitempty"`
	EndReminderTime *time.Time `json:"end_reminder_time,omitempty"`
	Notified        bool       `json:"notified"`
	ReminderSent    bool       `json:"reminder_sent"`
	EndSent         bool       `json:"end_sent"`
}

// New builds an untouched session record from resolved times. All
// notification flags start false; they only ever flip to true.
func New(raw string, t Times) Session {
	return Session{
		Raw:             raw,
		StartTime:       t.Start,
		EndTime:         t.End,
		ReminderTime:    t.Reminder,
		EndReminderTime: t.EndReminder,
	}
}

func (s Session) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// DurationValid reports whether the stored range satisfies 0 < d <= MaxDuration.
func (s Session) DurationValid() bool {
	d := s.Duration()
	return d > 0 && d <= MaxDuration
}

// Ended reports whether the session's window has closed at now.
func (s Session) Ended(now time.Time) bool {
	return !s.EndTime.After(now)
}

func (s Session) Stage() Stage {
	switch {
	case s.EndSent:
		return StageEndSent
	case s.ReminderSent:
		return StageReminderSent
	case s.Notified:
		return StageNotified
	default:
		return StageUnnotified
	}
}
