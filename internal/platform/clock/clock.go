package clock

import "time"

// Clock abstracts time so lifecycle decisions stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock returns local wall-clock time. Session announcements carry no
// zone, so the whole pipeline works in local time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
