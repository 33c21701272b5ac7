package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "octowatch/internal/platform/errors"
)

// Times is the resolved schedule of a session string. Reminder and
// EndReminder are nil when the corresponding instant was already past at
// resolution time.
type Times struct {
	Start       time.Time
	End         time.Time
	Reminder    *time.Time
	EndReminder *time.Time

	// NeedsReview marks a range still outside (0, MaxDuration] after the
	// one corrective meridiem flip. The record is usable; callers should
	// log it for manual inspection.
	NeedsReview bool
}

var (
	ordinalSuffix = regexp.MustCompile(`(?i)(\d+)(st|nd|rd|th)`)
	clockNumeral  = regexp.MustCompile(`^(\d+)(am|pm)?`)
)

const dateLayout = "Monday 2 January 2006"

// Resolve turns an announcement like "9-10pm, Friday 24th October" into a
// validated start/end pair plus reminder instants. now supplies the assumed
// calendar year and gates the future-only reminder rule.
//
// The meridiem policy mirrors the announcement convention: a bare end time is
// PM, and a bare start time inherits the end's meridiem. When the resulting
// duration falls outside (0, MaxDuration] and the start resolved to AM, the
// start is flipped to PM once and the range recomputed.
func Resolve(raw string, now time.Time) (Times, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return Times{}, fmt.Errorf("%w: %q", apperrors.ErrMalformedSession, raw)
	}
	timePart := strings.TrimSpace(parts[0])
	datePart := ordinalSuffix.ReplaceAllString(strings.TrimSpace(parts[1]), "$1")

	bounds := strings.Split(timePart, "-")
	if len(bounds) != 2 {
		return Times{}, fmt.Errorf("%w: time range %q", apperrors.ErrMalformedSession, timePart)
	}

	endHour, endPM, endExplicit, err := parseClock(bounds[1])
	if err != nil {
		return Times{}, err
	}
	if !endExplicit {
		endPM = true
	}
	startHour, startPM, startExplicit, err := parseClock(bounds[0])
	if err != nil {
		return Times{}, err
	}
	if !startExplicit {
		startPM = endPM
	}

	day, err := time.Parse(dateLayout, fmt.Sprintf("%s %d", datePart, now.Year()))
	if err != nil {
		return Times{}, fmt.Errorf("%w: %q", apperrors.ErrUnparseableDate, datePart)
	}

	onDay := func(hour int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, now.Location())
	}
	start := onDay(to24Hour(startHour, startPM))
	end := onDay(to24Hour(endHour, endPM))

	t := Times{Start: start, End: end}
	if d := end.Sub(start); d <= 0 || d > MaxDuration {
		// One corrective pass, not a search: an AM start inside a PM-ish
		// range is the only error the heuristic knows how to repair.
		if !startPM {
			t.Start = onDay(to24Hour(startHour, true))
		}
		if d := t.End.Sub(t.Start); d <= 0 || d > MaxDuration {
			t.NeedsReview = true
		}
	}

	t.Reminder = futureOnly(t.Start.Add(-ReminderLead), now)
	t.EndReminder = futureOnly(t.End.Add(-ReminderLead), now)
	return t, nil
}

// parseClock reads the leading numeral and optional meridiem of one side of a
// time range. explicit reports whether a meridiem was present.
func parseClock(s string) (hour int, pm bool, explicit bool, err error) {
	m := clockNumeral.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, false, false, fmt.Errorf("%w: clock value %q", apperrors.ErrMalformedSession, s)
	}
	hour, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, false, false, fmt.Errorf("%w: clock value %q", apperrors.ErrMalformedSession, s)
	}
	return hour, m[2] == "pm", m[2] != "", nil
}

// to24Hour applies standard 12-hour rules: 12am is 0, 12pm stays 12.
func to24Hour(hour int, pm bool) int {
	if pm && hour != 12 {
		return hour + 12
	}
	if !pm && hour == 12 {
		return 0
	}
	return hour
}

func futureOnly(t, now time.Time) *time.Time {
	if !t.After(now) {
		return nil
	}
	return &t
}
