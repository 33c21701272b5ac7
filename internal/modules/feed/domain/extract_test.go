package domain_test

import (
	"testing"

	"octowatch/internal/modules/feed/domain"
)

func TestExtractMultipleUpcomingSessions(t *testing.T) {
	t.Parallel()
	page := `<h2>Free electricity</h2>
<p>Next Sessions:<br>12-3pm, Saturday 25th October<br>9-10pm, Friday 24th October</p>
<h2>How it works</h2><p>9-10pm, Friday 1st January should be ignored</p>`

	kind, sessions := domain.Extract(page)
	if kind != domain.KindNext {
		t.Fatalf("kind = %q, want next", kind)
	}
	want := []string{"12-3pm, Saturday 25th October", "9-10pm, Friday 24th October"}
	if len(sessions) != len(want) {
		t.Fatalf("sessions = %v, want %v", sessions, want)
	}
	for i := range want {
		if sessions[i] != want[i] {
			t.Fatalf("sessions[%d] = %q, want %q", i, sessions[i], want[i])
		}
	}
}

func TestExtractLastSessionBlock(t *testing.T) {
	t.Parallel()
	page := `<p>Last Session: <strong>9-10pm, Friday 24th October</strong></p>Next Power Tower<p>junk</p>`

	kind, sessions := domain.Extract(page)
	if kind != domain.KindLast {
		t.Fatalf("kind = %q, want last", kind)
	}
	if len(sessions) != 1 || sessions[0] != "9-10pm, Friday 24th October" {
		t.Fatalf("sessions = %v", sessions)
	}
}

func TestExtractDeduplicatesWithinBatch(t *testing.T) {
	t.Parallel()
	page := `Next Session:<br>9-10pm, Friday 24th October<br>9-10pm, Friday 24th October`

	_, sessions := domain.Extract(page)
	if len(sessions) != 1 {
		t.Fatalf("sessions = %v, want a single entry", sessions)
	}
}

func TestExtractNothingWithoutHeadings(t *testing.T) {
	t.Parallel()
	kind, sessions := domain.Extract(`<p>No announcements today.</p>`)
	if kind != domain.KindNone || sessions != nil {
		t.Fatalf("kind = %q sessions = %v, want none", kind, sessions)
	}
}
