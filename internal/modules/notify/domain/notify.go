package domain

import (
	"fmt"
	"time"
)

// Tag classifies a notification within the session lifecycle. Each
// session/tag pair is delivered at most once.
type Tag string

const (
	TagAnnounced     Tag = "announced"
	TagStartReminder Tag = "start_reminder"
	TagEndReminder   Tag = "end_reminder"
	TagTest          Tag = "test"
)

func (t Tag) Validate() error {
	switch t {
	case TagAnnounced, TagStartReminder, TagEndReminder, TagTest:
		return nil
	default:
		return fmt.Errorf("unknown notification tag: %s", t)
	}
}

// SenderName is the display name attached to every outgoing webhook post.
const SenderName = "🐙 Octopus - Free Electric!!! ⚡️"

// Compose renders the outgoing message for a session/tag pair. verifyURL
// is appended to announcements so recipients can confirm against the
// supplier's own page.
func Compose(tag Tag, session string, verifyURL string) string {
	switch tag {
	case TagAnnounced:
		msg := fmt.Sprintf("📣 Free Electric Session Scheduled: %s", session)
		if verifyURL != "" {
			msg += fmt.Sprintf("\n- Check with: %s\n  or https://x.com/savingsessions", verifyURL)
		}
		return msg
	case TagStartReminder:
		return fmt.Sprintf("📣 T-5mins to Delta! %s", session)
	case TagEndReminder:
		return fmt.Sprintf("🐰 End State: %s", session)
	case TagTest:
		return fmt.Sprintf("🔧 Test notification: %s", session)
	default:
		return session
	}
}

// Delivery is one attempt to push a message through one sink. Failed
// attempts are recorded too; delivery is never retried.
type Delivery struct {
	ID        string
	Session   string
	Tag       Tag
	Sink      string
	Message   string
	SentAt    time.Time
	Delivered bool
	Error     string
}
