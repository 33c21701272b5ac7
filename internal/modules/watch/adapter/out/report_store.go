package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"octowatch/internal/modules/watch/domain"
	watchout "octowatch/internal/modules/watch/port/out"
	"octowatch/internal/platform/markdown"
	"octowatch/internal/platform/slug"
)

const (
	statusFile        = "status.md"
	statusStartMarker = "<!-- octowatch:sessions:start -->"
	statusEndMarker   = "<!-- octowatch:sessions:end -->"
	reportTimeFormat  = "Mon 2 Jan 2006 15:04"
)

// FileReportStore renders a markdown note per archived session and keeps a
// managed block in status.md listing what is still upcoming.
type FileReportStore struct {
	dir string
}

func NewFileReportStore(dir string) watchout.ReportStore {
	return &FileReportStore{dir: dir}
}

func (s *FileReportStore) WriteArchiveReport(_ context.Context, session domain.Session) error {
	year := strconv.Itoa(session.StartTime.Year())
	reportDir := filepath.Join(s.dir, "sessions", year)
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	meta := map[string]any{
		"session":       session.Raw,
		"start_time":    session.StartTime.Format(time.RFC3339),
		"end_time":      session.EndTime.Format(time.RFC3339),
		"notified":      session.Notified,
		"reminder_sent": session.ReminderSent,
		"end_sent":      session.EndSent,
	}
	body := fmt.Sprintf("# %s\n\nRan %s to %s (%s).\n",
		session.Raw,
		session.StartTime.Format(reportTimeFormat),
		session.EndTime.Format(reportTimeFormat),
		session.Duration(),
	)
	content, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return err
	}

	path := filepath.Join(reportDir, slug.Make(session.Raw)+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write archive report: %w", err)
	}
	return nil
}

func (s *FileReportStore) WriteStatus(_ context.Context, active []domain.Session) error {
	path := filepath.Join(s.dir, statusFile)
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read status file: %w", err)
	}
	body := string(existing)
	if body == "" {
		body = "# Free Electricity Sessions\n"
	}

	sorted := make([]domain.Session, len(active))
	copy(sorted, active)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	lines := make([]string, 0, len(sorted))
	for _, session := range sorted {
		lines = append(lines, fmt.Sprintf("- %s (%s, stage: %s)",
			session.Raw,
			session.StartTime.Format(reportTimeFormat),
			session.Stage(),
		))
	}
	if len(lines) == 0 {
		lines = append(lines, "_No upcoming sessions._")
	}

	updated := markdown.ReplaceManagedBlock(body, statusStartMarker, statusEndMarker, strings.Join(lines, "\n"))
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("write status file: %w", err)
	}
	return nil
}
