package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	watchout "octowatch/internal/modules/watch/adapter/out"
	"octowatch/internal/modules/watch/domain"
)

func TestWriteArchiveReportRendersFrontmatter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := watchout.NewFileReportStore(dir)

	start := time.Date(2025, time.October, 8, 20, 0, 0, 0, time.UTC)
	session := domain.Session{
		Raw:       "8-10pm, Wednesday 8th October",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Notified:  true,
		EndSent:   true,
	}
	if err := store.WriteArchiveReport(context.Background(), session); err != nil {
		t.Fatalf("write archive report: %v", err)
	}

	path := filepath.Join(dir, "sessions", "2025", "8-10pm-wednesday-8th-october.md")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	content := string(b)
	if !strings.HasPrefix(content, "---\n") {
		t.Fatalf("expected frontmatter, got %q", content[:20])
	}
	if !strings.Contains(content, "session: 8-10pm, Wednesday 8th October") {
		t.Fatalf("missing session in frontmatter:\n%s", content)
	}
	if !strings.Contains(content, "# 8-10pm, Wednesday 8th October") {
		t.Fatalf("missing heading:\n%s", content)
	}
}

func TestWriteStatusCreatesAndUpdatesManagedBlock(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := watchout.NewFileReportStore(dir)
	ctx := context.Background()

	start := time.Date(2025, time.October, 8, 20, 0, 0, 0, time.UTC)
	session := domain.Session{Raw: "first", StartTime: start, EndTime: start.Add(time.Hour)}
	if err := store.WriteStatus(ctx, []domain.Session{session}); err != nil {
		t.Fatalf("write status: %v", err)
	}

	path := filepath.Join(dir, "status.md")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read status: %v", err)
	}
	if !strings.Contains(string(b), "- first") {
		t.Fatalf("missing session line:\n%s", b)
	}

	// Rewriting must replace the block, not append a second one.
	session.Raw = "second"
	if err := store.WriteStatus(ctx, []domain.Session{session}); err != nil {
		t.Fatalf("rewrite status: %v", err)
	}
	b, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("re-read status: %v", err)
	}
	content := string(b)
	if strings.Contains(content, "- first") {
		t.Fatalf("stale block survived rewrite:\n%s", content)
	}
	if strings.Count(content, "<!-- octowatch:sessions:start -->") != 1 {
		t.Fatalf("expected exactly one managed block:\n%s", content)
	}
}

func TestWriteStatusEmptyActiveSet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := watchout.NewFileReportStore(dir)
	if err := store.WriteStatus(context.Background(), nil); err != nil {
		t.Fatalf("write status: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "status.md"))
	if err != nil {
		t.Fatalf("read status: %v", err)
	}
	if !strings.Contains(string(b), "No upcoming sessions") {
		t.Fatalf("missing empty placeholder:\n%s", b)
	}
}
