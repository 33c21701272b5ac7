package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	feeddto "octowatch/internal/modules/feed/dto"
	notifydto "octowatch/internal/modules/notify/dto"
	watchadapter "octowatch/internal/modules/watch/adapter/out"
	"octowatch/internal/modules/watch/domain"
	"octowatch/internal/modules/watch/dto"
	watchin "octowatch/internal/modules/watch/port/in"
	"octowatch/internal/modules/watch/service"
	"octowatch/internal/modules/watch/usecase"
	"octowatch/internal/platform/logging"
	"octowatch/internal/platform/tx"
)

type fakeFeed struct {
	sessions []string
	err      error
}

func (f *fakeFeed) Observe(context.Context) (feeddto.Observation, error) {
	if f.err != nil {
		return feeddto.Observation{}, f.err
	}
	return feeddto.Observation{Kind: "next", Sessions: f.sessions}, nil
}

type countingNotifier struct {
	tags []string
}

func (c *countingNotifier) Dispatch(_ context.Context, input notifydto.DispatchInput) (notifydto.DispatchOutput, error) {
	c.tags = append(c.tags, input.Tag)
	return notifydto.DispatchOutput{Attempted: 1, Delivered: 1}, nil
}

func (c *countingNotifier) History(context.Context, time.Time) ([]notifydto.DeliveryInfo, error) {
	return nil, nil
}

func (c *countingNotifier) Channels(context.Context) ([]notifydto.ChannelInfo, error) {
	return nil, nil
}

func (c *countingNotifier) Doctor(context.Context) ([]notifydto.DoctorResult, error) {
	return nil, nil
}

type fixedClock struct{ now time.Time }

func (f *fixedClock) Now() time.Time { return f.now }

func newWatch(t *testing.T, dir string, feed *fakeFeed, notifier *countingNotifier, clk *fixedClock) watchin.Usecase {
	t.Helper()
	log := logging.Discard()
	store := watchadapter.NewFileSessionStore(dir, log)
	reports := watchadapter.NewFileReportStore(dir)
	lifecycle := service.NewLifecycleService(notifier, log)
	reconciler := service.NewReconcileService(log)
	return usecase.NewInteractor(lifecycle, reconciler, feed, store, reports, &tx.MutexManager{}, clk, log)
}

func TestTickFullCycleAnnouncesOncePersists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	feed := &fakeFeed{sessions: []string{"8-10pm, Wednesday 8th October"}}
	notifier := &countingNotifier{}
	clk := &fixedClock{now: time.Date(2025, time.October, 8, 9, 0, 0, 0, time.Local)}
	watch := newWatch(t, dir, feed, notifier, clk)
	ctx := context.Background()

	out, err := watch.Tick(ctx, dto.TickInput{})
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if len(out.Created) != 1 || out.Created[0] != "8-10pm, Wednesday 8th October" {
		t.Fatalf("unexpected created: %v", out.Created)
	}
	if len(notifier.tags) != 1 || notifier.tags[0] != "announced" {
		t.Fatalf("expected single announcement, got %v", notifier.tags)
	}
	if !out.Changed {
		t.Fatal("first observation should register as changed")
	}

	// Second tick with the same observation: idempotent, nothing changed.
	out, err = watch.Tick(ctx, dto.TickInput{})
	if err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if len(out.Created) != 0 {
		t.Fatalf("repeat observation created records: %v", out.Created)
	}
	if len(notifier.tags) != 1 {
		t.Fatalf("announcement repeated: %v", notifier.tags)
	}
	if out.Changed {
		t.Fatal("identical observation should not register as changed")
	}

	status, err := watch.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(status.Active) != 1 || status.Active[0].Stage != "notified" {
		t.Fatalf("unexpected status: %+v", status.Active)
	}
}

func TestTickFetchFailureStillAdvancesLifecycle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	feed := &fakeFeed{sessions: []string{"8-10pm, Wednesday 8th October"}}
	notifier := &countingNotifier{}
	// First tick at T-4min so announcement and start reminder both fire later.
	clk := &fixedClock{now: time.Date(2025, time.October, 8, 9, 0, 0, 0, time.Local)}
	watch := newWatch(t, dir, feed, notifier, clk)
	ctx := context.Background()

	if _, err := watch.Tick(ctx, dto.TickInput{}); err != nil {
		t.Fatalf("seed tick: %v", err)
	}

	// Source goes down; the reminder window opens anyway.
	feed.err = errors.New("dial tcp: connection refused")
	clk.now = time.Date(2025, time.October, 8, 19, 56, 0, 0, time.Local)
	out, err := watch.Tick(ctx, dto.TickInput{})
	if err != nil {
		t.Fatalf("tick with failing fetch: %v", err)
	}
	if len(notifier.tags) != 2 || notifier.tags[1] != "start_reminder" {
		t.Fatalf("expected start reminder despite fetch failure, got %v", notifier.tags)
	}
	if out.Changed {
		t.Fatal("failed fetch must not update change detection")
	}
}

func TestTickReprocessReplaysAnnouncements(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	feed := &fakeFeed{sessions: []string{"8-10pm, Wednesday 8th October"}}
	notifier := &countingNotifier{}
	clk := &fixedClock{now: time.Date(2025, time.October, 8, 9, 0, 0, 0, time.Local)}
	watch := newWatch(t, dir, feed, notifier, clk)
	ctx := context.Background()

	if _, err := watch.Tick(ctx, dto.TickInput{}); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	if _, err := watch.Tick(ctx, dto.TickInput{Reprocess: true}); err != nil {
		t.Fatalf("reprocess tick: %v", err)
	}
	if len(notifier.tags) != 2 {
		t.Fatalf("expected replayed announcement, got %v", notifier.tags)
	}
}

func TestTickArchivesEndedSessions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	feed := &fakeFeed{sessions: []string{"8-10pm, Wednesday 8th October"}}
	notifier := &countingNotifier{}
	clk := &fixedClock{now: time.Date(2025, time.October, 8, 9, 0, 0, 0, time.Local)}
	watch := newWatch(t, dir, feed, notifier, clk)
	ctx := context.Background()

	if _, err := watch.Tick(ctx, dto.TickInput{}); err != nil {
		t.Fatalf("seed tick: %v", err)
	}

	clk.now = time.Date(2025, time.October, 8, 23, 0, 0, 0, time.Local)
	feed.sessions = nil
	out, err := watch.Tick(ctx, dto.TickInput{})
	if err != nil {
		t.Fatalf("archive tick: %v", err)
	}
	if len(out.Archived) != 1 {
		t.Fatalf("expected one archived session, got %v", out.Archived)
	}
	status, err := watch.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(status.Active) != 0 || len(status.Archived) != 1 {
		t.Fatalf("unexpected status after archival: %+v", status)
	}

	// The archived string stays deduplicated if the source repeats it.
	feed.sessions = []string{"8-10pm, Wednesday 8th October"}
	out, err = watch.Tick(ctx, dto.TickInput{})
	if err != nil {
		t.Fatalf("repeat tick: %v", err)
	}
	if len(out.Created) != 0 {
		t.Fatalf("archived session re-created: %v", out.Created)
	}
}

func TestReconcileCorrectsPersistedRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	log := logging.Discard()
	store := watchadapter.NewFileSessionStore(dir, log)
	ctx := context.Background()

	wrongStart := time.Date(2025, time.October, 8, 8, 0, 0, 0, time.Local)
	seeded := domain.Session{
		Raw:       "8-10pm, Wednesday 8th October",
		StartTime: wrongStart,
		EndTime:   time.Date(2025, time.October, 8, 22, 0, 0, 0, time.Local),
		Notified:  true,
	}
	if err := store.SaveActive(ctx, []domain.Session{seeded}); err != nil {
		t.Fatalf("seed active: %v", err)
	}

	watch := newWatch(t, dir, &fakeFeed{}, &countingNotifier{}, &fixedClock{now: wrongStart})
	out, err := watch.Reconcile(ctx)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if out.Checked != 1 || len(out.Corrected) != 1 {
		t.Fatalf("expected one correction, got %+v", out)
	}

	active, err := store.LoadActive(ctx)
	if err != nil {
		t.Fatalf("load active: %v", err)
	}
	wantStart := time.Date(2025, time.October, 8, 20, 0, 0, 0, time.Local)
	if !active[0].StartTime.Equal(wantStart) {
		t.Fatalf("correction not persisted: %v", active[0].StartTime)
	}
	if !active[0].Notified {
		t.Fatal("flags must survive reconciliation")
	}
}
