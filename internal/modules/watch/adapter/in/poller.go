package in

import (
	"context"
	"time"

	"octowatch/internal/modules/watch/dto"
	watchin "octowatch/internal/modules/watch/port/in"
	"octowatch/internal/platform/logging"
)

// Poller runs the watch loop: reconcile once at startup, then tick at the
// configured interval. An iteration always runs to completion; cancellation
// is only observed between iterations.
type Poller struct {
	usecase watchin.Usecase
	log     *logging.Logger
}

func NewPoller(usecase watchin.Usecase, log *logging.Logger) *Poller {
	return &Poller{usecase: usecase, log: log}
}

// Run executes the loop. once limits it to a single iteration; reprocess
// applies to the first iteration only.
func (p *Poller) Run(ctx context.Context, interval time.Duration, once, reprocess bool) error {
	if out, err := p.usecase.Reconcile(ctx); err != nil {
		p.log.Warn("startup reconciliation failed", map[string]any{"error": err.Error()})
	} else if len(out.Corrected) > 0 {
		p.log.Info("startup reconciliation corrected records", map[string]any{
			"checked": out.Checked, "corrected": len(out.Corrected),
		})
	}

	for {
		out, err := p.usecase.Tick(ctx, dto.TickInput{Reprocess: reprocess})
		if err != nil {
			p.log.Error("poll tick failed", map[string]any{"error": err.Error()})
		} else {
			p.log.Debug("poll tick complete", map[string]any{
				"observed":  len(out.Observed),
				"created":   len(out.Created),
				"archived":  len(out.Archived),
				"delivered": out.Delivered,
			})
		}
		reprocess = false

		if once {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
