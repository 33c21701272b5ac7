package in

import (
	"context"

	"octowatch/internal/modules/watch/dto"
	watchin "octowatch/internal/modules/watch/port/in"
)

type CLIHandler struct {
	usecase watchin.Usecase
}

func NewCLIHandler(usecase watchin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Tick(ctx context.Context, input dto.TickInput) (dto.TickOutput, error) {
	return h.usecase.Tick(ctx, input)
}

func (h CLIHandler) Reconcile(ctx context.Context) (dto.ReconcileOutput, error) {
	return h.usecase.Reconcile(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}
