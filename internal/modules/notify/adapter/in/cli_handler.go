package in

import (
	"context"
	"time"

	"octowatch/internal/modules/notify/dto"
	notifyin "octowatch/internal/modules/notify/port/in"
)

type CLIHandler struct {
	usecase notifyin.Usecase
}

func NewCLIHandler(usecase notifyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Dispatch(ctx context.Context, input dto.DispatchInput) (dto.DispatchOutput, error) {
	return h.usecase.Dispatch(ctx, input)
}

func (h CLIHandler) History(ctx context.Context, since time.Time) ([]dto.DeliveryInfo, error) {
	return h.usecase.History(ctx, since)
}

func (h CLIHandler) Channels(ctx context.Context) ([]dto.ChannelInfo, error) {
	return h.usecase.Channels(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}
