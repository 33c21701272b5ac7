package in

import (
	"context"
	"time"

	"octowatch/internal/modules/notify/dto"
)

type Usecase interface {
	// Dispatch fans one session/tag message out to every configured sink.
	// Failures are recorded and logged, never retried.
	Dispatch(ctx context.Context, input dto.DispatchInput) (dto.DispatchOutput, error)
	History(ctx context.Context, since time.Time) ([]dto.DeliveryInfo, error)
	Channels(ctx context.Context) ([]dto.ChannelInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
}
