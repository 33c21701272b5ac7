package usecase

import (
	"context"
	"time"

	"octowatch/internal/modules/notify/dto"
	notifyin "octowatch/internal/modules/notify/port/in"
	"octowatch/internal/modules/notify/service"
)

type Interactor struct {
	svc *service.NotifyService
}

func NewInteractor(svc *service.NotifyService) notifyin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Dispatch(ctx context.Context, input dto.DispatchInput) (dto.DispatchOutput, error) {
	return i.svc.Dispatch(ctx, input)
}

func (i *Interactor) History(ctx context.Context, since time.Time) ([]dto.DeliveryInfo, error) {
	return i.svc.History(ctx, since)
}

func (i *Interactor) Channels(ctx context.Context) ([]dto.ChannelInfo, error) {
	return i.svc.Channels(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}
