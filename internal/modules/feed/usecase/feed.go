package usecase

import (
	"context"

	"octowatch/internal/modules/feed/dto"
	feedin "octowatch/internal/modules/feed/port/in"
	"octowatch/internal/modules/feed/service"
)

type Interactor struct {
	svc *service.FeedService
}

func NewInteractor(svc *service.FeedService) feedin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Observe(ctx context.Context) (dto.Observation, error) {
	kind, sessions, err := i.svc.Observe(ctx)
	if err != nil {
		return dto.Observation{}, err
	}
	return dto.Observation{Kind: string(kind), Sessions: sessions}, nil
}
