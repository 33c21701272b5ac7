package in

import (
	"context"

	"octowatch/internal/modules/feed/dto"
)

type Usecase interface {
	Observe(ctx context.Context) (dto.Observation, error)
}
