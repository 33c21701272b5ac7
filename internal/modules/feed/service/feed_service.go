package service

import (
	"context"
	"fmt"

	"octowatch/internal/modules/feed/domain"
	feedout "octowatch/internal/modules/feed/port/out"
	"octowatch/internal/platform/logging"
)

type FeedService struct {
	fetcher feedout.Fetcher
	url     string
	log     *logging.Logger
}

func NewFeedService(fetcher feedout.Fetcher, url string, log *logging.Logger) *FeedService {
	return &FeedService{fetcher: fetcher, url: url, log: log}
}

// Observe fetches the announcement page and extracts candidate session
// strings from it.
func (s *FeedService) Observe(ctx context.Context) (domain.Kind, []string, error) {
	content, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return domain.KindNone, nil, fmt.Errorf("fetch announcement page: %w", err)
	}
	kind, sessions := domain.Extract(content)
	s.log.Debug("extracted sessions", map[string]any{
		"bytes":    len(content),
		"kind":     string(kind),
		"sessions": sessions,
	})
	return kind, sessions, nil
}
