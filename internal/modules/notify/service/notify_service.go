package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"octowatch/internal/modules/notify/domain"
	"octowatch/internal/modules/notify/dto"
	notifyout "octowatch/internal/modules/notify/port/out"
	"octowatch/internal/platform/clock"
	apperrors "octowatch/internal/platform/errors"
	"octowatch/internal/platform/id"
	"octowatch/internal/platform/logging"
)

type NotifyService struct {
	webhook   notifyout.Sink
	manifests notifyout.ManifestStore
	host      notifyout.Host
	history   notifyout.HistoryStore
	clock     clock.Clock
	ids       id.Generator
	log       *logging.Logger
	verifyURL string
}

func NewNotifyService(
	webhook notifyout.Sink,
	manifests notifyout.ManifestStore,
	host notifyout.Host,
	history notifyout.HistoryStore,
	clk clock.Clock,
	ids id.Generator,
	log *logging.Logger,
	verifyURL string,
) *NotifyService {
	return &NotifyService{
		webhook:   webhook,
		manifests: manifests,
		host:      host,
		history:   history,
		clock:     clk,
		ids:       ids,
		log:       log,
		verifyURL: verifyURL,
	}
}

// Dispatch sends one message per configured sink and records every
// attempt. A sink failure never blocks the remaining sinks and is
// never retried; the lifecycle flags advance regardless.
func (s *NotifyService) Dispatch(ctx context.Context, input dto.DispatchInput) (dto.DispatchOutput, error) {
	tag := domain.Tag(input.Tag)
	if err := tag.Validate(); err != nil {
		return dto.DispatchOutput{}, err
	}
	message := domain.Compose(tag, input.Session, s.verifyURL)

	out := dto.DispatchOutput{}
	if s.webhook != nil {
		out.Attempted++
		if s.attempt(ctx, input.Session, tag, message, s.webhook.Name(), func() error {
			return s.webhook.Send(ctx, message)
		}) {
			out.Delivered++
		}
	}

	manifests, err := s.enabledManifests(ctx)
	if err != nil {
		s.log.Warn("channel manifests unavailable", map[string]any{"error": err.Error()})
	}
	for _, manifest := range manifests {
		out.Attempted++
		m := manifest
		if s.attempt(ctx, input.Session, tag, message, m.Name, func() error {
			if err := checksumMatches(m.Binary, m.SHA256); err != nil {
				return err
			}
			return s.host.Deliver(ctx, m, message, tag)
		}) {
			out.Delivered++
		}
	}

	if out.Attempted == 0 {
		return out, fmt.Errorf("%w: set OCTOWATCH_WEBHOOK_URL or add a channel", apperrors.ErrNoWebhook)
	}
	return out, nil
}

func (s *NotifyService) attempt(ctx context.Context, session string, tag domain.Tag, message, sink string, send func() error) bool {
	sendErr := send()
	delivery := domain.Delivery{
		ID:        s.ids.New(),
		Session:   session,
		Tag:       tag,
		Sink:      sink,
		Message:   message,
		SentAt:    s.clock.Now(),
		Delivered: sendErr == nil,
	}
	if sendErr != nil {
		delivery.Error = sendErr.Error()
		s.log.Warn("notification failed", map[string]any{
			"session": session,
			"tag":     string(tag),
			"sink":    sink,
			"error":   sendErr.Error(),
		})
	} else {
		s.log.Info("notification sent", map[string]any{
			"session": session,
			"tag":     string(tag),
			"sink":    sink,
		})
	}
	if err := s.history.Record(ctx, delivery); err != nil {
		s.log.Error("record notification history", map[string]any{"error": err.Error()})
	}
	return sendErr == nil
}

func (s *NotifyService) History(ctx context.Context, since time.Time) ([]dto.DeliveryInfo, error) {
	deliveries, err := s.history.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeliveryInfo, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, dto.DeliveryInfo{
			ID:        d.ID,
			Session:   d.Session,
			Tag:       string(d.Tag),
			Sink:      d.Sink,
			Message:   d.Message,
			SentAt:    d.SentAt,
			Delivered: d.Delivered,
			Error:     d.Error,
		})
	}
	return out, nil
}

func (s *NotifyService) Channels(ctx context.Context) ([]dto.ChannelInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChannelInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.ChannelInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary})
	}
	return out, nil
}

func (s *NotifyService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.manifests.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.HandshakeOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *NotifyService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.manifests.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate channel name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *NotifyService) enabledManifests(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	enabled := make([]domain.Manifest, 0, len(manifests))
	for _, m := range manifests {
		if m.Enabled {
			enabled = append(enabled, m)
		}
	}
	return enabled, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read channel binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
