package redisadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"reviewdesk/contexts/programme/ranking-service/ports"

	"github.com/redis/go-redis/v9"
)

const thresholdPrefix = "ranking:threshold:"

// ThresholdStore keeps pending preview tokens in Redis. The key TTL tracks
// the token's own expiry, so an expired preview simply disappears.
type ThresholdStore struct {
	client *redis.Client
	logger *slog.Logger
}

func NewThresholdStore(client *redis.Client, logger *slog.Logger) *ThresholdStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThresholdStore{client: client, logger: logger}
}

func (s *ThresholdStore) GetPendingThreshold(ctx context.Context, actorID, kind string) (ports.PendingThreshold, bool, error) {
	raw, err := s.client.Get(ctx, thresholdKey(actorID, kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.PendingThreshold{}, false, nil
		}
		return ports.PendingThreshold{}, false, s.logError("ranking_threshold_get_failed", err, actorID, kind)
	}
	var token ports.PendingThreshold
	if err := json.Unmarshal(raw, &token); err != nil {
		return ports.PendingThreshold{}, false, s.logError("ranking_threshold_decode_failed", err, actorID, kind)
	}
	return token, true, nil
}

func (s *ThresholdStore) PutPendingThreshold(ctx context.Context, actorID string, token ports.PendingThreshold) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return s.logError("ranking_threshold_encode_failed", err, actorID, token.Kind)
	}
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := s.client.Set(ctx, thresholdKey(actorID, token.Kind), raw, ttl).Err(); err != nil {
		return s.logError("ranking_threshold_put_failed", err, actorID, token.Kind)
	}
	return nil
}

func (s *ThresholdStore) DeletePendingThreshold(ctx context.Context, actorID, kind string) error {
	if err := s.client.Del(ctx, thresholdKey(actorID, kind)).Err(); err != nil {
		return s.logError("ranking_threshold_delete_failed", err, actorID, kind)
	}
	return nil
}

func (s *ThresholdStore) logError(event string, err error, actorID, kind string) error {
	s.logger.Error("threshold store operation failed",
		"event", event,
		"module", "programme/ranking-service",
		"layer", "adapter",
		"actor_id", strings.TrimSpace(actorID),
		"kind", kind,
		"error", err.Error(),
	)
	return err
}

func thresholdKey(actorID, kind string) string {
	return thresholdPrefix + strings.TrimSpace(actorID) + ":" + kind
}

var _ ports.ThresholdStore = (*ThresholdStore)(nil)
