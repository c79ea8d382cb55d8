package redisadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"reviewdesk/contexts/programme/review-service/ports"

	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix = "review:session:"

	// Sessions outlive the rebuild interval by a wide margin so a reviewer
	// returning the next day still replays their cached order.
	sessionTTL = 14 * 24 * time.Hour
)

// SessionStore keeps per-reviewer queue sessions as JSON blobs in Redis.
type SessionStore struct {
	client *redis.Client
	logger *slog.Logger
}

func NewSessionStore(client *redis.Client, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{client: client, logger: logger}
}

func (s *SessionStore) GetReviewSession(ctx context.Context, reviewerID string) (ports.ReviewSession, bool, error) {
	raw, err := s.client.Get(ctx, sessionKey(reviewerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.ReviewSession{}, false, nil
		}
		return ports.ReviewSession{}, false, s.logError("review_session_get_failed", err, reviewerID)
	}
	var session ports.ReviewSession
	if err := json.Unmarshal(raw, &session); err != nil {
		// A corrupt blob is treated as no session so the queue rebuilds.
		s.logger.Warn("discarding unreadable review session",
			"event", "review_session_corrupt",
			"module", "programme/review-service",
			"layer", "adapter",
			"reviewer_id", strings.TrimSpace(reviewerID),
			"error", err.Error(),
		)
		return ports.ReviewSession{}, false, nil
	}
	return session, true, nil
}

func (s *SessionStore) PutReviewSession(ctx context.Context, reviewerID string, session ports.ReviewSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return s.logError("review_session_encode_failed", err, reviewerID)
	}
	if err := s.client.Set(ctx, sessionKey(reviewerID), raw, sessionTTL).Err(); err != nil {
		return s.logError("review_session_put_failed", err, reviewerID)
	}
	return nil
}

func (s *SessionStore) DeleteReviewSession(ctx context.Context, reviewerID string) error {
	if err := s.client.Del(ctx, sessionKey(reviewerID)).Err(); err != nil {
		return s.logError("review_session_delete_failed", err, reviewerID)
	}
	return nil
}

func (s *SessionStore) logError(event string, err error, reviewerID string) error {
	s.logger.Error("review session store operation failed",
		"event", event,
		"module", "programme/review-service",
		"layer", "adapter",
		"reviewer_id", strings.TrimSpace(reviewerID),
		"error", err.Error(),
	)
	return err
}

func sessionKey(reviewerID string) string {
	return sessionPrefix + strings.TrimSpace(reviewerID)
}

var _ ports.SessionStore = (*SessionStore)(nil)
