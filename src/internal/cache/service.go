package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/models"
	"campus-attendance-svc/src/internal/session"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Service caches open attendance sessions by token so the check-in hot path
// avoids a database round trip while a class is scanning. Entries expire with
// the session window; readers must still apply the expiry check themselves.
type Service interface {
	GetSession(ctx context.Context, sessionID string) (*session.Session, error)
	CacheSession(ctx context.Context, s *session.Session) error
	InvalidateSession(ctx context.Context, sessionID string) error
}

type cacheService struct {
	client *redis.Client
	cfg    *config.CacheConfig
}

func NewCacheService(client *redis.Client, cfg *config.Configuration) Service {
	return &cacheService{
		client: client,
		cfg:    &cfg.Cache,
	}
}

func (c *cacheService) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", c.cfg.SessionKeyPrefix, sessionID)
}

func (c *cacheService) GetSession(ctx context.Context, sessionID string) (*session.Session, error) {
	key := c.key(sessionID)

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logrus.WithField("key", key).Debug("Session not found in cache")
			return nil, nil // Not an error, just not found
		}
		logrus.WithError(err).WithField("key", key).Error("Failed to get session from cache")
		return nil, models.ErrRedisGet
	}

	var s session.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to unmarshal session from cache")
		return nil, models.ErrRedisGet
	}

	logrus.WithField("key", key).Debug("Session retrieved from cache")
	return &s, nil
}

func (c *cacheService) CacheSession(ctx context.Context, s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		logrus.WithError(err).WithField("session_id", s.SessionID).Error("Failed to marshal session for cache")
		return models.ErrRedisSet
	}

	expiration := time.Until(s.ExpiresAt)
	if expiration <= 0 {
		logrus.WithField("session_id", s.SessionID).Warn("Session already expired, not caching")
		return nil
	}

	if err := c.client.Set(ctx, c.key(s.SessionID), data, expiration).Err(); err != nil {
		logrus.WithError(err).WithField("session_id", s.SessionID).Error("Failed to cache session")
		return models.ErrRedisSet
	}

	logrus.WithField("session_id", s.SessionID).Debug("Session cached")
	return nil
}

func (c *cacheService) InvalidateSession(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, c.key(sessionID)).Err(); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to invalidate cached session")
		return models.ErrRedisDelete
	}
	return nil
}
