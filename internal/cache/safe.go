package cache

import (
	"context"
	"time"

	"github.com/fitnessmcp/toolserver/internal/telemetry"
)

// Safe wraps a Cache so that every method swallows backend errors after
// logging them. Handlers consult Safe directly so a cache outage degrades to
// "always miss" rather than failing the tool call, per spec §4.1.
type Safe struct {
	backend Cache
	logger  telemetry.Logger
}

// NewSafe wraps backend. A nil logger falls back to a no-op logger.
func NewSafe(backend Cache, logger telemetry.Logger) *Safe {
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	return &Safe{backend: backend, logger: logger}
}

// Get returns (value, true) on a hit, (nil, false) on a miss or backend error.
func (s *Safe) Get(ctx context.Context, key Key) ([]byte, bool) {
	val, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "cache get failed, treating as miss", "key", key.String(), "err", err)
		return nil, false
	}
	return val, ok
}

// Set stores value, logging (but not returning) any backend error.
func (s *Safe) Set(ctx context.Context, key Key, value []byte, ttl time.Duration) {
	if err := s.backend.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn(ctx, "cache set failed", "key", key.String(), "err", err)
	}
}

// Invalidate removes a single entry, logging any backend error.
func (s *Safe) Invalidate(ctx context.Context, key Key) {
	if err := s.backend.Invalidate(ctx, key); err != nil {
		s.logger.Warn(ctx, "cache invalidate failed", "key", key.String(), "err", err)
	}
}

// InvalidateUser removes every entry for (tenantID, userID), logging any
// backend error.
func (s *Safe) InvalidateUser(ctx context.Context, tenantID, userID string) {
	if err := s.backend.InvalidateUser(ctx, tenantID, userID); err != nil {
		s.logger.Warn(ctx, "cache invalidate user failed", "tenant_id", tenantID, "user_id", userID, "err", err)
	}
}
