package inspection

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/internal/cache"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

const defaultSessionTTL = 24 * time.Hour

// SessionCache keeps in-flight inspection sessions keyed by tenant and id.
// Entries expire after the TTL; the store stays the source of truth.
type SessionCache struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewSessionCache creates a SessionCache. A non-positive ttl uses 24h.
func NewSessionCache(c cache.Cache, ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionCache{cache: c, ttl: ttl}
}

func (sc *SessionCache) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.InspectionSession, bool, error) {
	raw, found, err := sc.cache.Get(ctx, cache.InspectionSessionKey(tenantID, id))
	if err != nil || !found {
		return nil, false, err
	}
	var s models.InspectionSession
	if err := json.Unmarshal(raw, &s); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		_ = sc.Evict(ctx, tenantID, id)
		return nil, false, nil
	}
	return &s, true, nil
}

func (sc *SessionCache) Put(ctx context.Context, s *models.InspectionSession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return sc.cache.Set(ctx, cache.InspectionSessionKey(s.TenantID, s.ID), raw, sc.ttl)
}

func (sc *SessionCache) Evict(ctx context.Context, tenantID, id uuid.UUID) error {
	return sc.cache.Delete(ctx, cache.InspectionSessionKey(tenantID, id))
}
