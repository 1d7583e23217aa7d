package cache

import (
	"fmt"

	"github.com/fitnessmcp/toolserver/internal/universal"
)

// Resource is a tagged variant describing which provider-backed resource a
// CacheKey fingerprints. Equality over Resource (together with the rest of
// Key) determines cache hits.
type Resource struct {
	Kind string // "athlete_profile" | "activity_list" | "stats" | ...
	// Page and PerPage apply to Kind == "activity_list".
	Page    int
	PerPage int
	// AthleteID applies to Kind == "stats"; for Kind == "activity" it holds
	// the activity id.
	AthleteID string
}

// Key is the structured fingerprint for a cached provider response. Two
// lookups with the same Key within the TTL window return the same bytes.
// The key never embeds a bare token or secret.
type Key struct {
	TenantID string
	UserID   string
	Provider string
	Resource Resource
}

// NewKey builds a Key, normalizing an empty tenant to the nil-tenant sentinel.
func NewKey(tenantID, userID, provider string, resource Resource) Key {
	return Key{
		TenantID: universal.EffectiveTenant(tenantID),
		UserID:   userID,
		Provider: provider,
		Resource: resource,
	}
}

// String renders a stable, collision-resistant string form used as the map
// key for in-memory backends and the key prefix for Redis.
func (k Key) String() string {
	return fmt.Sprintf("fitness:%s:%s:%s:%s:%d:%d:%s",
		k.TenantID, k.UserID, k.Provider, k.Resource.Kind, k.Resource.Page, k.Resource.PerPage, k.Resource.AthleteID)
}

// Resource kinds. The TTL for each is chosen by TTL in cache.go.
const (
	ResourceAthleteProfile = "athlete_profile"
	ResourceActivityList   = "activity_list"
	ResourceStats          = "stats"
	ResourceActivity       = "activity"
)
