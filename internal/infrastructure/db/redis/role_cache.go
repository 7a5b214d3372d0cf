package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
	"github.com/comedor/admin-api/internal/pkg/metrics"
)

const defaultRoleTTL = 5 * time.Minute

// RoleCache is a read-through cache in front of a RoleRepository.
// Key format: role:name:<name>
//
// Redis failures never fail a lookup; the call falls through to the store.
type RoleCache struct {
	next   ports.RoleRepository
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewRoleCache(next ports.RoleRepository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *RoleCache {
	if ttl <= 0 {
		ttl = defaultRoleTTL
	}
	return &RoleCache{next: next, client: client, ttl: ttl, log: log}
}

func (c *RoleCache) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	raw, err := c.client.Get(ctx, c.key(name)).Bytes()
	switch {
	case err == nil:
		var role domain.Role
		if jerr := json.Unmarshal(raw, &role); jerr == nil {
			metrics.RoleCacheLookupsTotal.WithLabelValues("hit").Inc()
			return &role, nil
		}
		metrics.RoleCacheLookupsTotal.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.RoleCacheLookupsTotal.WithLabelValues("miss").Inc()
	default:
		metrics.RoleCacheLookupsTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Str("role", name).Msg("role cache unavailable")
	}

	role, err := c.next.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(role); err == nil {
		if err := c.client.Set(ctx, c.key(name), raw, c.ttl).Err(); err != nil {
			c.log.Debug().Err(err).Str("role", name).Msg("role cache write skipped")
		}
	}
	return role, nil
}

func (c *RoleCache) List(ctx context.Context) ([]*domain.Role, error) {
	return c.next.List(ctx)
}

// Delete removes the role and evicts its cache entry.
func (c *RoleCache) Delete(ctx context.Context, name string) error {
	if err := c.next.Delete(ctx, name); err != nil {
		return err
	}
	if err := c.client.Del(ctx, c.key(name)).Err(); err != nil {
		c.log.Warn().Err(err).Str("role", name).Msg("role cache eviction failed")
	}
	return nil
}

func (c *RoleCache) EnsureRoles(ctx context.Context, names []string) error {
	return c.next.EnsureRoles(ctx, names)
}

func (c *RoleCache) key(name string) string {
	return fmt.Sprintf("role:name:%s", name)
}
