// Copyright 2026 The Clinicore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package authz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinicore/clinicore/internal/observability/logger"
)

// CachedRoleRepository is a read-through cache over a RoleRepository.
// Authorization tolerates eventual staleness of role assignments, so a
// revoked permission may remain effective until the TTL lapses. Writes
// invalidate the affected key immediately.
type CachedRoleRepository struct {
	inner RoleRepository
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedRoleRepository wraps inner with a Redis cache.
func NewCachedRoleRepository(inner RoleRepository, rdb *redis.Client, ttl time.Duration) *CachedRoleRepository {
	return &CachedRoleRepository{inner: inner, rdb: rdb, ttl: ttl}
}

func roleKey(businessID, name string) string {
	return fmt.Sprintf("authz:role:%s:%s", businessID, name)
}

// GetByBusinessAndName returns the cached definition when present,
// otherwise reads through and populates the cache. Cache failures degrade
// to the inner repository; they never fail the lookup.
func (c *CachedRoleRepository) GetByBusinessAndName(ctx context.Context, businessID, name string) (*RoleDefinition, error) {
	key := roleKey(businessID, name)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var def RoleDefinition
		if jsonErr := json.Unmarshal(raw, &def); jsonErr == nil {
			return &def, nil
		}
		// Corrupt entry: fall through to the source of truth.
		_ = c.rdb.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		slog.WarnContext(ctx, "role cache read failed",
			logger.BusinessID(businessID),
			logger.Error(err),
		)
	}

	def, err := c.inner.GetByBusinessAndName(ctx, businessID, name)
	if err != nil {
		return nil, err
	}

	if raw, jsonErr := json.Marshal(def); jsonErr == nil {
		if setErr := c.rdb.Set(ctx, key, raw, c.ttl).Err(); setErr != nil {
			slog.WarnContext(ctx, "role cache write failed",
				logger.BusinessID(businessID),
				logger.Error(setErr),
			)
		}
	}

	return def, nil
}

// ListByBusiness is not cached; listings are admin-plane reads.
func (c *CachedRoleRepository) ListByBusiness(ctx context.Context, businessID string) ([]*RoleDefinition, error) {
	return c.inner.ListByBusiness(ctx, businessID)
}

// Create passes through and invalidates the affected key.
func (c *CachedRoleRepository) Create(ctx context.Context, def *RoleDefinition) error {
	if err := c.inner.Create(ctx, def); err != nil {
		return err
	}
	c.invalidate(ctx, def.BusinessID, def.Name)
	return nil
}

// Update passes through and invalidates the affected key.
func (c *CachedRoleRepository) Update(ctx context.Context, def *RoleDefinition) error {
	if err := c.inner.Update(ctx, def); err != nil {
		return err
	}
	c.invalidate(ctx, def.BusinessID, def.Name)
	return nil
}

// Delete passes through and invalidates the affected key.
func (c *CachedRoleRepository) Delete(ctx context.Context, businessID, name string) error {
	if err := c.inner.Delete(ctx, businessID, name); err != nil {
		return err
	}
	c.invalidate(ctx, businessID, name)
	return nil
}

func (c *CachedRoleRepository) invalidate(ctx context.Context, businessID, name string) {
	if err := c.rdb.Del(ctx, roleKey(businessID, name)).Err(); err != nil {
		slog.WarnContext(ctx, "role cache invalidation failed",
			logger.BusinessID(businessID),
			logger.Error(err),
		)
	}
}
