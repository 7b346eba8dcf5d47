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

package authz_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/authz"
	"github.com/clinicore/clinicore/internal/identity"
	"github.com/clinicore/clinicore/internal/permission"
)

// countingRoleRepo wraps mockRoleRepo and counts source reads.
type countingRoleRepo struct {
	mockRoleRepo
	reads int
}

func (c *countingRoleRepo) GetByBusinessAndName(ctx context.Context, businessID, name string) (*authz.RoleDefinition, error) {
	c.reads++
	return c.mockRoleRepo.GetByBusinessAndName(ctx, businessID, name)
}

func newCacheFixture(t *testing.T) (*countingRoleRepo, *authz.CachedRoleRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := &countingRoleRepo{mockRoleRepo: mockRoleRepo{defs: map[string]*authz.RoleDefinition{
		"clinic-1/admin": activeRole("clinic-1", identity.RoleAdmin, permission.PermRolesManage),
	}}}
	cached := authz.NewCachedRoleRepository(inner, rdb, 30*time.Second)
	return inner, cached, mr
}

func TestCachedRoleRepository_ReadThrough(t *testing.T) {
	inner, cached, _ := newCacheFixture(t)
	ctx := context.Background()

	first, err := cached.GetByBusinessAndName(ctx, "clinic-1", "admin")
	require.NoError(t, err)
	second, err := cached.GetByBusinessAndName(ctx, "clinic-1", "admin")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.reads, "second read must come from cache")
}

func TestCachedRoleRepository_MissIsNotCached(t *testing.T) {
	inner, cached, _ := newCacheFixture(t)
	ctx := context.Background()

	_, err := cached.GetByBusinessAndName(ctx, "clinic-1", "ghost")
	assert.ErrorIs(t, err, authz.ErrRoleDefinitionNotFound)

	_, err = cached.GetByBusinessAndName(ctx, "clinic-1", "ghost")
	assert.ErrorIs(t, err, authz.ErrRoleDefinitionNotFound)
	assert.Equal(t, 2, inner.reads)
}

// Staleness is bounded by the TTL: after expiry the next read goes back
// to the source of truth.
func TestCachedRoleRepository_TTLExpiry(t *testing.T) {
	inner, cached, mr := newCacheFixture(t)
	ctx := context.Background()

	_, err := cached.GetByBusinessAndName(ctx, "clinic-1", "admin")
	require.NoError(t, err)

	mr.FastForward(time.Minute)

	_, err = cached.GetByBusinessAndName(ctx, "clinic-1", "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.reads)
}

func TestCachedRoleRepository_UpdateInvalidates(t *testing.T) {
	inner, cached, _ := newCacheFixture(t)
	ctx := context.Background()

	_, err := cached.GetByBusinessAndName(ctx, "clinic-1", "admin")
	require.NoError(t, err)

	updated := activeRole("clinic-1", identity.RoleAdmin, permission.PermRolesRead)
	require.NoError(t, cached.Update(ctx, updated))

	inner.defs["clinic-1/admin"] = updated
	def, err := cached.GetByBusinessAndName(ctx, "clinic-1", "admin")
	require.NoError(t, err)
	assert.Equal(t, []string{permission.PermRolesRead}, def.Permissions)
	assert.Equal(t, 2, inner.reads)
}
