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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/authz"
	"github.com/clinicore/clinicore/internal/identity"
	"github.com/clinicore/clinicore/internal/permission"
)

// mockRoleRepo implements authz.RoleRepository for testing
type mockRoleRepo struct {
	defs map[string]*authz.RoleDefinition // keyed by businessID + "/" + name
	err  error
}

func (m *mockRoleRepo) GetByBusinessAndName(ctx context.Context, businessID, name string) (*authz.RoleDefinition, error) {
	if m.err != nil {
		return nil, m.err
	}
	if d, ok := m.defs[businessID+"/"+name]; ok {
		return d, nil
	}
	return nil, authz.ErrRoleDefinitionNotFound
}

func (m *mockRoleRepo) ListByBusiness(ctx context.Context, businessID string) ([]*authz.RoleDefinition, error) {
	return nil, nil
}
func (m *mockRoleRepo) Create(ctx context.Context, def *authz.RoleDefinition) error { return nil }
func (m *mockRoleRepo) Update(ctx context.Context, def *authz.RoleDefinition) error { return nil }
func (m *mockRoleRepo) Delete(ctx context.Context, businessID, name string) error   { return nil }

func activeRole(businessID, name string, perms ...string) *authz.RoleDefinition {
	return &authz.RoleDefinition{
		ID:          "role-" + name,
		BusinessID:  businessID,
		Name:        name,
		Type:        authz.RoleTypeSystem,
		Permissions: perms,
		IsSystem:    true,
		IsActive:    true,
	}
}

// TestPurpose: HasPermission is true iff the caller's role definition
// lists the permission id (or the caller is super-admin).
// Scope: Unit Test
// Security: this evaluator is the single source of truth for granular
// checks; role-name gates must not stand in for it.
// Expected: listed id true, unlisted id false, super-admin always true.
func TestEvaluator_HasPermission(t *testing.T) {
	repo := &mockRoleRepo{defs: map[string]*authz.RoleDefinition{
		"clinic-1/tecnico": activeRole("clinic-1", identity.RoleTechnician,
			permission.PermPatientsRead, permission.PermPatientsList),
	}}
	e := authz.NewEvaluator(repo)
	ctx := context.Background()

	tech := member("clinic-1", identity.RoleTechnician)

	ok, err := e.HasPermission(ctx, tech, "clinic-1", permission.PermPatientsRead)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.HasPermission(ctx, tech, "clinic-1", permission.PermPatientsDelete)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.HasPermission(ctx, superAdmin(), "clinic-1", permission.PermPatientsDelete)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluator_NoRoleInBusiness(t *testing.T) {
	e := authz.NewEvaluator(&mockRoleRepo{defs: map[string]*authz.RoleDefinition{}})

	ok, err := e.HasPermission(context.Background(), member("clinic-2", identity.RoleAdmin), "clinic-1", permission.PermPatientsRead)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluator_MissingOrInactiveDefinitionDenies(t *testing.T) {
	inactive := activeRole("clinic-1", identity.RoleDoctor, permission.PermReportsRead)
	inactive.IsActive = false

	repo := &mockRoleRepo{defs: map[string]*authz.RoleDefinition{
		"clinic-1/medico": inactive,
	}}
	e := authz.NewEvaluator(repo)
	ctx := context.Background()

	// Role token present but no definition stored for it.
	ok, err := e.HasPermission(ctx, member("clinic-1", "recepcao"), "clinic-1", permission.PermPatientsRead)
	require.NoError(t, err)
	assert.False(t, ok)

	// Definition exists but is inactive.
	ok, err = e.HasPermission(ctx, member("clinic-1", identity.RoleDoctor), "clinic-1", permission.PermReportsRead)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestPurpose: repository outages propagate; they are never converted
// into a deny.
// Scope: Unit Test
// Expected: the upstream error surfaces with allow=false.
func TestEvaluator_UpstreamErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	e := authz.NewEvaluator(&mockRoleRepo{err: boom})

	ok, err := e.HasPermission(context.Background(), member("clinic-1", identity.RoleAdmin), "clinic-1", permission.PermPatientsRead)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, boom))
}
