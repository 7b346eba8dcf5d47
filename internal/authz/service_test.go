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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/apperr"
	"github.com/clinicore/clinicore/internal/audit"
	"github.com/clinicore/clinicore/internal/authz"
	"github.com/clinicore/clinicore/internal/permission"
)

type adminRoleRepo struct {
	mockRoleRepo
	created []*authz.RoleDefinition
	deleted []string
}

func (r *adminRoleRepo) Create(_ context.Context, def *authz.RoleDefinition) error {
	r.created = append(r.created, def)
	r.defs[def.BusinessID+"/"+def.Name] = def
	return nil
}

func (r *adminRoleRepo) Update(_ context.Context, def *authz.RoleDefinition) error {
	key := def.BusinessID + "/" + def.Name
	if _, ok := r.defs[key]; !ok {
		return authz.ErrRoleDefinitionNotFound
	}
	r.defs[key] = def
	return nil
}

func (r *adminRoleRepo) Delete(_ context.Context, businessID, name string) error {
	key := businessID + "/" + name
	def, ok := r.defs[key]
	if !ok {
		return authz.ErrRoleDefinitionNotFound
	}
	if def.IsSystem {
		return authz.ErrSystemRoleProtected
	}
	delete(r.defs, key)
	r.deleted = append(r.deleted, key)
	return nil
}

func newAdminRepo(defs ...*authz.RoleDefinition) *adminRoleRepo {
	repo := &adminRoleRepo{mockRoleRepo: mockRoleRepo{defs: map[string]*authz.RoleDefinition{}}}
	for _, def := range defs {
		repo.defs[def.BusinessID+"/"+def.Name] = def
	}
	return repo
}

// TestRoleService_CreateValidatesCatalog
//
// Purpose: verify that a definition can only grant permission ids the
// static catalog knows.
//
// Scope: RoleService.Create
//
// Expected: unknown ids are rejected with a bad-request error before
// anything reaches storage; known ids produce a custom, active
// definition with a fresh id.
func TestRoleService_CreateValidatesCatalog(t *testing.T) {
	repo := newAdminRepo()
	svc := authz.NewRoleService(repo, audit.NewSlogLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, "clinic-1", "triagem", []string{"patients.read", "no.such.permission"}, "adm-1")
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
	assert.Empty(t, repo.created)

	def, err := svc.Create(ctx, "clinic-1", "triagem", []string{permission.PermPatientsRead, permission.PermPatientsList}, "adm-1")
	require.NoError(t, err)
	assert.NotEmpty(t, def.ID)
	assert.Equal(t, authz.RoleTypeCustom, def.Type)
	assert.True(t, def.IsActive)
	assert.False(t, def.IsSystem)
}

// TestRoleService_CreateRequiresName
//
// Purpose: verify the role token cannot be blank.
//
// Scope: RoleService.Create
//
// Expected: bad request.
func TestRoleService_CreateRequiresName(t *testing.T) {
	svc := authz.NewRoleService(newAdminRepo(), audit.NewSlogLogger())

	_, err := svc.Create(context.Background(), "clinic-1", "   ", []string{permission.PermPatientsRead}, "adm-1")
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))
}

// TestRoleService_UpdateDeactivates
//
// Purpose: verify an update can switch a definition off without deleting
// it.
//
// Scope: RoleService.Update
//
// Expected: the stored definition carries the new permission list and
// IsActive false.
func TestRoleService_UpdateDeactivates(t *testing.T) {
	existing := activeRole("clinic-1", "triagem", permission.PermPatientsRead)
	repo := newAdminRepo(existing)
	svc := authz.NewRoleService(repo, audit.NewSlogLogger())

	def, err := svc.Update(context.Background(), "clinic-1", "triagem", []string{permission.PermPatientsList}, false, "adm-1")
	require.NoError(t, err)
	assert.False(t, def.IsActive)
	assert.Equal(t, []string{permission.PermPatientsList}, def.Permissions)
}

// TestRoleService_UpdateMissingIsNotFound
//
// Purpose: verify updating an absent definition surfaces as not found.
//
// Scope: RoleService.Update
//
// Expected: a not-found error.
func TestRoleService_UpdateMissingIsNotFound(t *testing.T) {
	svc := authz.NewRoleService(newAdminRepo(), audit.NewSlogLogger())

	_, err := svc.Update(context.Background(), "clinic-1", "ghost", []string{permission.PermPatientsRead}, true, "adm-1")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

// TestRoleService_DeleteProtectsSystemRoles
//
// Purpose: verify seeded system bundles cannot be deleted through the
// admin surface.
//
// Scope: RoleService.Delete
//
// Expected: deleting a system definition is a bad request; deleting a
// custom one succeeds; deleting a missing one is not found.
func TestRoleService_DeleteProtectsSystemRoles(t *testing.T) {
	system := activeRole("clinic-1", "admin", authz.AdminPermissions...)
	custom := activeRole("clinic-1", "triagem", permission.PermPatientsRead)
	custom.IsSystem = false
	custom.Type = authz.RoleTypeCustom
	repo := newAdminRepo(system, custom)
	svc := authz.NewRoleService(repo, audit.NewSlogLogger())
	ctx := context.Background()

	err := svc.Delete(ctx, "clinic-1", "admin", "adm-1")
	require.Error(t, err)
	assert.True(t, apperr.IsBadRequest(err))

	require.NoError(t, svc.Delete(ctx, "clinic-1", "triagem", "adm-1"))

	err = svc.Delete(ctx, "clinic-1", "triagem", "adm-1")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
