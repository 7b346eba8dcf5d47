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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/apperr"
	"github.com/clinicore/clinicore/internal/authz"
	"github.com/clinicore/clinicore/internal/identity"
)

func superAdmin() *identity.Identity {
	return &identity.Identity{
		SubjectID: "root",
		Roles:     map[string]string{identity.PlatformKey: identity.RoleSuperAdmin},
	}
}

func member(businessID, role string) *identity.Identity {
	return &identity.Identity{
		SubjectID: "subj-1",
		Roles:     map[string]string{businessID: role},
	}
}

// TestPurpose: the platform super-admin bypasses every gate regardless of
// other fields.
// Scope: Unit Test
// Security: the override must not depend on business membership.
// Expected: all five gate variants allow the super-admin.
func TestGate_SuperAdminBypassesEverything(t *testing.T) {
	sa := superAdmin()

	_, err := authz.RequireTenantStanding(sa, "clinic-1")
	assert.NoError(t, err)
	_, err = authz.RequireAdmin(sa, "clinic-1")
	assert.NoError(t, err)
	_, err = authz.RequireRoleAny(sa, "clinic-1", identity.RoleDoctor)
	assert.NoError(t, err)
	_, err = authz.RequireRoleAnyTenant(sa, identity.RoleTechnician)
	assert.NoError(t, err)
	_, err = authz.RequireRoleForHeaderTenant(sa, "clinic-1", identity.RoleAdmin)
	assert.NoError(t, err)
}

// Standing is membership, not a role comparison: any role value passes.
func TestRequireTenantStanding(t *testing.T) {
	ident := member("clinic-1", identity.RoleTechnician)

	got, err := authz.RequireTenantStanding(ident, "clinic-1")
	require.NoError(t, err)
	assert.Equal(t, "clinic-1", got)

	_, err = authz.RequireTenantStanding(ident, "clinic-2")
	require.Error(t, err)
	assert.True(t, apperr.IsForbidden(err))
}

func TestRequireAdmin(t *testing.T) {
	_, err := authz.RequireAdmin(member("clinic-1", identity.RoleAdmin), "clinic-1")
	assert.NoError(t, err)

	// "profissional" is not admin; no hierarchy exists between tokens.
	_, err = authz.RequireAdmin(member("clinic-1", identity.RoleProfessional), "clinic-1")
	assert.True(t, apperr.IsForbidden(err))

	_, err = authz.RequireAdmin(member("clinic-2", identity.RoleAdmin), "clinic-1")
	assert.True(t, apperr.IsForbidden(err))
}

func TestRequireRoleAny(t *testing.T) {
	ident := member("clinic-1", identity.RoleDoctor)

	_, err := authz.RequireRoleAny(ident, "clinic-1", identity.RoleAdmin, identity.RoleDoctor)
	assert.NoError(t, err)

	_, err = authz.RequireRoleAny(ident, "clinic-1", identity.RoleAdmin, identity.RoleProfessional)
	assert.True(t, apperr.IsForbidden(err))
}

// TestPurpose: the any-tenant variant checks role values across the whole
// map without pinning down a business.
// Scope: Unit Test
// Expected: a technician anywhere passes the technician check, and the
// business-specific gate still denies where the role does not hold.
func TestRequireRoleAnyTenant(t *testing.T) {
	ident := &identity.Identity{
		SubjectID: "subj-1",
		Roles: map[string]string{
			"clinic-1": identity.RoleTechnician,
			"clinic-2": identity.RoleDoctor,
		},
	}

	_, err := authz.RequireRoleAnyTenant(ident, identity.RoleTechnician)
	assert.NoError(t, err)

	_, err = authz.RequireRoleAnyTenant(ident, identity.RoleAdmin, identity.RoleProfessional)
	assert.True(t, apperr.IsForbidden(err))

	// The coarse pass does not imply business-specific access.
	_, err = authz.RequireRoleAny(ident, "clinic-2", identity.RoleTechnician)
	assert.True(t, apperr.IsForbidden(err))
}

func TestRequireRoleForHeaderTenant_MissingIDIsBadRequest(t *testing.T) {
	ident := member("clinic-1", identity.RoleAdmin)

	// BadRequest is independent of the role check: even a role that would
	// pass gets BadRequest without a business id.
	_, err := authz.RequireRoleForHeaderTenant(ident, "", identity.RoleAdmin)
	assert.True(t, apperr.IsBadRequest(err))

	_, err = authz.RequireRoleForHeaderTenant(ident, "clinic-1", identity.RoleAdmin)
	assert.NoError(t, err)
}
