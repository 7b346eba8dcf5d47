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

// Package authz decides, for every inbound operation, whether the acting
// identity may perform it against a specific business, patient, and
// resource. The gate answers coarse role-token questions; the Evaluator
// answers catalog-backed permission questions. Gates must never be used
// where a granular permission exists for the operation.
package authz

import (
	"github.com/clinicore/clinicore/internal/apperr"
	"github.com/clinicore/clinicore/internal/identity"
)

// RequireTenantStanding passes when the caller has any standing in the
// business, whatever the role value, or is super-admin. It answers "can
// this caller act within this business at all", not "can they perform
// this specific action". The business id may arrive from a header or a
// path segment; both call sites go through this same check.
func RequireTenantStanding(ident *identity.Identity, businessID string) (string, error) {
	if ident.IsSuperAdmin() {
		return businessID, nil
	}
	if ident.HasStanding(businessID) {
		return businessID, nil
	}
	return "", apperr.Forbidden("no access to this business")
}

// RequireAdmin passes only for the business's admin role, or super-admin.
func RequireAdmin(ident *identity.Identity, businessID string) (*identity.Identity, error) {
	if ident.IsSuperAdmin() {
		return ident, nil
	}
	if ident.RoleIn(businessID) == identity.RoleAdmin {
		return ident, nil
	}
	return nil, apperr.Forbidden("administrator role required")
}

// RequireRoleAny passes when the caller's role for the business is one of
// allowed, or the caller is super-admin.
func RequireRoleAny(ident *identity.Identity, businessID string, allowed ...string) (*identity.Identity, error) {
	if ident.IsSuperAdmin() {
		return ident, nil
	}
	role := ident.RoleIn(businessID)
	for _, a := range allowed {
		if role == a {
			return ident, nil
		}
	}
	return nil, apperr.Forbidden("insufficient role for this business")
}

// RequireRoleAnyTenant passes when at least one role across the entire
// role map is in allowed, or the caller is super-admin. It does not pin
// down which business granted the role: the calling operation still has
// to confirm business-specific access.
func RequireRoleAnyTenant(ident *identity.Identity, allowed ...string) (*identity.Identity, error) {
	if ident.IsSuperAdmin() {
		return ident, nil
	}
	for _, role := range ident.Roles {
		for _, a := range allowed {
			if role == a {
				return ident, nil
			}
		}
	}
	return nil, apperr.Forbidden("insufficient role")
}

// RequireRoleForHeaderTenant is the header-driven variant: the business id
// must be supplied before any role comparison happens. A missing id is a
// BadRequest independent of the caller's roles.
func RequireRoleForHeaderTenant(ident *identity.Identity, businessID string, allowed ...string) (*identity.Identity, error) {
	if businessID == "" {
		return nil, apperr.BadRequest("business id is required")
	}
	return RequireRoleAny(ident, businessID, allowed...)
}
