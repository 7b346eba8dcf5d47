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
	"errors"
	"fmt"

	"github.com/clinicore/clinicore/internal/identity"
)

// Evaluator is the single source of truth for fine-grained permission
// checks. It resolves the caller's effective permission set through their
// business role definition.
type Evaluator struct {
	roles RoleRepository
}

// NewEvaluator creates a permission evaluator.
func NewEvaluator(roles RoleRepository) *Evaluator {
	return &Evaluator{roles: roles}
}

// HasPermission reports whether the identity holds permissionID in the
// business. Super-admin is true unconditionally. A caller with no role in
// the business, or whose role definition is missing or inactive, has no
// permissions there. Upstream repository failures propagate: they are
// never folded into a deny.
func (e *Evaluator) HasPermission(ctx context.Context, ident *identity.Identity, businessID, permissionID string) (bool, error) {
	if ident.IsSuperAdmin() {
		return true, nil
	}

	role := ident.RoleIn(businessID)
	if role == "" {
		return false, nil
	}

	def, err := e.roles.GetByBusinessAndName(ctx, businessID, role)
	if err != nil {
		if errors.Is(err, ErrRoleDefinitionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("loading role %q for business %s: %w", role, businessID, err)
	}
	if !def.IsActive {
		return false, nil
	}

	return def.Grants(permissionID), nil
}
