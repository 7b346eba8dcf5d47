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

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clinicore/clinicore/internal/authz"
)

// RoleRepository implements authz.RoleRepository
type RoleRepository struct {
	db *DB
}

// NewRoleRepository creates a new role definition repository
func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// GetByBusinessAndName retrieves one role definition
func (r *RoleRepository) GetByBusinessAndName(ctx context.Context, businessID, name string) (*authz.RoleDefinition, error) {
	var def authz.RoleDefinition
	var permsJSON []byte

	err := r.db.pool.QueryRow(ctx, `
		SELECT id, business_id, name, type, permissions, is_system, is_active, created_at, updated_at
		FROM role_definitions
		WHERE business_id = $1 AND name = $2
	`, businessID, name).Scan(
		&def.ID, &def.BusinessID, &def.Name, &def.Type, &permsJSON,
		&def.IsSystem, &def.IsActive, &def.CreatedAt, &def.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, authz.ErrRoleDefinitionNotFound
		}
		return nil, fmt.Errorf("failed to get role definition: %w", err)
	}

	if err := json.Unmarshal(permsJSON, &def.Permissions); err != nil {
		return nil, fmt.Errorf("failed to decode role permissions: %w", err)
	}

	return &def, nil
}

// ListByBusiness retrieves all role definitions of a business
func (r *RoleRepository) ListByBusiness(ctx context.Context, businessID string) ([]*authz.RoleDefinition, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, business_id, name, type, permissions, is_system, is_active, created_at, updated_at
		FROM role_definitions
		WHERE business_id = $1
		ORDER BY name
	`, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role definitions: %w", err)
	}
	defer rows.Close()

	var defs []*authz.RoleDefinition
	for rows.Next() {
		var def authz.RoleDefinition
		var permsJSON []byte

		if err := rows.Scan(
			&def.ID, &def.BusinessID, &def.Name, &def.Type, &permsJSON,
			&def.IsSystem, &def.IsActive, &def.CreatedAt, &def.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan role definition: %w", err)
		}
		if err := json.Unmarshal(permsJSON, &def.Permissions); err != nil {
			return nil, fmt.Errorf("failed to decode role permissions: %w", err)
		}
		defs = append(defs, &def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read role definitions: %w", err)
	}

	return defs, nil
}

// Create creates a role definition
func (r *RoleRepository) Create(ctx context.Context, def *authz.RoleDefinition) error {
	permsJSON, err := json.Marshal(def.Permissions)
	if err != nil {
		return fmt.Errorf("failed to encode role permissions: %w", err)
	}

	now := time.Now()
	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO role_definitions (id, business_id, name, type, permissions, is_system, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, def.ID, def.BusinessID, def.Name, def.Type, permsJSON, def.IsSystem, def.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert role definition: %w", err)
	}

	def.CreatedAt = now
	def.UpdatedAt = now

	return nil
}

// Update updates a role definition's permissions and active flag
func (r *RoleRepository) Update(ctx context.Context, def *authz.RoleDefinition) error {
	permsJSON, err := json.Marshal(def.Permissions)
	if err != nil {
		return fmt.Errorf("failed to encode role permissions: %w", err)
	}

	result, err := r.db.pool.Exec(ctx, `
		UPDATE role_definitions SET permissions = $3, is_active = $4, updated_at = NOW()
		WHERE business_id = $1 AND name = $2
	`, def.BusinessID, def.Name, permsJSON, def.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update role definition: %w", err)
	}

	if result.RowsAffected() == 0 {
		return authz.ErrRoleDefinitionNotFound
	}

	return nil
}

// Delete removes a custom role definition. System definitions are
// protected at the query level.
func (r *RoleRepository) Delete(ctx context.Context, businessID, name string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM role_definitions
		WHERE business_id = $1 AND name = $2 AND is_system = FALSE
	`, businessID, name)
	if err != nil {
		return fmt.Errorf("failed to delete role definition: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish a protected system role from a missing one.
		var isSystem bool
		err := r.db.pool.QueryRow(ctx, `
			SELECT is_system FROM role_definitions
			WHERE business_id = $1 AND name = $2
		`, businessID, name).Scan(&isSystem)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return authz.ErrRoleDefinitionNotFound
			}
			return fmt.Errorf("failed to check role definition: %w", err)
		}
		if isSystem {
			return authz.ErrSystemRoleProtected
		}
		return authz.ErrRoleDefinitionNotFound
	}

	return nil
}
