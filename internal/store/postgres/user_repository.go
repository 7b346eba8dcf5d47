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

	"github.com/clinicore/clinicore/internal/identity"
)

// UserRepository implements identity.UserRepository
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetBySubjectID retrieves a user by verified subject id
func (r *UserRepository) GetBySubjectID(ctx context.Context, subjectID string) (*identity.User, error) {
	return r.getOne(ctx, `
		SELECT subject_id, email, name, roles, created_at, updated_at
		FROM users
		WHERE subject_id = $1
	`, subjectID)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.getOne(ctx, `
		SELECT subject_id, email, name, roles, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*identity.User, error) {
	var user identity.User
	var rolesJSON []byte

	err := r.db.pool.QueryRow(ctx, query, arg).Scan(
		&user.SubjectID, &user.Email, &user.Name, &rolesJSON,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := json.Unmarshal(rolesJSON, &user.Roles); err != nil {
		return nil, fmt.Errorf("failed to decode user roles: %w", err)
	}
	if user.Roles == nil {
		user.Roles = map[string]string{}
	}

	return &user, nil
}

// Create creates a new user record
func (r *UserRepository) Create(ctx context.Context, user *identity.User) error {
	rolesJSON, err := json.Marshal(user.Roles)
	if err != nil {
		return fmt.Errorf("failed to encode user roles: %w", err)
	}

	now := time.Now()
	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO users (subject_id, email, name, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.SubjectID, user.Email, user.Name, rolesJSON, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now

	return nil
}

// UpdateRoles replaces a user's role map
func (r *UserRepository) UpdateRoles(ctx context.Context, subjectID string, roles map[string]string) error {
	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("failed to encode user roles: %w", err)
	}

	result, err := r.db.pool.Exec(ctx, `
		UPDATE users SET roles = $2, updated_at = NOW()
		WHERE subject_id = $1
	`, subjectID, rolesJSON)
	if err != nil {
		return fmt.Errorf("failed to update user roles: %w", err)
	}

	if result.RowsAffected() == 0 {
		return identity.ErrUserNotFound
	}

	return nil
}
