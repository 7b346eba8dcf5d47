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
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clinicore/clinicore/internal/identity"
)

// ProfessionalRepository implements identity.ProfessionalRepository
type ProfessionalRepository struct {
	db *DB
}

// NewProfessionalRepository creates a new professional repository
func NewProfessionalRepository(db *DB) *ProfessionalRepository {
	return &ProfessionalRepository{db: db}
}

// GetByBusinessAndSubject retrieves the professional record for a subject
// within one business
func (r *ProfessionalRepository) GetByBusinessAndSubject(ctx context.Context, businessID, subjectID string) (*identity.Professional, error) {
	var p identity.Professional

	err := r.db.pool.QueryRow(ctx, `
		SELECT id, business_id, subject_id, name, specialty, created_at
		FROM professionals
		WHERE business_id = $1 AND subject_id = $2
	`, businessID, subjectID).Scan(
		&p.ID, &p.BusinessID, &p.SubjectID, &p.Name, &p.Specialty, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrProfessionalNotFound
		}
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}

	return &p, nil
}

// Create creates a professional record
func (r *ProfessionalRepository) Create(ctx context.Context, p *identity.Professional) error {
	now := time.Now()
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO professionals (id, business_id, subject_id, name, specialty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.BusinessID, p.SubjectID, p.Name, p.Specialty, now)
	if err != nil {
		return fmt.Errorf("failed to insert professional: %w", err)
	}

	p.CreatedAt = now

	return nil
}
