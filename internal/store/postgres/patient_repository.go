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

	"github.com/clinicore/clinicore/internal/patient"
)

// PatientRepository implements patient.Repository
type PatientRepository struct {
	db *DB
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *DB) *PatientRepository {
	return &PatientRepository{db: db}
}

// GetByID retrieves a patient by id
func (r *PatientRepository) GetByID(ctx context.Context, patientID string) (*patient.Patient, error) {
	var p patient.Patient
	var rolesJSON []byte

	err := r.db.pool.QueryRow(ctx, `
		SELECT id, name, email, roles, enfermeiro_id, tecnicos_ids, cpf, phone, care_plan, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, patientID).Scan(
		&p.ID, &p.Name, &p.Email, &rolesJSON, &p.EnfermeiroID, &p.TecnicosIDs,
		&p.CPF, &p.Phone, &p.CarePlan, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if err := json.Unmarshal(rolesJSON, &p.Roles); err != nil {
		return nil, fmt.Errorf("failed to decode patient roles: %w", err)
	}
	if p.Roles == nil {
		p.Roles = map[string]string{}
	}

	return &p, nil
}

// ListByBusiness retrieves the patients whose role map names the business
func (r *PatientRepository) ListByBusiness(ctx context.Context, businessID string) ([]*patient.Patient, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, email, roles, enfermeiro_id, tecnicos_ids, cpf, phone, care_plan, created_at, updated_at
		FROM patients
		WHERE roles ? $1
		ORDER BY name
	`, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var patients []*patient.Patient
	for rows.Next() {
		var p patient.Patient
		var rolesJSON []byte

		if err := rows.Scan(
			&p.ID, &p.Name, &p.Email, &rolesJSON, &p.EnfermeiroID, &p.TecnicosIDs,
			&p.CPF, &p.Phone, &p.CarePlan, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		if err := json.Unmarshal(rolesJSON, &p.Roles); err != nil {
			return nil, fmt.Errorf("failed to decode patient roles: %w", err)
		}
		patients = append(patients, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read patients: %w", err)
	}

	return patients, nil
}

// Create creates a patient record
func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	rolesJSON, err := json.Marshal(p.Roles)
	if err != nil {
		return fmt.Errorf("failed to encode patient roles: %w", err)
	}

	now := time.Now()
	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO patients (id, name, email, roles, enfermeiro_id, tecnicos_ids, cpf, phone, care_plan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.ID, p.Name, p.Email, rolesJSON, p.EnfermeiroID, p.TecnicosIDs, p.CPF, p.Phone, p.CarePlan, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert patient: %w", err)
	}

	p.CreatedAt = now
	p.UpdatedAt = now

	return nil
}

// Update updates a patient record, including care-team links
func (r *PatientRepository) Update(ctx context.Context, p *patient.Patient) error {
	rolesJSON, err := json.Marshal(p.Roles)
	if err != nil {
		return fmt.Errorf("failed to encode patient roles: %w", err)
	}

	result, err := r.db.pool.Exec(ctx, `
		UPDATE patients SET
			name = $2,
			email = $3,
			roles = $4,
			enfermeiro_id = $5,
			tecnicos_ids = $6,
			cpf = $7,
			phone = $8,
			care_plan = $9,
			updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Name, p.Email, rolesJSON, p.EnfermeiroID, p.TecnicosIDs, p.CPF, p.Phone, p.CarePlan)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	if result.RowsAffected() == 0 {
		return patient.ErrPatientNotFound
	}

	return nil
}

// Delete removes a patient record
func (r *PatientRepository) Delete(ctx context.Context, patientID string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM patients WHERE id = $1
	`, patientID)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	if result.RowsAffected() == 0 {
		return patient.ErrPatientNotFound
	}

	return nil
}
