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

	"github.com/clinicore/clinicore/internal/report"
)

// ReportRepository implements report.Repository
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// GetByID retrieves a report by id
func (r *ReportRepository) GetByID(ctx context.Context, reportID string) (*report.Report, error) {
	var rep report.Report

	err := r.db.pool.QueryRow(ctx, `
		SELECT id, business_id, patient_id, medico_id, title, content, created_by, created_at, updated_at
		FROM reports
		WHERE id = $1
	`, reportID).Scan(
		&rep.ID, &rep.BusinessID, &rep.PatientID, &rep.MedicoID,
		&rep.Title, &rep.Content, &rep.CreatedBy, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, report.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &rep, nil
}

// ListByBusiness retrieves a business's reports, newest first
func (r *ReportRepository) ListByBusiness(ctx context.Context, businessID string) ([]*report.Report, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, business_id, patient_id, medico_id, title, content, created_by, created_at, updated_at
		FROM reports
		WHERE business_id = $1
		ORDER BY created_at DESC
	`, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*report.Report
	for rows.Next() {
		var rep report.Report
		if err := rows.Scan(
			&rep.ID, &rep.BusinessID, &rep.PatientID, &rep.MedicoID,
			&rep.Title, &rep.Content, &rep.CreatedBy, &rep.CreatedAt, &rep.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, &rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}

	return reports, nil
}

// Create creates a report
func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	now := time.Now()
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO reports (id, business_id, patient_id, medico_id, title, content, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rep.ID, rep.BusinessID, rep.PatientID, rep.MedicoID, rep.Title, rep.Content, rep.CreatedBy, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	rep.CreatedAt = now
	rep.UpdatedAt = now

	return nil
}
