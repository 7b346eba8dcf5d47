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

package report

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrReportNotFound = errors.New("report not found")
)

// Report is a clinical report owned by one business, optionally assigned
// to an authoring doctor. MedicoID scopes doctor access: holding the
// "medico" role alone grants nothing.
type Report struct {
	ID            string    `json:"id"`
	BusinessID    string    `json:"business_id"`
	PatientID     string    `json:"patient_id"`
	MedicoID      string    `json:"medico_id,omitempty"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CreatedBy     string    `json:"created_by"`
	CreatedByName string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Repository defines report persistence.
type Repository interface {
	// GetByID retrieves a report by id.
	GetByID(ctx context.Context, reportID string) (*Report, error)

	// ListByBusiness retrieves a business's reports.
	ListByBusiness(ctx context.Context, businessID string) ([]*Report, error)

	// Create creates a report.
	Create(ctx context.Context, r *Report) error
}
