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

package patient

import (
	"context"
	"errors"
	"time"

	"github.com/clinicore/clinicore/internal/identity"
)

// Domain errors
var (
	ErrPatientNotFound = errors.New("patient not found")
)

// Patient is a patient record. It reuses the identity document shape:
// the owning business is derived from the record's own role map rather
// than a dedicated column, a relic carried over from the original data
// model. EnfermeiroID and TecnicosIDs are the care-team links the
// authorization chains evaluate.
type Patient struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Roles        map[string]string `json:"roles"`
	EnfermeiroID string            `json:"enfermeiro_id,omitempty"`
	TecnicosIDs  []string          `json:"tecnicos_ids,omitempty"`
	CPF          string            `json:"cpf,omitempty"`
	Phone        string            `json:"phone,omitempty"`
	CarePlan     string            `json:"care_plan,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// BusinessID derives the owning business as the first key, in sorted
// order, of the patient's role map. It returns "" when the patient has no
// business association; callers must treat that as a denial, never as a
// silent allow.
func (p *Patient) BusinessID() string {
	ids := identity.SortedBusinessIDs(p.Roles)
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// LinkedTechnician reports whether subjectID appears in the patient's
// technician list.
func (p *Patient) LinkedTechnician(subjectID string) bool {
	for _, id := range p.TecnicosIDs {
		if id == subjectID {
			return true
		}
	}
	return false
}

// Repository defines patient persistence.
type Repository interface {
	// GetByID retrieves a patient by id.
	GetByID(ctx context.Context, patientID string) (*Patient, error)

	// ListByBusiness retrieves the patients owned by a business.
	ListByBusiness(ctx context.Context, businessID string) ([]*Patient, error)

	// Create creates a patient record.
	Create(ctx context.Context, p *Patient) error

	// Update updates a patient record, including care-team links.
	Update(ctx context.Context, p *Patient) error

	// Delete removes a patient record.
	Delete(ctx context.Context, patientID string) error
}
