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
	"fmt"
	"time"

	"github.com/clinicore/clinicore/internal/audit"
	"github.com/clinicore/clinicore/internal/crypto"
	"github.com/clinicore/clinicore/internal/id"
)

// Service provides patient management. CPF and phone are sealed before
// they reach the repository and opened on the way out; authorization is
// the caller's responsibility (transport guards run the chains first).
type Service struct {
	repo        Repository
	cipher      *crypto.FieldCipher
	auditLogger audit.Logger
}

// NewService creates a patient service.
func NewService(repo Repository, cipher *crypto.FieldCipher, auditLogger audit.Logger) *Service {
	return &Service{repo: repo, cipher: cipher, auditLogger: auditLogger}
}

// Create registers a patient under a business. The role-map entry is the
// business association the chains derive ownership from.
func (s *Service) Create(ctx context.Context, businessID string, p *Patient, createdBy string) (*Patient, error) {
	if businessID == "" {
		return nil, fmt.Errorf("business id is required")
	}
	if p.Name == "" {
		return nil, fmt.Errorf("patient name is required")
	}

	now := time.Now()
	if p.ID == "" {
		p.ID = id.NewUUIDv7()
	}
	p.Roles = map[string]string{businessID: "paciente"}
	p.CreatedAt = now
	p.UpdatedAt = now

	sealed, err := s.sealed(p)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, sealed); err != nil {
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePatientCreated,
		TenantID: businessID,
		ActorID:  createdBy,
		Resource: p.ID,
	})

	return p, nil
}

// Get returns a patient with PII fields opened.
func (s *Service) Get(ctx context.Context, patientID string) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return s.opened(p)
}

// ListByBusiness returns a business's patients with PII fields opened.
func (s *Service) ListByBusiness(ctx context.Context, businessID string) ([]*Patient, error) {
	sealed, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	out := make([]*Patient, 0, len(sealed))
	for _, p := range sealed {
		opened, err := s.opened(p)
		if err != nil {
			return nil, err
		}
		out = append(out, opened)
	}
	return out, nil
}

// UpdateCareTeam replaces the patient's nurse and technician links.
func (s *Service) UpdateCareTeam(ctx context.Context, p *Patient, nurseID string, technicianIDs []string, updatedBy string) (*Patient, error) {
	p.EnfermeiroID = nurseID
	p.TecnicosIDs = technicianIDs
	p.UpdatedAt = time.Now()

	sealed, err := s.sealed(p)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sealed); err != nil {
		return nil, fmt.Errorf("updating patient care team: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeCareTeamUpdated,
		TenantID: p.BusinessID(),
		ActorID:  updatedBy,
		Resource: p.ID,
		Metadata: map[string]any{"enfermeiro_id": nurseID, "tecnicos": len(technicianIDs)},
	})

	return p, nil
}

// UpdateCarePlan replaces the patient's care plan text.
func (s *Service) UpdateCarePlan(ctx context.Context, p *Patient, carePlan, updatedBy string) (*Patient, error) {
	p.CarePlan = carePlan
	p.UpdatedAt = time.Now()

	sealed, err := s.sealed(p)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sealed); err != nil {
		return nil, fmt.Errorf("updating patient care plan: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeCarePlanUpdated,
		TenantID: p.BusinessID(),
		ActorID:  updatedBy,
		Resource: p.ID,
	})

	return p, nil
}

// Delete removes a patient record.
func (s *Service) Delete(ctx context.Context, p *Patient, deletedBy string) error {
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("deleting patient: %w", err)
	}
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePatientDeleted,
		TenantID: p.BusinessID(),
		ActorID:  deletedBy,
		Resource: p.ID,
	})
	return nil
}

func (s *Service) sealed(p *Patient) (*Patient, error) {
	cpf, err := s.cipher.Seal(p.CPF)
	if err != nil {
		return nil, fmt.Errorf("sealing cpf: %w", err)
	}
	phone, err := s.cipher.Seal(p.Phone)
	if err != nil {
		return nil, fmt.Errorf("sealing phone: %w", err)
	}
	sealed := *p
	sealed.CPF = cpf
	sealed.Phone = phone
	return &sealed, nil
}

func (s *Service) opened(p *Patient) (*Patient, error) {
	cpf, err := s.cipher.Open(p.CPF)
	if err != nil {
		return nil, fmt.Errorf("opening cpf: %w", err)
	}
	phone, err := s.cipher.Open(p.Phone)
	if err != nil {
		return nil, fmt.Errorf("opening phone: %w", err)
	}
	opened := *p
	opened.CPF = cpf
	opened.Phone = phone
	return &opened, nil
}
