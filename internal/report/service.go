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
	"fmt"
	"strings"

	"github.com/clinicore/clinicore/internal/apperr"
	"github.com/clinicore/clinicore/internal/id"
	"github.com/clinicore/clinicore/internal/identity"
)

// Service creates and lists reports. Listing applies the same scoping as
// the single-report chain: admins and professionals see the whole
// business, doctors only their own documents.
type Service struct {
	repo Repository
}

// NewService creates a report service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a report authored within a business. When the creator
// holds the doctor role the report is pinned to them as its author.
func (s *Service) Create(ctx context.Context, ident *identity.Identity, businessID, patientID, title, content string) (*Report, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.BadRequest("report title is required")
	}
	if patientID == "" {
		return nil, apperr.BadRequest("patient id is required")
	}

	r := &Report{
		ID:         id.NewUUIDv7(),
		BusinessID: businessID,
		PatientID:  patientID,
		Title:      title,
		Content:    content,
		CreatedBy:  ident.SubjectID,
	}
	if ident.RoleIn(businessID) == identity.RoleDoctor {
		r.MedicoID = ident.SubjectID
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}
	return r, nil
}

// ListForIdentity returns the business's reports visible to the caller.
// Doctors get the author-scoped subset; everyone else who reached this
// point sees the full list.
func (s *Service) ListForIdentity(ctx context.Context, ident *identity.Identity, businessID string) ([]*Report, error) {
	reports, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	if ident.IsSuperAdmin() || ident.RoleIn(businessID) != identity.RoleDoctor {
		return reports, nil
	}

	scoped := make([]*Report, 0, len(reports))
	for _, r := range reports {
		if r.MedicoID != "" && r.MedicoID == ident.SubjectID {
			scoped = append(scoped, r)
		}
	}
	return scoped, nil
}
