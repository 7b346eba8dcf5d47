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
	"fmt"

	"github.com/clinicore/clinicore/internal/apperr"
	"github.com/clinicore/clinicore/internal/identity"
)

// Authorizer evaluates the report authorization chain. Allow rules, in
// order: super-admin; business admin or professional; the assigned doctor
// — the "medico" role is author-scoped, not business-wide.
type Authorizer struct {
	reports Repository
	users   identity.UserRepository
}

// NewAuthorizer creates a report authorizer.
func NewAuthorizer(reports Repository, users identity.UserRepository) *Authorizer {
	return &Authorizer{reports: reports, users: users}
}

// AuthorizeReport resolves access to a report. On allow the report's
// created-by display name is populated from the creator's user record — a
// read-enrichment step, not an authorization step.
func (a *Authorizer) AuthorizeReport(ctx context.Context, ident *identity.Identity, reportID string) (*Report, error) {
	r, err := a.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, "report not found", err)
		}
		return nil, fmt.Errorf("loading report %s: %w", reportID, err)
	}

	if !a.allowed(ident, r) {
		return nil, apperr.Forbidden("no access to this report")
	}

	if err := a.enrichCreatedBy(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (a *Authorizer) allowed(ident *identity.Identity, r *Report) bool {
	if ident.IsSuperAdmin() {
		return true
	}
	switch ident.RoleIn(r.BusinessID) {
	case identity.RoleAdmin, identity.RoleProfessional:
		return true
	case identity.RoleDoctor:
		// Author-scoped: the doctor must be the report's assigned author.
		return r.MedicoID != "" && ident.SubjectID == r.MedicoID
	}
	return false
}

// enrichCreatedBy fills the display name of the report's creator. A
// missing creator record leaves the name empty; upstream failures still
// propagate.
func (a *Authorizer) enrichCreatedBy(ctx context.Context, r *Report) error {
	if r.CreatedBy == "" {
		return nil
	}
	creator, err := a.users.GetBySubjectID(ctx, r.CreatedBy)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("resolving report creator %s: %w", r.CreatedBy, err)
	}
	r.CreatedByName = creator.Name
	return nil
}
