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
	"fmt"

	"github.com/clinicore/clinicore/internal/apperr"
	"github.com/clinicore/clinicore/internal/identity"
)

// Authorizer evaluates the patient-resource authorization chains. Each
// chain is an ordered list of allow-rules: the first rule that grants
// access wins, and only when all applicable rules fail does the chain
// deny. Failure precedence is fixed: a missing patient is NotFound before
// any role comparison; a patient without a business association is
// Forbidden before the role rules; and once the record is confirmed to
// exist the terminal deny is always Forbidden, never NotFound.
type Authorizer struct {
	patients Repository
}

// NewAuthorizer creates a patient authorizer.
func NewAuthorizer(patients Repository) *Authorizer {
	return &Authorizer{patients: patients}
}

// fetch loads the patient, translating a missing record into the chain's
// NotFound and passing upstream failures through unmodified.
func (a *Authorizer) fetch(ctx context.Context, patientID string) (*Patient, error) {
	p, err := a.patients.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, "patient not found", err)
		}
		return nil, fmt.Errorf("loading patient %s: %w", patientID, err)
	}
	return p, nil
}

// AuthorizeAccess is the general patient-access chain, used by reads and
// most writes. Allow rules, in order: super-admin; the patient accessing
// their own record; business admin; linked nurse; linked technician.
func (a *Authorizer) AuthorizeAccess(ctx context.Context, ident *identity.Identity, patientID string) (*Patient, error) {
	p, err := a.fetch(ctx, patientID)
	if err != nil {
		return nil, err
	}

	// Steps 0-1 short-circuit before any linkage data is consulted:
	// self-access holds even when the care-team links are malformed.
	if ident.IsSuperAdmin() || ident.SubjectID == patientID {
		return p, nil
	}

	businessID := p.BusinessID()
	if businessID == "" {
		return nil, apperr.Forbidden("patient not associated with a business")
	}

	if ident.RoleIn(businessID) == identity.RoleAdmin {
		return p, nil
	}
	if p.EnfermeiroID != "" && ident.SubjectID == p.EnfermeiroID {
		return p, nil
	}
	if p.LinkedTechnician(ident.SubjectID) {
		return p, nil
	}

	return nil, apperr.Forbidden("no access to this patient")
}

// AuthorizeAssessment is the clinical-assessment-restricted chain for
// structured intake and assessment records. Technicians are never granted
// access here, even when they are linked to the patient: their absence
// from the allow set is intentional, not an oversight.
func (a *Authorizer) AuthorizeAssessment(ctx context.Context, ident *identity.Identity, patientID string) (*Patient, error) {
	p, err := a.fetch(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if ident.IsSuperAdmin() || ident.SubjectID == patientID {
		return p, nil
	}

	businessID := p.BusinessID()
	if businessID == "" {
		return nil, apperr.Forbidden("patient not associated with a business")
	}

	if ident.RoleIn(businessID) == identity.RoleAdmin {
		return p, nil
	}
	if p.EnfermeiroID != "" && ident.SubjectID == p.EnfermeiroID {
		return p, nil
	}

	return nil, apperr.Forbidden("no access to this patient's clinical assessments")
}

// AuthorizeCarePlanWrite is the write-restricted care-plan chain. There is
// no self-access shortcut: the patient is not assumed to author their own
// care plan. Only admins and professionals of the patient's business may
// write, besides the super-admin.
func (a *Authorizer) AuthorizeCarePlanWrite(ctx context.Context, ident *identity.Identity, patientID string) (*Patient, error) {
	p, err := a.fetch(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if ident.IsSuperAdmin() {
		return p, nil
	}

	businessID := p.BusinessID()
	if businessID == "" {
		return nil, apperr.Forbidden("patient not associated with a business")
	}

	switch ident.RoleIn(businessID) {
	case identity.RoleAdmin, identity.RoleProfessional:
		return p, nil
	}

	return nil, apperr.Forbidden("only admins and professionals may write care plans")
}
