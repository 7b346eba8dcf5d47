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

package patient_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/apperr"
	"github.com/clinicore/clinicore/internal/audit"
	"github.com/clinicore/clinicore/internal/crypto"
	"github.com/clinicore/clinicore/internal/identity"
	"github.com/clinicore/clinicore/internal/patient"
)

// memRepo is a functional in-memory patient.Repository, unlike the
// read-only mockPatientRepo the chain tests use.
type memRepo struct {
	patients map[string]*patient.Patient
}

func newMemRepo() *memRepo {
	return &memRepo{patients: map[string]*patient.Patient{}}
}

func (m *memRepo) GetByID(_ context.Context, id string) (*patient.Patient, error) {
	if p, ok := m.patients[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, patient.ErrPatientNotFound
}

func (m *memRepo) ListByBusiness(_ context.Context, businessID string) ([]*patient.Patient, error) {
	var out []*patient.Patient
	for _, p := range m.patients {
		if _, ok := p.Roles[businessID]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, p *patient.Patient) error {
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *memRepo) Update(_ context.Context, p *patient.Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return patient.ErrPatientNotFound
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.patients[id]; !ok {
		return patient.ErrPatientNotFound
	}
	delete(m.patients, id)
	return nil
}

func newService(t *testing.T, repo patient.Repository) *patient.Service {
	t.Helper()
	cipher, err := crypto.NewFieldCipher(bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, err)
	return patient.NewService(repo, cipher, audit.NewSlogLogger())
}

// TestPurpose: the three chains keep their distinct allow sets against
// state the service produced, not hand-built fixtures.
// Scope: Unit Test
// Security: cross-chain access matrix over service-created patients.
// Expected: the linked technician passes the general chain and fails the
// assessment chain; the patient themself fails the care-plan chain; a
// patient stripped of any business association yields Forbidden, never
// NotFound.
func TestService_CrossChainMatrix(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := newService(t, repo)
	a := patient.NewAuthorizer(repo)

	created, err := svc.Create(ctx, "clinic-1", &patient.Patient{Name: "João", CPF: "39053344705"}, "adm")
	require.NoError(t, err)
	_, err = svc.UpdateCareTeam(ctx, created, "caller-a", []string{"caller-b"}, "adm")
	require.NoError(t, err)

	tech := ident("caller-b", map[string]string{"clinic-1": identity.RoleTechnician})
	self := ident(created.ID, map[string]string{"clinic-1": "paciente"})

	_, err = a.AuthorizeAccess(ctx, tech, created.ID)
	assert.NoError(t, err, "general chain allows the linked technician")

	_, err = a.AuthorizeAssessment(ctx, tech, created.ID)
	assert.True(t, apperr.IsForbidden(err), "assessment chain denies the same technician")

	_, err = a.AuthorizeCarePlanWrite(ctx, self, created.ID)
	assert.True(t, apperr.IsForbidden(err), "care-plan chain has no self-access")

	// Strip the business association; existence must still win over the
	// role rules.
	orphan := repo.patients[created.ID]
	orphan.Roles = map[string]string{}
	_, err = a.AuthorizeAccess(ctx, tech, created.ID)
	assert.True(t, apperr.IsForbidden(err))
	assert.False(t, apperr.IsNotFound(err))
}

// TestPurpose: service writes seal CPF and phone before the repository
// sees them, and reads open them again.
// Scope: Unit Test
// Security: PII never rests in the clear.
// Expected: the stored row differs from the plaintext; Get round-trips.
func TestService_SealsPIIAtRest(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := newService(t, repo)

	created, err := svc.Create(ctx, "clinic-1", &patient.Patient{
		Name:  "Paula",
		CPF:   "39053344705",
		Phone: "+55 11 91234-5678",
	}, "adm")
	require.NoError(t, err)
	assert.Equal(t, "39053344705", created.CPF, "the caller gets plaintext back")

	stored := repo.patients[created.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "39053344705", stored.CPF)
	assert.NotEqual(t, "+55 11 91234-5678", stored.Phone)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "39053344705", got.CPF)
	assert.Equal(t, "+55 11 91234-5678", got.Phone)
}
