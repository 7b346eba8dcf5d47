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

package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/apperr"
	"github.com/clinicore/clinicore/internal/identity"
)

// mockUserRepo implements identity.UserRepository for testing
type mockUserRepo struct {
	users map[string]*identity.User
	err   error
}

func (m *mockUserRepo) GetBySubjectID(ctx context.Context, subjectID string) (*identity.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[subjectID]; ok {
		return u, nil
	}
	return nil, identity.ErrUserNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

// mockProfessionalRepo implements identity.ProfessionalRepository
type mockProfessionalRepo struct {
	// keyed by businessID + "/" + subjectID
	records map[string]*identity.Professional
	err     error
	queried []string
}

func (m *mockProfessionalRepo) GetByBusinessAndSubject(ctx context.Context, businessID, subjectID string) (*identity.Professional, error) {
	m.queried = append(m.queried, businessID)
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.records[businessID+"/"+subjectID]; ok {
		return p, nil
	}
	return nil, identity.ErrProfessionalNotFound
}

// mockVerifier implements authn.TokenVerifier
type mockVerifier struct {
	subject string
	err     error
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.subject, nil
}

func newResolver(users *mockUserRepo, pros *mockProfessionalRepo, v *mockVerifier) *identity.Resolver {
	if v == nil {
		v = &mockVerifier{}
	}
	return identity.NewResolver(users, pros, v)
}

func TestResolve_UnknownSubjectIsNotFound(t *testing.T) {
	r := newResolver(&mockUserRepo{users: map[string]*identity.User{}}, &mockProfessionalRepo{}, nil)

	_, err := r.Resolve(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, errors.Is(err, identity.ErrUserNotFound))
}

// TestPurpose: the professional link comes from the first business, in
// sorted order, whose role is admin or profissional; the scan stops there.
// Scope: Unit Test
// Security: linkage ambiguity across multiple memberships is documented
// behavior; the scan order must at least be deterministic.
// Expected: business "a-clinic" wins over "b-clinic" and "b-clinic" is
// never queried.
func TestResolve_LinkedProfessionalFirstMatchWins(t *testing.T) {
	users := &mockUserRepo{users: map[string]*identity.User{
		"subj-1": {
			SubjectID: "subj-1",
			Roles: map[string]string{
				"b-clinic": identity.RoleProfessional,
				"a-clinic": identity.RoleAdmin,
			},
		},
	}}
	pros := &mockProfessionalRepo{records: map[string]*identity.Professional{
		"a-clinic/subj-1": {ID: "pro-a", BusinessID: "a-clinic", SubjectID: "subj-1"},
		"b-clinic/subj-1": {ID: "pro-b", BusinessID: "b-clinic", SubjectID: "subj-1"},
	}}
	r := newResolver(users, pros, nil)

	ident, err := r.Resolve(context.Background(), "subj-1")
	require.NoError(t, err)
	require.NotNil(t, ident.LinkedProfessionalID)
	assert.Equal(t, "pro-a", *ident.LinkedProfessionalID)
	assert.Equal(t, []string{"a-clinic"}, pros.queried)
}

func TestResolve_SkipsNonProfessionalRolesAndMisses(t *testing.T) {
	users := &mockUserRepo{users: map[string]*identity.User{
		"subj-1": {
			SubjectID: "subj-1",
			Roles: map[string]string{
				"a-clinic": identity.RoleTechnician,
				"b-clinic": identity.RoleAdmin,
				"c-clinic": identity.RoleProfessional,
			},
		},
	}}
	// No record in b-clinic: the scan continues to c-clinic.
	pros := &mockProfessionalRepo{records: map[string]*identity.Professional{
		"c-clinic/subj-1": {ID: "pro-c", BusinessID: "c-clinic", SubjectID: "subj-1"},
	}}
	r := newResolver(users, pros, nil)

	ident, err := r.Resolve(context.Background(), "subj-1")
	require.NoError(t, err)
	require.NotNil(t, ident.LinkedProfessionalID)
	assert.Equal(t, "pro-c", *ident.LinkedProfessionalID)
	assert.Equal(t, []string{"b-clinic", "c-clinic"}, pros.queried)
}

func TestResolve_NoRolesNoLink(t *testing.T) {
	users := &mockUserRepo{users: map[string]*identity.User{
		"subj-1": {SubjectID: "subj-1", Roles: nil},
	}}
	pros := &mockProfessionalRepo{}
	r := newResolver(users, pros, nil)

	ident, err := r.Resolve(context.Background(), "subj-1")
	require.NoError(t, err)
	assert.Nil(t, ident.LinkedProfessionalID)
	assert.Empty(t, pros.queried)
}

// TestPurpose: resolving twice against an unchanged record yields identical
// identities; resolution performs no writes.
// Scope: Unit Test
// Expected: both resolutions are deep-equal.
func TestResolve_Idempotent(t *testing.T) {
	users := &mockUserRepo{users: map[string]*identity.User{
		"subj-1": {
			SubjectID: "subj-1",
			Email:     "ana@clinic.example",
			Roles:     map[string]string{"a-clinic": identity.RoleAdmin},
		},
	}}
	pros := &mockProfessionalRepo{records: map[string]*identity.Professional{
		"a-clinic/subj-1": {ID: "pro-a", BusinessID: "a-clinic", SubjectID: "subj-1"},
	}}
	r := newResolver(users, pros, nil)

	first, err := r.Resolve(context.Background(), "subj-1")
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), "subj-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolve_UpstreamErrorPropagates(t *testing.T) {
	boom := errors.New("datastore unavailable")
	users := &mockUserRepo{users: map[string]*identity.User{
		"subj-1": {SubjectID: "subj-1", Roles: map[string]string{"a-clinic": identity.RoleAdmin}},
	}}
	pros := &mockProfessionalRepo{err: boom}
	r := newResolver(users, pros, nil)

	_, err := r.Resolve(context.Background(), "subj-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.True(t, apperr.IsUpstream(err))
}

func TestResolveOptional_MissingTokenIsAbsent(t *testing.T) {
	r := newResolver(&mockUserRepo{}, &mockProfessionalRepo{}, &mockVerifier{})

	ident, err := r.ResolveOptional(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, ident)
}

func TestResolveOptional_InvalidTokenIsAbsent(t *testing.T) {
	v := &mockVerifier{err: apperr.Unauthenticated("invalid or expired token")}
	r := newResolver(&mockUserRepo{}, &mockProfessionalRepo{}, v)

	ident, err := r.ResolveOptional(context.Background(), "bad-token")
	assert.NoError(t, err)
	assert.Nil(t, ident)
}

// TestPurpose: the optional variant swallows only authentication-class
// errors; outages and missing profiles still surface.
// Scope: Unit Test
// Security: hiding upstream failures would convert "unknown" into
// "anonymous", silently weakening guards that branch on identity.
// Expected: verifier outage propagates; missing profile stays NotFound.
func TestResolveOptional_DoesNotSwallowOtherErrors(t *testing.T) {
	outage := errors.New("identity provider unreachable")
	r := newResolver(&mockUserRepo{}, &mockProfessionalRepo{}, &mockVerifier{err: outage})

	_, err := r.ResolveOptional(context.Background(), "token")
	assert.True(t, errors.Is(err, outage))

	r = newResolver(&mockUserRepo{users: map[string]*identity.User{}}, &mockProfessionalRepo{}, &mockVerifier{subject: "ghost"})
	_, err = r.ResolveOptional(context.Background(), "token")
	assert.True(t, apperr.IsNotFound(err))
}
