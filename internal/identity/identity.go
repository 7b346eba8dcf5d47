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

package identity

import (
	"context"
	"errors"
	"sort"
	"time"
)

// Domain errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrProfessionalNotFound = errors.New("professional not found")
)

// Reserved role-map key and value for the platform-wide override.
// "platform" is not a business: it exists only as the key under which the
// super-admin grant is stored.
const (
	PlatformKey    = "platform"
	RoleSuperAdmin = "super_admin"
)

// Role tokens compared by the authorization rules. They are free-form
// strings in storage; there is no hierarchy beyond the explicit sets each
// rule checks.
const (
	RoleAdmin        = "admin"
	RoleProfessional = "profissional"
	RoleTechnician   = "tecnico"
	RoleDoctor       = "medico"
)

// User is the stored profile backing an authenticated subject.
// Roles maps business id -> role token, plus the reserved platform key.
type User struct {
	SubjectID string            `json:"subject_id"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	Roles     map[string]string `json:"roles"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Professional is a per-business professional record linked to a subject.
type Professional struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	SubjectID  string    `json:"subject_id"`
	Name       string    `json:"name"`
	Specialty  string    `json:"specialty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Identity is an authenticated actor enriched for authorization decisions.
//
// LinkedProfessionalID reflects the first business found during a sorted
// scan of the role map, not necessarily the business of the current
// operation; callers must not assume it matches the operation's target.
type Identity struct {
	SubjectID            string
	Email                string
	Name                 string
	Roles                map[string]string
	LinkedProfessionalID *string
}

// IsSuperAdmin reports whether the identity holds the platform-wide
// override. Super-admin bypasses every tenant check.
func (i *Identity) IsSuperAdmin() bool {
	return i != nil && i.Roles[PlatformKey] == RoleSuperAdmin
}

// RoleIn returns the identity's role token for a business, or "".
func (i *Identity) RoleIn(businessID string) string {
	if i == nil {
		return ""
	}
	return i.Roles[businessID]
}

// HasStanding reports whether the identity holds any role in the business.
// The role value is irrelevant; mere membership suffices.
func (i *Identity) HasStanding(businessID string) bool {
	if i == nil {
		return false
	}
	_, ok := i.Roles[businessID]
	return ok
}

// SortedBusinessIDs returns the role-map keys in lexicographic order.
// Map iteration order in Go is randomized, so every scan that must be
// deterministic goes through this.
func SortedBusinessIDs(roles map[string]string) []string {
	ids := make([]string, 0, len(roles))
	for id := range roles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UserRepository defines user profile reads consumed by the resolver.
type UserRepository interface {
	// GetBySubjectID retrieves the user record for a verified subject.
	GetBySubjectID(ctx context.Context, subjectID string) (*User, error)

	// GetByEmail retrieves a user record by email.
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// ProfessionalRepository defines professional record reads.
type ProfessionalRepository interface {
	// GetByBusinessAndSubject retrieves the professional record matching
	// (business id, subject id).
	GetByBusinessAndSubject(ctx context.Context, businessID, subjectID string) (*Professional, error)
}
