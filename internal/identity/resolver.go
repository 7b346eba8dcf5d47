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
	"fmt"
	"log/slog"

	"github.com/clinicore/clinicore/internal/apperr"
	"github.com/clinicore/clinicore/internal/authn"
	"github.com/clinicore/clinicore/internal/observability/logger"
)

// Resolver turns a verified token subject into an enriched Identity.
// Resolution is read-only and idempotent: resolving the same subject twice
// against an unchanged backing record yields identical identities.
type Resolver struct {
	users         UserRepository
	professionals ProfessionalRepository
	verifier      authn.TokenVerifier
}

// NewResolver creates an identity resolver.
func NewResolver(users UserRepository, professionals ProfessionalRepository, verifier authn.TokenVerifier) *Resolver {
	return &Resolver{
		users:         users,
		professionals: professionals,
		verifier:      verifier,
	}
}

// Resolve loads the user record for a verified subject and enriches it
// with the linked professional, if any.
//
// A verified token with no corresponding profile is a client-visible
// NotFound, not an internal error.
func (r *Resolver) Resolve(ctx context.Context, subjectID string) (*Identity, error) {
	user, err := r.users.GetBySubjectID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, "user profile not found", err)
		}
		return nil, fmt.Errorf("resolving user %s: %w", subjectID, err)
	}

	ident := &Identity{
		SubjectID: user.SubjectID,
		Email:     user.Email,
		Name:      user.Name,
		Roles:     user.Roles,
	}

	pro, err := r.linkedProfessional(ctx, user)
	if err != nil {
		return nil, err
	}
	if pro != nil {
		ident.LinkedProfessionalID = &pro.ID
	}

	return ident, nil
}

// linkedProfessional scans businesses in sorted order and returns the
// professional record of the first business where the subject holds an
// admin or professional role. The scan stops at the first match even when
// later businesses could also match; an identity with several
// admin/professional memberships has ambiguous linkage by design.
func (r *Resolver) linkedProfessional(ctx context.Context, user *User) (*Professional, error) {
	if len(user.Roles) == 0 {
		return nil, nil
	}

	for _, businessID := range SortedBusinessIDs(user.Roles) {
		role := user.Roles[businessID]
		if role != RoleAdmin && role != RoleProfessional {
			continue
		}

		pro, err := r.professionals.GetByBusinessAndSubject(ctx, businessID, user.SubjectID)
		if err != nil {
			if errors.Is(err, ErrProfessionalNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolving professional link in business %s: %w", businessID, err)
		}

		slog.DebugContext(ctx, "linked professional resolved",
			logger.SubjectID(user.SubjectID),
			logger.BusinessID(businessID),
			logger.String("professional_id", pro.ID),
		)
		return pro, nil
	}

	return nil, nil
}

// ResolveOptional resolves the identity for a bearer token, returning
// (nil, nil) when no token was supplied or the token does not verify.
// Only authentication-class failures map to "absent": a missing profile or
// a datastore outage still surfaces as an error.
func (r *Resolver) ResolveOptional(ctx context.Context, bearerToken string) (*Identity, error) {
	if bearerToken == "" {
		return nil, nil
	}

	subjectID, err := r.verifier.Verify(ctx, bearerToken)
	if err != nil {
		if apperr.IsUnauthenticated(err) {
			return nil, nil
		}
		return nil, err
	}

	return r.Resolve(ctx, subjectID)
}
