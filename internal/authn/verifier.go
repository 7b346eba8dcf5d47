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

// Package authn consumes the external identity provider's bearer tokens.
// Token issuance, sessions, and password policy live with the provider;
// this package only answers "which subject does this token belong to".
package authn

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicore/clinicore/internal/apperr"
)

// TokenVerifier verifies a bearer token and returns the subject id it was
// issued for. Verification failures are Unauthenticated; they carry no
// further detail to the caller.
type TokenVerifier interface {
	Verify(ctx context.Context, bearerToken string) (subjectID string, err error)
}

// JWTVerifier validates HMAC-signed tokens from the identity provider.
type JWTVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewJWTVerifier creates a verifier for the provider's signing secret.
// Issuer and audience are enforced when non-empty.
func NewJWTVerifier(secret []byte, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{secret: secret, issuer: issuer, audience: audience}
}

// Verify parses and validates the token, returning its subject claim.
func (v *JWTVerifier) Verify(ctx context.Context, bearerToken string) (string, error) {
	if bearerToken == "" {
		return "", apperr.Unauthenticated("missing bearer token")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.Parse(bearerToken, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnauthenticated, "invalid or expired token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.Unauthenticated("invalid or expired token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", apperr.Unauthenticated("token has no subject")
	}
	return sub, nil
}

// String implements fmt.Stringer without leaking the secret.
func (v *JWTVerifier) String() string {
	return fmt.Sprintf("JWTVerifier{issuer:%s audience:%s}", v.issuer, v.audience)
}
