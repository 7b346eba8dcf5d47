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

package authn

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinicore/internal/apperr"
)

var testSecret = []byte("test-signing-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func TestJWTVerifier_ValidToken(t *testing.T) {
	v := NewJWTVerifier(testSecret, "idp.example.com", "")
	token := signToken(t, jwt.MapClaims{
		"sub": "user-123",
		"iss": "idp.example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	sub, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)
}

// TestPurpose: all verification failures are Unauthenticated, never upstream.
// Scope: Unit Test
// Security: the optional-identity variant relies on this classification to
// decide what it may swallow.
// Expected: missing, expired, tampered, and subject-less tokens all map to
// KindUnauthenticated.
func TestJWTVerifier_FailuresAreUnauthenticated(t *testing.T) {
	v := NewJWTVerifier(testSecret, "", "")
	ctx := context.Background()

	cases := map[string]string{
		"missing":    "",
		"garbage":    "not.a.jwt",
		"expired":    signToken(t, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()}),
		"no subject": signToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}),
	}

	for name, token := range cases {
		_, err := v.Verify(ctx, token)
		require.Error(t, err, name)
		assert.True(t, apperr.IsUnauthenticated(err), name)
	}
}

func TestJWTVerifier_RejectsWrongIssuer(t *testing.T) {
	v := NewJWTVerifier(testSecret, "idp.example.com", "")
	token := signToken(t, jwt.MapClaims{
		"sub": "user-123",
		"iss": "evil.example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), token)
	assert.True(t, apperr.IsUnauthenticated(err))
}

func TestJWTVerifier_RejectsWrongKey(t *testing.T) {
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := other.SignedString([]byte("different-secret"))
	require.NoError(t, err)

	v := NewJWTVerifier(testSecret, "", "")
	_, err = v.Verify(context.Background(), signed)
	assert.True(t, apperr.IsUnauthenticated(err))
}
