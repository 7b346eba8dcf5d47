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

package http

import (
	"context"

	"github.com/clinicore/clinicore/internal/identity"
)

type contextKey string

const (
	identityKey   contextKey = "identity"
	businessIDKey contextKey = "business_id"
)

// GetIdentity retrieves the resolved caller identity from context.
func GetIdentity(ctx context.Context) *identity.Identity {
	if val, ok := ctx.Value(identityKey).(*identity.Identity); ok {
		return val
	}
	return nil
}

// GetBusinessID retrieves the request's business context.
func GetBusinessID(ctx context.Context) string {
	if val, ok := ctx.Value(businessIDKey).(string); ok {
		return val
	}
	return ""
}

// WithIdentity stores the resolved identity in context.
func WithIdentity(ctx context.Context, ident *identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// WithBusinessID stores the business context.
func WithBusinessID(ctx context.Context, businessID string) context.Context {
	return context.WithValue(ctx, businessIDKey, businessID)
}
