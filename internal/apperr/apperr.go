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

// Package apperr defines the failure taxonomy shared by the authorization
// guards. Every denial is an explicit return value, never a panic or an
// exception caught at the transport boundary. Errors that carry no Kind are
// upstream/infrastructure failures and must be propagated unmodified: the
// chains never convert "unknown" into "denied".
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a terminal guard failure.
type Kind int

const (
	// KindUnauthenticated covers missing, invalid, or expired tokens.
	KindUnauthenticated Kind = iota + 1

	// KindBadRequest covers a missing required input, e.g. a guard that
	// needs a tenant id which was never supplied.
	KindBadRequest

	// KindForbidden means the caller is authenticated and the resource
	// exists, but no rule grants access.
	KindForbidden

	// KindNotFound means no record exists for a syntactically valid id.
	KindNotFound
)

// Error is a terminal, client-visible failure with a human-readable reason.
// Internal detail stays in the wrapped error and is never rendered to users.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

// Unauthenticated builds an authentication-class failure.
func Unauthenticated(reason string) *Error {
	return &Error{Kind: KindUnauthenticated, Reason: reason}
}

// BadRequest builds a missing-input failure.
func BadRequest(reason string) *Error {
	return &Error{Kind: KindBadRequest, Reason: reason}
}

// Forbidden builds a terminal denial.
func Forbidden(reason string) *Error {
	return &Error{Kind: KindForbidden, Reason: reason}
}

// NotFound builds a missing-record failure.
func NotFound(reason string) *Error {
	return &Error{Kind: KindNotFound, Reason: reason}
}

// Wrap attaches a cause to a taxonomy failure so errors.Is still reaches
// the originating sentinel.
func Wrap(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

// KindOf returns the Kind of err, or 0 when err is not part of the
// taxonomy (i.e. an upstream failure).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Reason returns the client-visible reason of err, or "" for upstream
// failures.
func Reason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// IsUnauthenticated reports whether err is an authentication-class failure.
func IsUnauthenticated(err error) bool { return KindOf(err) == KindUnauthenticated }

// IsBadRequest reports whether err is a missing-input failure.
func IsBadRequest(err error) bool { return KindOf(err) == KindBadRequest }

// IsForbidden reports whether err is a terminal denial.
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

// IsNotFound reports whether err is a missing-record failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsUpstream reports whether err must be propagated unmodified.
func IsUpstream(err error) bool { return err != nil && KindOf(err) == 0 }
