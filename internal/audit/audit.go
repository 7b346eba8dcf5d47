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

// Package audit emits structured audit events through the global logger.
// Persistence of audit trails is out of scope; this is observability, not
// a ledger.
package audit

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Event types
const (
	TypeAccessGranted    = "access_granted"
	TypeAccessDenied     = "access_denied"
	TypePatientCreated   = "patient_created"
	TypePatientDeleted   = "patient_deleted"
	TypeCareTeamUpdated  = "care_team_updated"
	TypeCarePlanUpdated  = "care_plan_updated"
	TypeRoleCreated      = "role_created"
	TypeRoleUpdated      = "role_updated"
	TypeRoleDeactivated  = "role_deactivated"
	TypeNotificationSent = "notification_sent"
)

// Common metadata attribute keys
const (
	AttrReason = "reason"
	AttrChain  = "chain"
)

// Event represents an auditable action
type Event struct {
	Type      string
	TenantID  string
	ActorID   string
	Resource  string
	Metadata  map[string]any
	Timestamp time.Time
	IPAddress string
	UserAgent string
}

// Logger defines the interface for audit logging
type Logger interface {
	Log(ctx context.Context, event Event)
}

// SlogLogger implements Logger using slog
type SlogLogger struct{}

// NewSlogLogger creates a new audit logger
func NewSlogLogger() *SlogLogger {
	return &SlogLogger{}
}

// Log records an audit event
func (l *SlogLogger) Log(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	attrs := []any{
		slog.String("audit_type", event.Type),
		slog.String("tenant_id", event.TenantID),
		slog.String("actor_id", event.ActorID),
		slog.String("resource", event.Resource),
		slog.Time("timestamp", event.Timestamp),
	}

	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", event.UserAgent))
	}

	if len(event.Metadata) > 0 {
		group := []any{}
		for k, v := range event.Metadata {
			if isSecret(k) {
				v = "[REDACTED]"
			}
			group = append(group, slog.Any(k, v))
		}
		attrs = append(attrs, slog.Group("metadata", group...))
	}

	slog.InfoContext(ctx, "AUDIT_EVENT", append(attrs, slog.String("component", "audit"))...)
}

// isSecret checks if a key likely contains a secret or patient PII.
func isSecret(key string) bool {
	k := strings.ToLower(key)
	needles := []string{"password", "secret", "token", "key", "authorization", "hash", "credential", "cpf"}
	for _, n := range needles {
		if strings.Contains(k, n) {
			return true
		}
	}
	return false
}
