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

// Package notification fans push notifications out to device transports.
// Delivery itself (FCM/APNs) is an external collaborator; the ledger here
// makes acknowledgments idempotent so retried deliveries are not double
// counted.
package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/clinicore/clinicore/internal/audit"
	"github.com/clinicore/clinicore/internal/observability/logger"
)

// Notification is a single push message addressed to a subject's devices.
type Notification struct {
	ID         string            `json:"id"`
	BusinessID string            `json:"business_id"`
	SubjectID  string            `json:"subject_id"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Data       map[string]string `json:"data,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Sender is one device transport (FCM, APNs).
type Sender interface {
	Name() string
	Send(ctx context.Context, n Notification) error
}

// Ledger records delivery acknowledgments exactly once.
type Ledger interface {
	// Acknowledge marks (notification, device) delivered. It returns
	// true only the first time; retries return false with no error.
	Acknowledge(ctx context.Context, notificationID, deviceID string) (bool, error)
}

// Service fans a notification out to every registered sender. A failing
// transport does not stop the others; fan-out is best effort.
type Service struct {
	senders     []Sender
	ledger      Ledger
	auditLogger audit.Logger
}

// NewService creates a notification service.
func NewService(ledger Ledger, auditLogger audit.Logger, senders ...Sender) *Service {
	return &Service{senders: senders, ledger: ledger, auditLogger: auditLogger}
}

// Send fans the notification out to all transports.
func (s *Service) Send(ctx context.Context, n Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	for _, sender := range s.senders {
		if err := sender.Send(ctx, n); err != nil {
			slog.WarnContext(ctx, "notification transport failed",
				logger.Component("notification"),
				logger.String("transport", sender.Name()),
				logger.SubjectID(n.SubjectID),
				logger.Error(err),
			)
		}
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeNotificationSent,
		TenantID: n.BusinessID,
		ActorID:  n.SubjectID,
		Resource: n.ID,
	})
}

// Acknowledge records a device acknowledgment, reporting whether this was
// the first time it was seen.
func (s *Service) Acknowledge(ctx context.Context, notificationID, deviceID string) (bool, error) {
	return s.ledger.Acknowledge(ctx, notificationID, deviceID)
}
