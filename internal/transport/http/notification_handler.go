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
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicore/clinicore/internal/id"
	"github.com/clinicore/clinicore/internal/notification"
	"github.com/clinicore/clinicore/internal/permission"
)

// SendNotificationRequest carries an outbound push notification
type SendNotificationRequest struct {
	SubjectID string            `json:"subject_id"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
}

// AckRequest identifies the acknowledging device
type AckRequest struct {
	DeviceID string `json:"device_id"`
}

// SendNotification fans a push notification out to the subject's devices.
func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	ident := h.requirePermission(w, r, permission.PermNotificationsSend)
	if ident == nil {
		return
	}

	var req SendNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SubjectID == "" || req.Title == "" {
		respondError(w, http.StatusBadRequest, "subject_id and title are required")
		return
	}

	n := notification.Notification{
		ID:         id.NewUUIDv7(),
		BusinessID: GetBusinessID(r.Context()),
		SubjectID:  req.SubjectID,
		Title:      req.Title,
		Body:       req.Body,
		Data:       req.Data,
	}
	h.notifSvc.Send(r.Context(), n)

	respondJSON(w, http.StatusAccepted, map[string]string{"id": n.ID})
}

// AcknowledgeNotification records a device delivery acknowledgment.
// Retries are harmless: only the first one per device counts.
func (h *Handler) AcknowledgeNotification(w http.ResponseWriter, r *http.Request) {
	var req AckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DeviceID == "" {
		respondError(w, http.StatusBadRequest, "device_id is required")
		return
	}

	first, err := h.notifSvc.Acknowledge(r.Context(), chi.URLParam(r, "notificationID"), req.DeviceID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"first": first})
}
