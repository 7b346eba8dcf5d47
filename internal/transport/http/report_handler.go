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

	"github.com/clinicore/clinicore/internal/apperr"
	"github.com/clinicore/clinicore/internal/audit"
	"github.com/clinicore/clinicore/internal/authz"
	"github.com/clinicore/clinicore/internal/identity"
	"github.com/clinicore/clinicore/internal/observability/metrics"
	"github.com/clinicore/clinicore/internal/permission"
)

// CreateReportRequest carries a new report
type CreateReportRequest struct {
	PatientID string `json:"patient_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// GetReport serves the report access chain. The report id is global; the
// chain derives the business from the report itself.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ident := GetIdentity(r.Context())
	reportID := chi.URLParam(r, "reportID")

	rep, err := h.reportAuth.AuthorizeReport(r.Context(), ident, reportID)
	if err != nil {
		if apperr.IsForbidden(err) || apperr.IsNotFound(err) {
			metrics.RecordDecision(metrics.ChainReport, metrics.DecisionDeny)
			h.auditLogger.Log(r.Context(), audit.Event{
				Type:      audit.TypeAccessDenied,
				ActorID:   ident.SubjectID,
				Resource:  reportID,
				IPAddress: getIPAddress(r),
				Metadata: map[string]any{
					audit.AttrChain:  metrics.ChainReport,
					audit.AttrReason: apperr.Reason(err),
				},
			})
		}
		respondAppError(w, r, err)
		return
	}

	metrics.RecordDecision(metrics.ChainReport, metrics.DecisionAllow)
	respondJSON(w, http.StatusOK, rep)
}

// ListReports returns the business's reports visible to the caller.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ident := GetIdentity(r.Context())
	businessID := GetBusinessID(r.Context())

	if _, err := authz.RequireRoleAny(ident, businessID,
		identity.RoleAdmin, identity.RoleProfessional, identity.RoleDoctor); err != nil {
		respondAppError(w, r, err)
		return
	}

	reports, err := h.reportSvc.ListForIdentity(r.Context(), ident, businessID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

// CreateReport creates a report in the business.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ident := h.requirePermission(w, r, permission.PermReportsCreate)
	if ident == nil {
		return
	}

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rep, err := h.reportSvc.Create(r.Context(), ident, GetBusinessID(r.Context()), req.PatientID, req.Title, req.Content)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, rep)
}
