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
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicore/clinicore/internal/apperr"
	"github.com/clinicore/clinicore/internal/audit"
	"github.com/clinicore/clinicore/internal/authz"
	"github.com/clinicore/clinicore/internal/identity"
	"github.com/clinicore/clinicore/internal/observability/metrics"
	"github.com/clinicore/clinicore/internal/patient"
	"github.com/clinicore/clinicore/internal/permission"
)

// CreatePatientRequest carries a new patient record
type CreatePatientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	CPF   string `json:"cpf"`
	Phone string `json:"phone"`
}

// CareTeamRequest replaces a patient's care-team links
type CareTeamRequest struct {
	EnfermeiroID string   `json:"enfermeiro_id"`
	TecnicosIDs  []string `json:"tecnicos_ids"`
}

// CarePlanRequest replaces a patient's care plan
type CarePlanRequest struct {
	CarePlan string `json:"care_plan"`
}

// requirePermission runs the granular evaluator for the request's
// business context. It returns the identity on allow and writes the
// response on deny.
func (h *Handler) requirePermission(w http.ResponseWriter, r *http.Request, permissionID string) *identity.Identity {
	ident := GetIdentity(r.Context())
	businessID := GetBusinessID(r.Context())
	if businessID == "" {
		respondError(w, http.StatusBadRequest, "business id is required")
		return nil
	}

	ok, err := h.evaluator.HasPermission(r.Context(), ident, businessID, permissionID)
	if err != nil {
		respondAppError(w, r, err)
		return nil
	}
	if !ok {
		metrics.RecordDecision(metrics.ChainPermission, metrics.DecisionDeny)
		h.auditLogger.Log(r.Context(), audit.Event{
			Type:      audit.TypeAccessDenied,
			TenantID:  businessID,
			ActorID:   ident.SubjectID,
			Resource:  permissionID,
			IPAddress: getIPAddress(r),
			Metadata:  map[string]any{audit.AttrReason: "permission not granted"},
		})
		respondError(w, http.StatusForbidden, "permission denied")
		return nil
	}

	metrics.RecordDecision(metrics.ChainPermission, metrics.DecisionAllow)
	return ident
}

// ListPatients returns the business's patients.
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	if ident := h.requirePermission(w, r, permission.PermPatientsList); ident == nil {
		return
	}

	patients, err := h.patientSvc.ListByBusiness(r.Context(), GetBusinessID(r.Context()))
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"patients": patients})
}

// ListPatientsHeaderScoped serves clients that send the business in the
// X-Business-ID header instead of the path. Same gate, same data.
func (h *Handler) ListPatientsHeaderScoped(w http.ResponseWriter, r *http.Request) {
	ident := GetIdentity(r.Context())
	businessID := GetBusinessID(r.Context())

	if _, err := authz.RequireRoleForHeaderTenant(ident, businessID,
		identity.RoleAdmin, identity.RoleProfessional, identity.RoleTechnician); err != nil {
		respondAppError(w, r, err)
		return
	}

	patients, err := h.patientSvc.ListByBusiness(r.Context(), businessID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"patients": patients})
}

// CreatePatient registers a patient under the business.
func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	ident := h.requirePermission(w, r, permission.PermPatientsCreate)
	if ident == nil {
		return
	}

	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "patient name is required")
		return
	}

	p := &patient.Patient{
		Name:  req.Name,
		Email: req.Email,
		CPF:   req.CPF,
		Phone: req.Phone,
	}
	created, err := h.patientSvc.Create(r.Context(), GetBusinessID(r.Context()), p, ident.SubjectID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// GetPatient serves the general patient access chain.
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	ident := GetIdentity(r.Context())
	patientID := chi.URLParam(r, "patientID")

	if _, err := h.patientAuth.AuthorizeAccess(r.Context(), ident, patientID); err != nil {
		h.denyPatient(w, r, metrics.ChainPatientRead, patientID, err)
		return
	}
	metrics.RecordDecision(metrics.ChainPatientRead, metrics.DecisionAllow)

	p, err := h.patientSvc.Get(r.Context(), patientID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// GetPatientAssessments serves the assessment chain. Technicians are
// deliberately outside this one even when they are linked to the
// patient.
func (h *Handler) GetPatientAssessments(w http.ResponseWriter, r *http.Request) {
	ident := GetIdentity(r.Context())
	patientID := chi.URLParam(r, "patientID")

	if _, err := h.patientAuth.AuthorizeAssessment(r.Context(), ident, patientID); err != nil {
		h.denyPatient(w, r, metrics.ChainAssessment, patientID, err)
		return
	}
	metrics.RecordDecision(metrics.ChainAssessment, metrics.DecisionAllow)

	p, err := h.patientSvc.Get(r.Context(), patientID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"patient_id":    p.ID,
		"name":          p.Name,
		"enfermeiro_id": p.EnfermeiroID,
		"care_plan":     p.CarePlan,
	})
}

// UpdateCarePlan serves the care-plan write chain. There is no
// self-access here: patients never edit their own plans.
func (h *Handler) UpdateCarePlan(w http.ResponseWriter, r *http.Request) {
	ident := GetIdentity(r.Context())
	patientID := chi.URLParam(r, "patientID")

	var req CarePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.patientAuth.AuthorizeCarePlanWrite(r.Context(), ident, patientID); err != nil {
		h.denyPatient(w, r, metrics.ChainCarePlan, patientID, err)
		return
	}
	metrics.RecordDecision(metrics.ChainCarePlan, metrics.DecisionAllow)

	p, err := h.patientSvc.Get(r.Context(), patientID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	updated, err := h.patientSvc.UpdateCarePlan(r.Context(), p, req.CarePlan, ident.SubjectID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// UpdateCareTeam replaces the nurse and technician links. Admin only.
func (h *Handler) UpdateCareTeam(w http.ResponseWriter, r *http.Request) {
	ident := GetIdentity(r.Context())
	businessID := GetBusinessID(r.Context())
	patientID := chi.URLParam(r, "patientID")

	if _, err := authz.RequireAdmin(ident, businessID); err != nil {
		respondAppError(w, r, err)
		return
	}

	var req CareTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.patientSvc.Get(r.Context(), patientID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			respondError(w, http.StatusNotFound, "patient not found")
			return
		}
		respondAppError(w, r, err)
		return
	}
	updated, err := h.patientSvc.UpdateCareTeam(r.Context(), p, req.EnfermeiroID, req.TecnicosIDs, ident.SubjectID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeletePatient removes a patient record. Admin only.
func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	ident := GetIdentity(r.Context())
	businessID := GetBusinessID(r.Context())
	patientID := chi.URLParam(r, "patientID")

	if _, err := authz.RequireAdmin(ident, businessID); err != nil {
		respondAppError(w, r, err)
		return
	}

	p, err := h.patientSvc.Get(r.Context(), patientID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			respondError(w, http.StatusNotFound, "patient not found")
			return
		}
		respondAppError(w, r, err)
		return
	}
	if err := h.patientSvc.Delete(r.Context(), p, ident.SubjectID); err != nil {
		respondAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// denyPatient records metrics and an audit trail for a failed chain
// before mapping the error onto the response.
func (h *Handler) denyPatient(w http.ResponseWriter, r *http.Request, chain, patientID string, err error) {
	if apperr.IsForbidden(err) || apperr.IsNotFound(err) {
		metrics.RecordDecision(chain, metrics.DecisionDeny)
		ident := GetIdentity(r.Context())
		actorID := ""
		if ident != nil {
			actorID = ident.SubjectID
		}
		h.auditLogger.Log(r.Context(), audit.Event{
			Type:      audit.TypeAccessDenied,
			ActorID:   actorID,
			Resource:  patientID,
			IPAddress: getIPAddress(r),
			Metadata: map[string]any{
				audit.AttrChain:  chain,
				audit.AttrReason: apperr.Reason(err),
			},
		})
	}
	respondAppError(w, r, err)
}
