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

	"github.com/clinicore/clinicore/internal/authz"
	"github.com/clinicore/clinicore/internal/permission"
)

// RoleRequest carries a role definition create or update
type RoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// requireRoleAdmin gates the role administration surface behind the
// business admin role.
func (h *Handler) requireRoleAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	ident := GetIdentity(r.Context())
	businessID := GetBusinessID(r.Context())
	if businessID == "" {
		respondError(w, http.StatusBadRequest, "business id is required")
		return "", false
	}
	if _, err := authz.RequireAdmin(ident, businessID); err != nil {
		respondAppError(w, r, err)
		return "", false
	}
	return businessID, true
}

// ListRoles returns the business's role definitions together with the
// permission catalog, grouped for admin tooling.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.requireRoleAdmin(w, r)
	if !ok {
		return
	}

	defs, err := h.roleSvc.List(r.Context(), businessID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"roles":   defs,
		"catalog": permission.GroupByCategory(),
	})
}

// CreateRole creates a custom role definition.
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.requireRoleAdmin(w, r)
	if !ok {
		return
	}

	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	def, err := h.roleSvc.Create(r.Context(), businessID, req.Name, req.Permissions, GetIdentity(r.Context()).SubjectID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, def)
}

// UpdateRole replaces a definition's permissions and active flag.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.requireRoleAdmin(w, r)
	if !ok {
		return
	}

	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	def, err := h.roleSvc.Update(r.Context(), businessID, chi.URLParam(r, "roleName"), req.Permissions, isActive, GetIdentity(r.Context()).SubjectID)
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, def)
}

// DeleteRole removes a custom role definition.
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.requireRoleAdmin(w, r)
	if !ok {
		return
	}

	if err := h.roleSvc.Delete(r.Context(), businessID, chi.URLParam(r, "roleName"), GetIdentity(r.Context()).SubjectID); err != nil {
		respondAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
