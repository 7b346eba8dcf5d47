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
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/clinicore/clinicore/internal/audit"
	"github.com/clinicore/clinicore/internal/authn"
	"github.com/clinicore/clinicore/internal/authz"
	"github.com/clinicore/clinicore/internal/identity"
	"github.com/clinicore/clinicore/internal/notification"
	"github.com/clinicore/clinicore/internal/patient"
	"github.com/clinicore/clinicore/internal/report"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	verifier    authn.TokenVerifier
	resolver    *identity.Resolver
	patientSvc  *patient.Service
	patientAuth *patient.Authorizer
	reportSvc   *report.Service
	reportAuth  *report.Authorizer
	evaluator   *authz.Evaluator
	roleSvc     *authz.RoleService
	notifSvc    *notification.Service
	auditLogger audit.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	verifier authn.TokenVerifier,
	resolver *identity.Resolver,
	patientSvc *patient.Service,
	patientAuth *patient.Authorizer,
	reportSvc *report.Service,
	reportAuth *report.Authorizer,
	evaluator *authz.Evaluator,
	roleSvc *authz.RoleService,
	notifSvc *notification.Service,
	auditLogger audit.Logger,
) *Handler {
	return &Handler{
		verifier:    verifier,
		resolver:    resolver,
		patientSvc:  patientSvc,
		patientAuth: patientAuth,
		reportSvc:   reportSvc,
		reportAuth:  reportAuth,
		evaluator:   evaluator,
		roleSvc:     roleSvc,
		notifSvc:    notifSvc,
		auditLogger: auditLogger,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Business-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check and Prometheus scrape endpoint
	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		// Current caller
		r.Get("/me", h.Me)

		// Cross-business report lookup: the chain decides from the
		// report's own business, not from a request-scoped tenant.
		r.Get("/reports/{reportID}", h.GetReport)

		// Header-scoped listing for clients without a business in the
		// path.
		r.With(BusinessContextMiddleware).Get("/patients", h.ListPatientsHeaderScoped)

		// Business-scoped surface
		r.Route("/businesses/{businessID}", func(r chi.Router) {
			r.Use(BusinessContextMiddleware)

			r.Route("/patients", func(r chi.Router) {
				r.Get("/", h.ListPatients)
				r.Post("/", h.CreatePatient)

				r.Route("/{patientID}", func(r chi.Router) {
					r.Get("/", h.GetPatient)
					r.Delete("/", h.DeletePatient)
					r.Get("/assessments", h.GetPatientAssessments)
					r.Put("/care-plan", h.UpdateCarePlan)
					r.Put("/care-team", h.UpdateCareTeam)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", h.ListReports)
				r.Post("/", h.CreateReport)
			})

			r.Route("/roles", func(r chi.Router) {
				r.Get("/", h.ListRoles)
				r.Post("/", h.CreateRole)
				r.Put("/{roleName}", h.UpdateRole)
				r.Delete("/{roleName}", h.DeleteRole)
			})

			r.Post("/notifications", h.SendNotification)
		})

		r.Post("/notifications/{notificationID}/ack", h.AcknowledgeNotification)
	})

	return r
}

// HealthCheck returns the health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "clinicore",
	})
}

// Me returns the resolved identity of the caller, including the linked
// professional when one exists.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ident := GetIdentity(r.Context())
	if ident == nil {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	resp := map[string]any{
		"subject_id": ident.SubjectID,
		"email":      ident.Email,
		"name":       ident.Name,
		"roles":      ident.Roles,
	}
	if ident.LinkedProfessionalID != nil {
		resp["linked_professional_id"] = *ident.LinkedProfessionalID
	}
	respondJSON(w, http.StatusOK, resp)
}
