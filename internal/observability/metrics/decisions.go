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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decision label values.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// Chain label values, one per authorization entry point.
const (
	ChainStanding    = "tenant_standing"
	ChainPermission  = "permission"
	ChainPatientRead = "patient_access"
	ChainAssessment  = "assessment_access"
	ChainCarePlan    = "care_plan_write"
	ChainReport      = "report_access"
)

var authzDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authz_decisions_total",
		Help: "Authorization decisions by chain and outcome.",
	},
	[]string{"chain", "decision"},
)

// RecordDecision counts one authorization decision.
func RecordDecision(chain, decision string) {
	authzDecisions.WithLabelValues(chain, decision).Inc()
}
