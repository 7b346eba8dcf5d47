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

package authz

import (
	"context"
	"errors"
	"time"

	"github.com/clinicore/clinicore/internal/permission"
)

// Domain errors
var (
	ErrRoleDefinitionNotFound = errors.New("role definition not found")
	ErrSystemRoleProtected    = errors.New("system roles cannot be deleted")
)

// Role definition type tags.
const (
	RoleTypeSystem = "system"
	RoleTypeCustom = "custom"
)

// RoleDefinition is a named, business-scoped permission bundle. The role
// token stored in a user's role map selects one of these by Name.
type RoleDefinition struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"business_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Permissions []string  `json:"permissions"`
	IsSystem    bool      `json:"is_system"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Grants reports whether the definition lists the permission id.
func (r *RoleDefinition) Grants(permissionID string) bool {
	for _, p := range r.Permissions {
		if p == permissionID {
			return true
		}
	}
	return false
}

// RoleRepository defines role definition persistence.
type RoleRepository interface {
	// GetByBusinessAndName retrieves a business's role definition by the
	// role token stored in user role maps.
	GetByBusinessAndName(ctx context.Context, businessID, name string) (*RoleDefinition, error)

	// ListByBusiness retrieves every role definition of a business.
	ListByBusiness(ctx context.Context, businessID string) ([]*RoleDefinition, error)

	// Create creates a role definition.
	Create(ctx context.Context, def *RoleDefinition) error

	// Update updates a role definition's permissions and active flag.
	Update(ctx context.Context, def *RoleDefinition) error

	// Delete removes a custom role definition. Implementations must
	// refuse to remove definitions with IsSystem set.
	Delete(ctx context.Context, businessID, name string) error
}

// Built-in role permission bundles, seeded per business by cmd/seed.
// The seeded definitions carry IsSystem so admin tooling cannot delete
// them by accident.

// AdminPermissions is the bundle for the "admin" role.
var AdminPermissions = []string{
	permission.PermPatientsCreate,
	permission.PermPatientsRead,
	permission.PermPatientsUpdate,
	permission.PermPatientsDelete,
	permission.PermPatientsList,
	permission.PermAssessmentsCreate,
	permission.PermAssessmentsRead,
	permission.PermAssessmentsUpdate,
	permission.PermCarePlansCreate,
	permission.PermCarePlansUpdate,
	permission.PermReportsCreate,
	permission.PermReportsRead,
	permission.PermReportsList,
	permission.PermProfessionalsManage,
	permission.PermProfessionalsRead,
	permission.PermRolesManage,
	permission.PermRolesRead,
	permission.PermNotificationsSend,
}

// ProfessionalPermissions is the bundle for the "profissional" role.
var ProfessionalPermissions = []string{
	permission.PermPatientsCreate,
	permission.PermPatientsRead,
	permission.PermPatientsUpdate,
	permission.PermPatientsList,
	permission.PermAssessmentsCreate,
	permission.PermAssessmentsRead,
	permission.PermAssessmentsUpdate,
	permission.PermCarePlansCreate,
	permission.PermCarePlansUpdate,
	permission.PermReportsCreate,
	permission.PermReportsRead,
	permission.PermReportsList,
	permission.PermProfessionalsRead,
	permission.PermNotificationsSend,
}

// TechnicianPermissions is the bundle for the "tecnico" role.
var TechnicianPermissions = []string{
	permission.PermPatientsRead,
	permission.PermPatientsList,
	permission.PermNotificationsSend,
}

// DoctorPermissions is the bundle for the "medico" role.
var DoctorPermissions = []string{
	permission.PermPatientsRead,
	permission.PermPatientsList,
	permission.PermAssessmentsRead,
	permission.PermReportsCreate,
	permission.PermReportsRead,
	permission.PermReportsList,
}
