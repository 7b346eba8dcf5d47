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

// Seeds the system role definitions for a business. Usage:
//
//	seed <business-id>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/clinicore/clinicore/internal/authz"
	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/id"
	"github.com/clinicore/clinicore/internal/identity"
	"github.com/clinicore/clinicore/internal/store/postgres"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("usage: seed <business-id>")
		os.Exit(1)
	}
	businessID := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	roleRepo := postgres.NewRoleRepository(db)

	bundles := map[string][]string{
		identity.RoleAdmin:        authz.AdminPermissions,
		identity.RoleProfessional: authz.ProfessionalPermissions,
		identity.RoleTechnician:   authz.TechnicianPermissions,
		identity.RoleDoctor:       authz.DoctorPermissions,
	}

	for name, perms := range bundles {
		_, err := roleRepo.GetByBusinessAndName(ctx, businessID, name)
		if err == nil {
			fmt.Printf("role %q already seeded, skipping\n", name)
			continue
		}
		if !errors.Is(err, authz.ErrRoleDefinitionNotFound) {
			fmt.Printf("Failed to check role %q: %v\n", name, err)
			os.Exit(1)
		}

		def := &authz.RoleDefinition{
			ID:          id.NewUUIDv7(),
			BusinessID:  businessID,
			Name:        name,
			Type:        authz.RoleTypeSystem,
			Permissions: perms,
			IsSystem:    true,
			IsActive:    true,
		}
		if err := roleRepo.Create(ctx, def); err != nil {
			fmt.Printf("Failed to seed role %q: %v\n", name, err)
			os.Exit(1)
		}
		fmt.Printf("seeded role %q with %d permissions\n", name, len(perms))
	}
}
