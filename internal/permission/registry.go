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

package permission

// Canonical permission ids. These are seeded into built-in role definitions
// and stored in tenant role permission lists; they must remain stable.
const (
	PermPatientsCreate = "patients.create"
	PermPatientsRead   = "patients.read"
	PermPatientsUpdate = "patients.update"
	PermPatientsDelete = "patients.delete"
	PermPatientsList   = "patients.list"

	PermAssessmentsCreate = "assessments.create"
	PermAssessmentsRead   = "assessments.read"
	PermAssessmentsUpdate = "assessments.update"

	PermCarePlansCreate = "care_plans.create"
	PermCarePlansUpdate = "care_plans.update"

	PermReportsCreate = "reports.create"
	PermReportsRead   = "reports.read"
	PermReportsList   = "reports.list"

	PermProfessionalsManage = "professionals.manage"
	PermProfessionalsRead   = "professionals.read"

	PermRolesManage = "roles.manage"
	PermRolesRead   = "roles.read"

	PermNotificationsSend = "notifications.send"
)

// Category labels used for grouping in admin UIs and the seed tooling.
const (
	CategoryPatients       = "Patients"
	CategoryClinical       = "Clinical Records"
	CategoryReports        = "Reports"
	CategoryAdministration = "Administration"
	CategoryNotifications  = "Notifications"
)

var registry = []Permission{
	{ID: PermPatientsCreate, Category: CategoryPatients, Name: "Create patients", Description: "Register a new patient in the business", Resource: "patients", Action: "create"},
	{ID: PermPatientsRead, Category: CategoryPatients, Name: "View patients", Description: "Read a patient's base record", Resource: "patients", Action: "read"},
	{ID: PermPatientsUpdate, Category: CategoryPatients, Name: "Update patients", Description: "Edit a patient's base record and care-team links", Resource: "patients", Action: "update"},
	{ID: PermPatientsDelete, Category: CategoryPatients, Name: "Remove patients", Description: "Remove a patient from the business", Resource: "patients", Action: "delete"},
	{ID: PermPatientsList, Category: CategoryPatients, Name: "List patients", Description: "List the business's patients", Resource: "patients", Action: "list"},

	{ID: PermAssessmentsCreate, Category: CategoryClinical, Name: "Create assessments", Description: "Record a structured clinical assessment", Resource: "assessments", Action: "create"},
	{ID: PermAssessmentsRead, Category: CategoryClinical, Name: "View assessments", Description: "Read structured intake and assessment records", Resource: "assessments", Action: "read"},
	{ID: PermAssessmentsUpdate, Category: CategoryClinical, Name: "Update assessments", Description: "Amend a clinical assessment", Resource: "assessments", Action: "update"},

	{ID: PermCarePlansCreate, Category: CategoryClinical, Name: "Create care plans", Description: "Author a patient care plan", Resource: "care_plans", Action: "create"},
	{ID: PermCarePlansUpdate, Category: CategoryClinical, Name: "Update care plans", Description: "Revise a patient care plan", Resource: "care_plans", Action: "update"},

	{ID: PermReportsCreate, Category: CategoryReports, Name: "Create reports", Description: "Write a clinical report", Resource: "reports", Action: "create"},
	{ID: PermReportsRead, Category: CategoryReports, Name: "View reports", Description: "Read a clinical report", Resource: "reports", Action: "read"},
	{ID: PermReportsList, Category: CategoryReports, Name: "List reports", Description: "List the business's clinical reports", Resource: "reports", Action: "list"},

	{ID: PermProfessionalsManage, Category: CategoryAdministration, Name: "Manage professionals", Description: "Create and update professional records", Resource: "professionals", Action: "manage"},
	{ID: PermProfessionalsRead, Category: CategoryAdministration, Name: "View professionals", Description: "Read professional records", Resource: "professionals", Action: "read"},
	{ID: PermRolesManage, Category: CategoryAdministration, Name: "Manage roles", Description: "Create, update and deactivate business roles", Resource: "roles", Action: "manage"},
	{ID: PermRolesRead, Category: CategoryAdministration, Name: "View roles", Description: "Read business role definitions", Resource: "roles", Action: "read"},

	{ID: PermNotificationsSend, Category: CategoryNotifications, Name: "Send notifications", Description: "Send push notifications to patients and staff", Resource: "notifications", Action: "send"},
}
