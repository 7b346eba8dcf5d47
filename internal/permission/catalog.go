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

// Package permission is the static catalog of every permission the platform
// knows about. It is pure and does no I/O: both the seed tooling and the
// runtime validation of role permission lists read from it.
package permission

import "sort"

// Permission is an atomic capability identified by "<resource>.<action>".
// Ids are immutable once published: stored role permission lists depend on
// id stability.
type Permission struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
}

// ListAll returns every catalog permission ordered by id.
func ListAll() []Permission {
	out := make([]Permission, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByID returns the permission with the given id.
func ByID(id string) (Permission, bool) {
	p, ok := index[id]
	return p, ok
}

// GroupByCategory returns the catalog keyed by category label, each group
// ordered by id.
func GroupByCategory() map[string][]Permission {
	groups := make(map[string][]Permission)
	for _, p := range ListAll() {
		groups[p.Category] = append(groups[p.Category], p)
	}
	return groups
}

// ValidateIDs checks a candidate permission list against the catalog and
// returns the ids it does not recognise.
func ValidateIDs(ids []string) (bool, []string) {
	var invalid []string
	for _, id := range ids {
		if _, ok := index[id]; !ok {
			invalid = append(invalid, id)
		}
	}
	return len(invalid) == 0, invalid
}

var index = func() map[string]Permission {
	m := make(map[string]Permission, len(registry))
	for _, p := range registry {
		m[p.ID] = p
	}
	return m
}()
