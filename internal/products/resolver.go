// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

// Package products maps human-readable product group aliases to the sets of
// underlying product identifiers used by the order system, and reverse-maps
// an identifier to its group label for report annotation.
//
// The alias table is loaded once from configuration at process start and is
// read-only afterwards, so a Resolver is safe for concurrent use.
package products

import (
	"sort"
	"strings"
)

// UnclassifiedLabel is returned by LabelFor when no alias set contains the
// given product identifier.
const UnclassifiedLabel = "outro"

type alias struct {
	name string
	ids  []string
	set  map[string]struct{}
}

// Resolver holds the immutable alias table.
type Resolver struct {
	aliases []alias
}

// NewResolver builds a Resolver from an alias-name -> product-id-list table.
// Alias names are lowercased. Aliases are ordered by name so LabelFor is
// deterministic when id sets overlap.
func NewResolver(table map[string][]string) *Resolver {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	r := &Resolver{aliases: make([]alias, 0, len(names))}
	for _, name := range names {
		a := alias{
			name: strings.ToLower(name),
			ids:  append([]string(nil), table[name]...),
			set:  make(map[string]struct{}, len(table[name])),
		}
		for _, id := range a.ids {
			a.set[id] = struct{}{}
		}
		r.aliases = append(r.aliases, a)
	}
	return r
}

// Resolve returns the union of every named alias's id set with the explicit
// id list, deduplicated. Unknown alias names contribute nothing. Order is not
// significant but is deterministic for a given input.
func (r *Resolver) Resolve(aliasNames, explicitIDs []string) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(id string) {
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, name := range aliasNames {
		name = strings.ToLower(strings.TrimSpace(name))
		for _, a := range r.aliases {
			if a.name == name {
				for _, id := range a.ids {
					add(id)
				}
			}
		}
	}
	for _, id := range explicitIDs {
		add(strings.TrimSpace(id))
	}
	return out
}

// LabelFor returns the first alias (by name order) whose set contains id,
// UnclassifiedLabel when none does, and the empty string for an empty id.
func (r *Resolver) LabelFor(id string) string {
	if id == "" {
		return ""
	}
	for _, a := range r.aliases {
		if _, ok := a.set[id]; ok {
			return a.name
		}
	}
	return UnclassifiedLabel
}

// Labels maps a list of product ids to their alias labels, preserving order.
func (r *Resolver) Labels(ids []string) []string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		labels = append(labels, r.LabelFor(id))
	}
	return labels
}
