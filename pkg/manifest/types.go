// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package manifest defines the schema, load/save, and invariants for
// wald's three workspace-state documents (registry, config, sync
// state) and the per-container baum descriptor, plus the fuzzy
// repository-reference resolution algorithm.
package manifest

import "github.com/archmagece/wald/pkg/repoid"

// LFSPolicy controls how Git LFS objects are handled for a repository.
type LFSPolicy string

const (
	LFSFull    LFSPolicy = "full"
	LFSMinimal LFSPolicy = "minimal"
	LFSSkip    LFSPolicy = "skip"
)

// IsValid reports whether p is one of the defined LFS policies.
func (p LFSPolicy) IsValid() bool {
	switch p {
	case LFSFull, LFSMinimal, LFSSkip:
		return true
	}
	return false
}

// Depth is a clone depth: either "full" history or a positive shallow
// depth. It round-trips through YAML as either the string "full" or
// an integer.
type Depth struct {
	Full  bool
	Value int // meaningful only when !Full
}

// FullDepth is the unbounded-history depth policy.
func FullDepth() Depth { return Depth{Full: true} }

// ShallowDepth is a positive shallow-clone depth.
func ShallowDepth(n int) Depth { return Depth{Value: n} }

// CloneFilter is a Git partial-clone filter policy.
type CloneFilter string

const (
	FilterNone     CloneFilter = "none"
	FilterBlobNone CloneFilter = "blob-none"
	FilterTreeZero CloneFilter = "tree-0"
)

// IsValid reports whether f is one of the defined filter policies.
func (f CloneFilter) IsValid() bool {
	switch f {
	case FilterNone, FilterBlobNone, FilterTreeZero:
		return true
	}
	return false
}

// GitFlag returns the --filter value git expects, or "" for FilterNone.
func (f CloneFilter) GitFlag() string {
	switch f {
	case FilterBlobNone:
		return "blob:none"
	case FilterTreeZero:
		return "tree:0"
	default:
		return ""
	}
}

// Defaults-for-defaults, per the data model.
var (
	DefaultLFSPolicy = LFSMinimal
	DefaultDepth     = ShallowDepth(100)
	DefaultFilter    = FilterNone
)

// RepoEntry is one registry record: policy for a registered Repo ID.
// ID is not serialised directly — the registry stores entries keyed
// by their canonical Repo ID string, and populates ID from the key on
// load.
type RepoEntry struct {
	ID       repoid.ID   `yaml:"-"`
	LFS      LFSPolicy   `yaml:"lfs,omitempty"`
	Depth    Depth       `yaml:"depth,omitempty"`
	Filter   CloneFilter `yaml:"filter,omitempty"`
	Upstream *repoid.ID  `yaml:"upstream,omitempty"`
	Aliases  []string    `yaml:"aliases,omitempty"`
}

// applyDefaults fills unset policy fields with the built-in defaults
// (DefaultLFSPolicy, DefaultDepth, DefaultFilter).
func (e *RepoEntry) applyDefaults() {
	if e.LFS == "" {
		e.LFS = DefaultLFSPolicy
	}
	if e.Depth == (Depth{}) {
		e.Depth = DefaultDepth
	}
	if e.Filter == "" {
		e.Filter = DefaultFilter
	}
}
