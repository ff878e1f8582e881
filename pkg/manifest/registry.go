// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifest

import (
	"fmt"
	"sort"

	"github.com/archmagece/wald/pkg/repoid"
)

// Registry is the central mapping from Repo ID to repo entry, stored
// at .wald/manifest.yaml.
type Registry struct {
	Repos map[string]*RepoEntry `yaml:"repos,omitempty"`
}

// NewRegistry returns an empty registry ready for use.
func NewRegistry() *Registry {
	return &Registry{Repos: map[string]*RepoEntry{}}
}

// Add registers id with the given entry, applying the built-in
// defaults to unset fields. It fails if id is already registered or if any
// alias collides with an existing alias in the registry.
func (r *Registry) Add(id repoid.ID, entry RepoEntry) error {
	key := id.String()
	if _, exists := r.Repos[key]; exists {
		return fmt.Errorf("repo %s is already registered", key)
	}
	for _, alias := range entry.Aliases {
		if owner, ok := r.aliasOwner(alias); ok {
			return fmt.Errorf("alias %q already used by %s", alias, owner)
		}
	}

	entry.ID = id
	entry.applyDefaults()
	if r.Repos == nil {
		r.Repos = map[string]*RepoEntry{}
	}
	r.Repos[key] = &entry
	return nil
}

// Remove deletes the entry for id, if present.
func (r *Registry) Remove(id repoid.ID) {
	delete(r.Repos, id.String())
}

// Get returns the entry registered for id.
func (r *Registry) Get(id repoid.ID) (*RepoEntry, bool) {
	e, ok := r.Repos[id.String()]
	return e, ok
}

func (r *Registry) aliasOwner(alias string) (string, bool) {
	for key, entry := range r.Repos {
		for _, a := range entry.Aliases {
			if a == alias {
				return key, true
			}
		}
	}
	return "", false
}

// ResolutionKind tags the outcome of ResolveReference.
type ResolutionKind int

const (
	ResolutionNotFound ResolutionKind = iota
	ResolutionFound
	ResolutionAmbiguous
)

// Resolution is the result of resolving a user-supplied reference
// string to a registered Repo ID.
type Resolution struct {
	Kind      ResolutionKind
	ID        repoid.ID   // valid when Kind == ResolutionFound
	Candidates []repoid.ID // sorted, valid when Kind == ResolutionAmbiguous
}

// ResolveReference resolves ref to a Repo ID using, in order: exact
// key match, alias match, owner/repo fuzzy match (exactly two
// segments), then bare-name fuzzy match (no slash). Aliases take
// precedence over fuzzy matches; fuzzy layers are mutually exclusive
// by ref shape.
func (r *Registry) ResolveReference(ref string) Resolution {
	if entry, ok := r.Repos[ref]; ok {
		return Resolution{Kind: ResolutionFound, ID: entry.ID}
	}

	if owner, ok := r.aliasOwner(ref); ok {
		return Resolution{Kind: ResolutionFound, ID: r.Repos[owner].ID}
	}

	segs := splitRef(ref)
	var matches []repoid.ID

	switch {
	case len(segs) == 2:
		for _, entry := range r.Repos {
			all := entry.ID.Segments
			if len(all) >= 2 && all[len(all)-2] == segs[0] && all[len(all)-1] == segs[1] {
				matches = append(matches, entry.ID)
			}
		}
	case len(segs) == 1 && segs[0] != "":
		for _, entry := range r.Repos {
			if entry.ID.Name() == segs[0] {
				matches = append(matches, entry.ID)
			}
		}
	}

	switch len(matches) {
	case 0:
		return Resolution{Kind: ResolutionNotFound}
	case 1:
		return Resolution{Kind: ResolutionFound, ID: matches[0]}
	default:
		sort.Slice(matches, func(i, j int) bool { return matches[i].String() < matches[j].String() })
		return Resolution{Kind: ResolutionAmbiguous, Candidates: matches}
	}
}

// splitRef splits a reference string on "/" for fuzzy matching. A
// reference containing no slash yields a single-element slice; one
// with exactly one slash yields two elements; anything else (zero
// slashes handled above, more than one slash) falls outside both
// fuzzy layers and yields a slice that matches neither case.
func splitRef(ref string) []string {
	var segs []string
	start := 0
	for i := 0; i < len(ref); i++ {
		if ref[i] == '/' {
			segs = append(segs, ref[start:i])
			start = i + 1
		}
	}
	segs = append(segs, ref[start:])
	return segs
}
