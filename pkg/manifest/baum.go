// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifest

import "github.com/archmagece/wald/pkg/repoid"

// WorktreeEntry is one worktree recorded in a baum descriptor.
type WorktreeEntry struct {
	Branch      string  `yaml:"branch"`
	Path        string  `yaml:"path"`
	LocalBranch *string `yaml:"local_branch,omitempty"`
}

// HasTrackingBranch reports whether this entry names a local tracking
// branch, as opposed to a legacy worktree checked out directly on the
// remote branch.
func (w WorktreeEntry) HasTrackingBranch() bool {
	return w.LocalBranch != nil && *w.LocalBranch != ""
}

// BaumDescriptor is the per-container manifest at
// <container>/.baum/manifest.yaml. ID is absent until the first
// mutation after planting assigns one.
type BaumDescriptor struct {
	ID        string          `yaml:"id,omitempty"`
	RepoID    repoid.ID       `yaml:"repo_id"`
	Worktrees []WorktreeEntry `yaml:"worktrees,omitempty"`
}

// HasID reports whether the baum has been assigned an ID.
func (d BaumDescriptor) HasID() bool {
	return d.ID != ""
}

// WorktreeForBranch returns the worktree entry for branch, if any.
func (d BaumDescriptor) WorktreeForBranch(branch string) (WorktreeEntry, bool) {
	for _, w := range d.Worktrees {
		if w.Branch == branch {
			return w, true
		}
	}
	return WorktreeEntry{}, false
}

// AddWorktree appends w, replacing any existing entry for the same
// branch (branches are unique within a baum).
func (d *BaumDescriptor) AddWorktree(w WorktreeEntry) {
	for i, existing := range d.Worktrees {
		if existing.Branch == w.Branch {
			d.Worktrees[i] = w
			return
		}
	}
	d.Worktrees = append(d.Worktrees, w)
}

// RemoveWorktree deletes the entry for branch, if present, reporting
// whether anything was removed.
func (d *BaumDescriptor) RemoveWorktree(branch string) bool {
	for i, w := range d.Worktrees {
		if w.Branch == branch {
			d.Worktrees = append(d.Worktrees[:i], d.Worktrees[i+1:]...)
			return true
		}
	}
	return false
}
