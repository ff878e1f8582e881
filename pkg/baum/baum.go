// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package baum implements the planted-container lifecycle: plant,
// uproot, move, branch, and prune. A baum is a directory holding one
// or more Git worktrees of a single registered repository, tracked by
// a descriptor at <container>/.baum/manifest.yaml.
package baum

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	werr "github.com/archmagece/wald/internal/errors"
	"github.com/archmagece/wald/pkg/gitignore"
	"github.com/archmagece/wald/pkg/gitops"
	"github.com/archmagece/wald/pkg/identity"
	"github.com/archmagece/wald/pkg/manifest"
	"github.com/archmagece/wald/pkg/naming"
	"github.com/archmagece/wald/pkg/pathsafe"
	"github.com/archmagece/wald/pkg/workspace"
)

// Manager drives baum operations against a workspace.
type Manager struct {
	WS  *workspace.Workspace
	Git *gitops.Git
}

// New returns a Manager bound to ws and git.
func New(ws *workspace.Workspace, git *gitops.Git) *Manager {
	return &Manager{WS: ws, Git: git}
}

// PlantOptions configures Plant.
type PlantOptions struct {
	// RepoRef is a user-supplied repository reference, resolved
	// through the workspace registry. When extending an existing
	// baum it may be empty (the descriptor's own Repo ID is used); a
	// non-empty reference that resolves to a different repository or
	// to none is an error, and an ambiguous one falls back to the
	// descriptor's Repo ID.
	RepoRef string
	// Branches is the set of logical branches to add. An empty slice
	// means "just the repo's default branch".
	Branches []string
	Mode     gitops.TrackingMode
}

// PlantResult reports what Plant did.
type PlantResult struct {
	Container  string
	Descriptor manifest.BaumDescriptor
	Added      []string // branches actually added this call
}

// Plant creates or extends a baum at container.
func (m *Manager) Plant(ctx context.Context, container string, opts PlantOptions) (*PlantResult, error) {
	if err := gitignore.EnsureWorkspaceSection(filepath.Join(m.WS.Root, ".gitignore")); err != nil {
		return nil, werr.Context(err, "ensure workspace gitignore section")
	}

	resolvedContainer, err := pathsafe.Validate(m.WS.Root, container)
	if err != nil {
		return nil, werr.Context(err, "validate container path")
	}

	descriptorPath := manifest.BaumDescriptorPath(resolvedContainer)
	var descriptor manifest.BaumDescriptor
	extending := false

	if _, statErr := os.Stat(descriptorPath); statErr == nil {
		descriptor, err = manifest.LoadBaumDescriptor(descriptorPath)
		if err != nil {
			return nil, werr.Context(err, "load existing baum descriptor")
		}
		extending = true

		if opts.RepoRef != "" {
			resolution := m.WS.Registry.ResolveReference(opts.RepoRef)
			switch resolution.Kind {
			case manifest.ResolutionFound:
				if !resolution.ID.Equal(descriptor.RepoID) {
					return nil, fmt.Errorf("%w: existing baum projects %s, not %s", werr.ErrAlreadyBaum, descriptor.RepoID, resolution.ID)
				}
			case manifest.ResolutionAmbiguous:
				// The baum's Repo ID is already known and verified; an
				// ambiguous reconfirmation reference doesn't choose a new
				// repo, so fall back to the descriptor instead of failing.
			default:
				return nil, resolutionError(resolution, opts.RepoRef)
			}
		}
	} else {
		resolution := m.WS.Registry.ResolveReference(opts.RepoRef)
		if resolution.Kind != manifest.ResolutionFound {
			return nil, resolutionError(resolution, opts.RepoRef)
		}
		descriptor = manifest.BaumDescriptor{RepoID: resolution.ID}
	}

	entry, ok := m.WS.Registry.Get(descriptor.RepoID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", werr.ErrRepoNotRegistered, descriptor.RepoID)
	}

	bareDir := filepath.Join(m.WS.ReposDir(), entry.ID.BarePath())
	if _, err := os.Stat(bareDir); err != nil {
		return nil, fmt.Errorf("bare clone for %s not found at %s; run repo add first", entry.ID, bareDir)
	}
	if m.Git.IsPartialClone(ctx, bareDir) {
		fmt.Fprintf(os.Stderr, "warning: %s is a partial clone\n", entry.ID)
	}

	branches := opts.Branches
	if len(branches) == 0 {
		def, err := m.Git.DefaultBranch(ctx, bareDir)
		if err != nil {
			return nil, werr.Context(err, "determine default branch")
		}
		branches = []string{def}
	}

	if extending {
		for _, b := range branches {
			if _, exists := descriptor.WorktreeForBranch(b); exists {
				return nil, fmt.Errorf("%w: %s", werr.ErrDuplicateBranch, b)
			}
		}
	}

	if !descriptor.HasID() {
		existingIDs, err := m.WS.CollectBaumIDs()
		if err != nil {
			return nil, werr.Context(err, "collect existing baum ids")
		}
		id, err := identity.New(existingIDs)
		if err != nil {
			return nil, werr.Context(err, "assign baum id")
		}
		descriptor.ID = id
	}

	added := make([]string, 0, len(branches))
	for _, branch := range branches {
		worktreeDirName := naming.WorktreeDirName(branch)
		worktreePath := filepath.Join(resolvedContainer, worktreeDirName)

		local, err := m.Git.AddWorktreeTracking(ctx, bareDir, worktreePath, branch, descriptor.ID, opts.Mode)
		if err != nil {
			return nil, werr.Contextf(err, "add worktree for branch %s", branch)
		}

		descriptor.AddWorktree(manifest.WorktreeEntry{
			Branch:      branch,
			Path:        worktreeDirName,
			LocalBranch: &local,
		})

		if err := gitignore.EnsureContainerEntry(filepath.Join(resolvedContainer, ".gitignore"), worktreeDirName); err != nil {
			return nil, werr.Contextf(err, "update container gitignore for %s", branch)
		}
		added = append(added, branch)
	}

	if err := manifest.SaveBaumDescriptor(descriptorPath, descriptor); err != nil {
		return nil, werr.Context(err, "save baum descriptor")
	}

	return &PlantResult{Container: resolvedContainer, Descriptor: descriptor, Added: added}, nil
}

func resolutionError(res manifest.Resolution, ref string) error {
	switch res.Kind {
	case manifest.ResolutionAmbiguous:
		names := make([]string, len(res.Candidates))
		for i, c := range res.Candidates {
			names[i] = c.String()
		}
		return fmt.Errorf("%w: %q matches %v", werr.ErrAmbiguous, ref, names)
	default:
		return fmt.Errorf("%w: %q", werr.ErrRepoNotRegistered, ref)
	}
}

// Branch adds a single worktree to an existing baum at container.
func (m *Manager) Branch(ctx context.Context, container, branch string, mode gitops.TrackingMode) (*PlantResult, error) {
	return m.Plant(ctx, container, PlantOptions{Branches: []string{branch}, Mode: mode})
}

// Uproot removes every worktree of the baum at container, then
// deletes the container directory. If force is set, individual
// worktree-removal failures are tolerated.
func (m *Manager) Uproot(ctx context.Context, container string, force bool) error {
	resolvedContainer, err := pathsafe.Validate(m.WS.Root, container)
	if err != nil {
		return werr.Context(err, "validate container path")
	}

	descriptorPath := manifest.BaumDescriptorPath(resolvedContainer)
	descriptor, err := manifest.LoadBaumDescriptor(descriptorPath)
	if err != nil {
		return werr.Context(err, "load baum descriptor")
	}

	entry, ok := m.WS.Registry.Get(descriptor.RepoID)
	if !ok {
		return fmt.Errorf("%w: %s", werr.ErrRepoNotRegistered, descriptor.RepoID)
	}
	bareDir := filepath.Join(m.WS.ReposDir(), entry.ID.BarePath())

	for _, wt := range descriptor.Worktrees {
		worktreePath := filepath.Join(resolvedContainer, wt.Path)
		if err := m.Git.RemoveWorktree(ctx, bareDir, worktreePath, force); err != nil {
			if !force {
				return werr.Contextf(err, "remove worktree %s", wt.Branch)
			}
		}
	}

	if err := os.RemoveAll(resolvedContainer); err != nil {
		return werr.Contextf(err, "remove container %s", resolvedContainer)
	}
	return nil
}

// Move relocates the baum at oldContainer to newContainer, using
// `git worktree move` for every worktree so Git's registry stays
// coherent, then moving the .baum directory and .gitignore.
func (m *Manager) Move(ctx context.Context, oldContainer, newContainer string) error {
	resolvedOld, err := pathsafe.Validate(m.WS.Root, oldContainer)
	if err != nil {
		return werr.Context(err, "validate source container path")
	}
	resolvedNew, err := pathsafe.Validate(m.WS.Root, newContainer)
	if err != nil {
		return werr.Context(err, "validate destination container path")
	}

	if _, err := os.Stat(resolvedNew); err == nil {
		return fmt.Errorf("%w: %s", werr.ErrDestinationExists, resolvedNew)
	}
	if err := os.MkdirAll(filepath.Dir(resolvedNew), 0o755); err != nil {
		return werr.Context(err, "create destination parent directory")
	}

	descriptorPath := manifest.BaumDescriptorPath(resolvedOld)
	descriptor, err := manifest.LoadBaumDescriptor(descriptorPath)
	if err != nil {
		return werr.Context(err, "load baum descriptor")
	}
	entry, ok := m.WS.Registry.Get(descriptor.RepoID)
	if !ok {
		return fmt.Errorf("%w: %s", werr.ErrRepoNotRegistered, descriptor.RepoID)
	}
	bareDir := filepath.Join(m.WS.ReposDir(), entry.ID.BarePath())

	if err := os.MkdirAll(resolvedNew, 0o755); err != nil {
		return werr.Context(err, "create destination container")
	}

	for _, wt := range descriptor.Worktrees {
		oldPath := filepath.Join(resolvedOld, wt.Path)
		newPath := filepath.Join(resolvedNew, wt.Path)
		if err := m.Git.MoveWorktree(ctx, bareDir, oldPath, newPath); err != nil {
			return werr.Contextf(err, "move worktree %s", wt.Branch)
		}
	}

	if err := moveIfExists(filepath.Join(resolvedOld, ".baum"), filepath.Join(resolvedNew, ".baum")); err != nil {
		return werr.Context(err, "move .baum directory")
	}
	if err := moveIfExists(filepath.Join(resolvedOld, ".gitignore"), filepath.Join(resolvedNew, ".gitignore")); err != nil {
		return werr.Context(err, "move container .gitignore")
	}

	if empty, _ := dirIsEmpty(resolvedOld); empty {
		_ = os.Remove(resolvedOld)
	}

	relOld, _ := filepath.Rel(m.WS.Root, resolvedOld)
	relNew, _ := filepath.Rel(m.WS.Root, resolvedNew)
	_, _ = m.Git.StageRename(ctx, m.WS.Root, relOld, relNew)

	return nil
}

func moveIfExists(oldPath, newPath string) error {
	if _, err := os.Stat(oldPath); os.IsNotExist(err) {
		return nil
	}
	return os.Rename(oldPath, newPath)
}

func dirIsEmpty(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// PruneBaum removes the listed branches' worktrees from the baum at
// container, tolerating a worktree directory that's already gone and
// falling back to filesystem removal if Git's own removal leaves the
// directory behind.
func (m *Manager) PruneBaum(ctx context.Context, container string, branches []string, force bool) error {
	resolvedContainer, err := pathsafe.Validate(m.WS.Root, container)
	if err != nil {
		return werr.Context(err, "validate container path")
	}

	descriptorPath := manifest.BaumDescriptorPath(resolvedContainer)
	descriptor, err := manifest.LoadBaumDescriptor(descriptorPath)
	if err != nil {
		return werr.Context(err, "load baum descriptor")
	}
	entry, ok := m.WS.Registry.Get(descriptor.RepoID)
	if !ok {
		return fmt.Errorf("%w: %s", werr.ErrRepoNotRegistered, descriptor.RepoID)
	}
	bareDir := filepath.Join(m.WS.ReposDir(), entry.ID.BarePath())

	for _, branch := range branches {
		wt, exists := descriptor.WorktreeForBranch(branch)
		if !exists {
			continue
		}
		worktreePath := filepath.Join(resolvedContainer, wt.Path)

		if _, statErr := os.Stat(worktreePath); statErr == nil {
			if err := m.Git.RemoveWorktree(ctx, bareDir, worktreePath, force); err != nil {
				if !force {
					return werr.Contextf(err, "remove worktree %s", branch)
				}
				_ = os.RemoveAll(worktreePath)
			}
		}
		if _, statErr := os.Stat(worktreePath); statErr == nil {
			// Git left the directory behind; finish the job.
			_ = os.RemoveAll(worktreePath)
		}

		descriptor.RemoveWorktree(branch)
	}

	return manifest.SaveBaumDescriptor(descriptorPath, descriptor)
}

// PruneWorkspaceResult reports the outcome of PruneWorkspaceBranches.
type PruneWorkspaceResult struct {
	Removed int
	Skipped int
}

// PruneWorkspaceBranches deletes every wald/<id>/<branch> tracking
// branch, across every registered repo's bare clone, whose (id,
// branch) pair is not referenced by any planted baum. Branches with
// unpushed commits are skipped (and warned about) unless force is
// set.
func (m *Manager) PruneWorkspaceBranches(ctx context.Context, force bool) (*PruneWorkspaceResult, error) {
	baums, err := m.WS.FindAllBaums()
	if err != nil {
		return nil, werr.Context(err, "find planted baums")
	}

	inUse := map[[2]string]bool{}
	for _, b := range baums {
		if !b.Descriptor.HasID() {
			continue
		}
		for _, wt := range b.Descriptor.Worktrees {
			inUse[[2]string{b.Descriptor.ID, wt.Branch}] = true
		}
	}

	result := &PruneWorkspaceResult{}
	for _, entry := range m.WS.Registry.Repos {
		bareDir := filepath.Join(m.WS.ReposDir(), entry.ID.BarePath())
		if _, err := os.Stat(bareDir); err != nil {
			continue
		}

		branches, err := m.Git.ListWaldBranches(ctx, bareDir)
		if err != nil {
			return nil, werr.Contextf(err, "list wald branches in %s", entry.ID)
		}

		for _, branch := range branches {
			id, rest, ok := identity.ParseTrackingBranch(branch)
			if !ok || inUse[[2]string{id, rest}] {
				continue
			}

			if !force {
				unpushed, err := m.Git.HasUnpushedCommits(ctx, bareDir, branch)
				if err != nil {
					return nil, werr.Contextf(err, "check unpushed commits on %s", branch)
				}
				if unpushed {
					fmt.Fprintf(os.Stderr, "warning: skipping %s: has unpushed commits\n", branch)
					result.Skipped++
					continue
				}
			}

			if err := m.Git.DeleteBranch(ctx, bareDir, branch, force); err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not delete %s: %v\n", branch, err)
				result.Skipped++
				continue
			}
			result.Removed++
		}
	}

	return result, nil
}

