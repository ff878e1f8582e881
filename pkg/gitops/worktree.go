// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitops

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	werr "github.com/archmagece/wald/internal/errors"
	"github.com/archmagece/wald/internal/parser"
	"github.com/archmagece/wald/pkg/identity"
)

// TrackingMode controls how AddWorktreeTracking handles an existing
// local tracking branch.
type TrackingMode int

const (
	// ModeDefault fails on unpushed commits, otherwise overwrites.
	ModeDefault TrackingMode = iota
	// ModeForce always deletes and recreates the local branch.
	ModeForce
	// ModeReuse reuses the existing local branch if it has no
	// unpushed commits, failing otherwise.
	ModeReuse
)

// AddWorktreeTracking implements the tracking-mode worktree-add
// algorithm: it creates or reuses a local tracking branch
// wald/<baumID>/<branch> pointed at origin/<branch>, adds a worktree
// checking it out at worktreePath, and returns the local branch name.
func (g *Git) AddWorktreeTracking(ctx context.Context, bare, worktreePath, branch, baumID string, mode TrackingMode) (string, error) {
	local := identity.FormatTrackingBranch(baumID, branch)
	remote := "origin/" + branch

	exists, err := g.branchExists(ctx, bare, local)
	if err != nil {
		return "", err
	}

	if exists {
		switch mode {
		case ModeForce:
			if _, err := g.exec.Run(ctx, bare, "branch", "-D", local); err != nil {
				return "", werr.Contextf(err, "force-delete %s", local)
			}
		case ModeReuse:
			unpushed, err := g.HasUnpushedCommits(ctx, bare, local)
			if err != nil {
				return "", err
			}
			if unpushed {
				return "", fmt.Errorf("%w: %s has unpushed commits; push them or use force mode", werr.ErrUnpushedCommits, local)
			}
			if err := g.addWorktree(ctx, bare, worktreePath, local); err != nil {
				return "", err
			}
			return local, nil
		default: // ModeDefault
			unpushed, err := g.HasUnpushedCommits(ctx, bare, local)
			if err != nil {
				return "", err
			}
			if unpushed {
				return "", fmt.Errorf("%w: %s has unpushed commits; push them, or pass --force to overwrite, or --reuse to keep it", werr.ErrUnpushedCommits, local)
			}
			// Fall through to overwrite below.
		}
	}

	if err := g.createOrMoveBranch(ctx, bare, local, remote); err != nil {
		return "", err
	}

	// Best-effort upstream tracking; failure is non-fatal.
	_, _ = g.exec.Run(ctx, bare, "branch", "--set-upstream-to="+remote, local)

	if err := g.addWorktree(ctx, bare, worktreePath, local); err != nil {
		return "", err
	}
	return local, nil
}

func (g *Git) branchExists(ctx context.Context, bare, branch string) (bool, error) {
	ok, err := g.exec.RunQuiet(ctx, bare, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	if err != nil {
		return false, werr.Contextf(err, "check branch %s", branch)
	}
	return ok, nil
}

// createOrMoveBranch force-creates local pointing at remote. If
// remote does not exist, it retries creating local from HEAD.
func (g *Git) createOrMoveBranch(ctx context.Context, bare, local, remote string) error {
	result, err := g.exec.Run(ctx, bare, "branch", "-f", local, remote)
	if err == nil && result.ExitCode == 0 {
		return nil
	}
	if err != nil {
		return werr.Contextf(err, "create branch %s", local)
	}
	if !isMissingRef(result.Stderr) {
		return fmt.Errorf("create branch %s from %s: %s", local, remote, result.Stderr)
	}

	result, err = g.exec.Run(ctx, bare, "branch", "-f", local, "HEAD")
	if err != nil {
		return werr.Contextf(err, "create branch %s from HEAD", local)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("create branch %s from HEAD: %s", local, result.Stderr)
	}
	return nil
}

func (g *Git) addWorktree(ctx context.Context, bare, worktreePath, branch string) error {
	result, err := g.exec.Run(ctx, bare, "worktree", "add", worktreePath, branch)
	if err != nil {
		return werr.Contextf(err, "add worktree at %s", worktreePath)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("add worktree at %s: %s", worktreePath, result.Stderr)
	}
	return nil
}

// HasUnpushedCommits reports whether branch has commits not present
// on its upstream. A branch with no configured upstream is never
// considered unpushed. Any other error is treated conservatively as
// unpushed.
func (g *Git) HasUnpushedCommits(ctx context.Context, bare, branch string) (bool, error) {
	upstream, err := g.exec.RunOutput(ctx, bare, "rev-parse", "--abbrev-ref", branch+"@{upstream}")
	if err != nil || upstream == "" {
		return false, nil
	}

	out, err := g.exec.RunOutput(ctx, bare, "rev-list", "--count", upstream+".."+branch)
	if err != nil {
		return true, nil
	}
	count, convErr := strconv.Atoi(strings.TrimSpace(out))
	if convErr != nil {
		return true, nil
	}
	return count > 0, nil
}

// RemoveWorktree removes the worktree at path, optionally forcing
// through a dirty or locked state.
func (g *Git) RemoveWorktree(ctx context.Context, bare, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)

	result, err := g.exec.Run(ctx, bare, args...)
	if err != nil {
		return werr.Contextf(err, "remove worktree %s", path)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("remove worktree %s: %s", path, result.Stderr)
	}
	return nil
}

// WorktreeInfo is one record from `git worktree list --porcelain`.
type WorktreeInfo struct {
	Path     string
	HEAD     string
	Branch   string // refs/heads/ prefix stripped; empty if detached
	Bare     bool
	Detached bool
	Locked   bool
	Prunable bool
}

// ListWorktrees parses `git worktree list --porcelain` into records.
func (g *Git) ListWorktrees(ctx context.Context, bare string) ([]WorktreeInfo, error) {
	out, err := g.exec.RunOutput(ctx, bare, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, werr.Contextf(err, "list worktrees in %s", bare)
	}
	return parseWorktreeList(out), nil
}

func parseWorktreeList(output string) []WorktreeInfo {
	var infos []WorktreeInfo
	var cur *WorktreeInfo

	flush := func() {
		if cur != nil {
			infos = append(infos, *cur)
			cur = nil
		}
	}

	for _, line := range parser.SplitLines(output) {
		if parser.IsEmptyLine(line) {
			flush()
			continue
		}
		if cur == nil {
			cur = &WorktreeInfo{}
		}

		switch {
		case strings.HasPrefix(line, "worktree "):
			cur.Path = parser.TrimPrefix(line, "worktree")
		case strings.HasPrefix(line, "HEAD "):
			cur.HEAD = parser.TrimPrefix(line, "HEAD")
		case strings.HasPrefix(line, "branch "):
			cur.Branch = strings.TrimPrefix(parser.TrimPrefix(line, "branch"), "refs/heads/")
		case line == "bare":
			cur.Bare = true
		case line == "detached":
			cur.Detached = true
		case strings.HasPrefix(line, "locked"):
			cur.Locked = true
		case strings.HasPrefix(line, "prunable"):
			cur.Prunable = true
		}
	}
	flush() // handle a trailing record with no terminating blank line

	return infos
}

// MoveWorktree moves the worktree from oldPath to newPath, keeping
// Git's worktree registry coherent.
func (g *Git) MoveWorktree(ctx context.Context, bare, oldPath, newPath string) error {
	result, err := g.exec.Run(ctx, bare, "worktree", "move", oldPath, newPath)
	if err != nil {
		return werr.Contextf(err, "move worktree %s to %s", oldPath, newPath)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("move worktree %s to %s: %s", oldPath, newPath, result.Stderr)
	}
	return nil
}

// PruneWorktrees prunes stale worktree administrative entries.
func (g *Git) PruneWorktrees(ctx context.Context, bare string) error {
	result, err := g.exec.Run(ctx, bare, "worktree", "prune")
	if err != nil {
		return werr.Contextf(err, "prune worktrees in %s", bare)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("prune worktrees in %s: %s", bare, result.Stderr)
	}
	return nil
}

// RepairWorktree runs `git worktree repair` from inside worktreeDir,
// fixing both a stale administrative path and a missing registry
// entry.
func (g *Git) RepairWorktree(ctx context.Context, worktreeDir string) error {
	result, err := g.exec.Run(ctx, worktreeDir, "worktree", "repair")
	if err != nil {
		return werr.Contextf(err, "repair worktree %s", worktreeDir)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("repair worktree %s: %s", worktreeDir, result.Stderr)
	}
	return nil
}

// DeleteBranch deletes branch in the bare repo at bare, using -D if
// force is set, -d otherwise.
func (g *Git) DeleteBranch(ctx context.Context, bare, branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	result, err := g.exec.Run(ctx, bare, "branch", flag, branch)
	if err != nil {
		return werr.Contextf(err, "delete branch %s", branch)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("delete branch %s: %s", branch, result.Stderr)
	}
	return nil
}

// ListWaldBranches lists local branches under the wald/ namespace.
func (g *Git) ListWaldBranches(ctx context.Context, bare string) ([]string, error) {
	lines, err := g.exec.RunLines(ctx, bare, "branch", "--list", "wald/*", "--format=%(refname:short)")
	if err != nil {
		return nil, werr.Contextf(err, "list wald branches in %s", bare)
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out, nil
}

// isMissingRef reports whether stderr indicates Git could not
// resolve a reference — the trigger for the HEAD-fallback retry in
// createOrMoveBranch.
func isMissingRef(stderr string) bool {
	return strings.Contains(stderr, "not a valid object name") ||
		strings.Contains(stderr, "unknown revision") ||
		strings.Contains(stderr, "not a valid ref")
}

// isDiverged reports whether stderr indicates a rebase/pull failed
// because local and remote history diverged.
func isDiverged(stderr string) bool {
	return strings.Contains(stderr, "diverged") ||
		strings.Contains(stderr, "divergent branches") ||
		strings.Contains(stderr, "Need to specify how to reconcile") ||
		strings.Contains(stderr, "not possible to fast-forward")
}
