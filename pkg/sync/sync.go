// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package sync implements the engine that keeps planted baums
// consistent with moves made to the outer (workspace-root) repository
// on other machines: it pulls, detects container renames via Git's
// own rename detection, and replays them as worktree moves.
package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	werr "github.com/archmagece/wald/internal/errors"
	"github.com/archmagece/wald/pkg/baum"
	"github.com/archmagece/wald/pkg/gitops"
	"github.com/archmagece/wald/pkg/manifest"
	"github.com/archmagece/wald/pkg/workspace"
)

// Options configures Run.
type Options struct {
	Push   bool
	Force  bool // passed through to the outer pull: a divergence is reported as the raw git error
	DryRun bool
}

// ReplayAction tags what Run did for one detected container move.
type ReplayAction int

const (
	ActionNoop ReplayAction = iota
	ActionMoved
	ActionConflict
	ActionNotABaum
)

// ReplayOutcome records what happened to one detected move.
type ReplayOutcome struct {
	Move   gitops.Move
	Action ReplayAction
	Err    error
}

// Result summarises a sync run.
type Result struct {
	Before, After string
	Pushed        bool
	Outcomes      []ReplayOutcome
}

// Run executes the sync algorithm against ws: reject on a dirty outer
// tree, pull --rebase, compute the move set since the last sync (or
// since before this pull if there was none), replay each detected
// container rename, optionally push, and persist the new sync state
// (never in dry-run).
func Run(ctx context.Context, ws *workspace.Workspace, git *gitops.Git, opts Options) (*Result, error) {
	dirty, err := git.IsDirty(ctx, ws.Root)
	if err != nil {
		return nil, werr.Context(err, "check outer repo status")
	}
	if dirty {
		return nil, fmt.Errorf("%w: commit or stash changes before syncing", werr.ErrDirtyWorkingTree)
	}

	before, err := git.HEAD(ctx, ws.Root)
	if err != nil {
		return nil, werr.Context(err, "record HEAD before pull")
	}

	if err := git.PullRebase(ctx, ws.Root, opts.Force); err != nil {
		return nil, werr.Context(err, "pull outer repo")
	}

	after, err := git.HEAD(ctx, ws.Root)
	if err != nil {
		return nil, werr.Context(err, "record HEAD after pull")
	}

	result := &Result{Before: before, After: after}

	if before == after {
		return finish(ctx, ws, git, result, opts)
	}

	from := ws.State.LastSyncedCommit
	if from == "" {
		from = before
	}

	moves, err := git.DetectMoves(ctx, ws.Root, from, after)
	if err != nil {
		return nil, werr.Context(err, "detect container moves")
	}

	baumMgr := baum.New(ws, git)
	for _, move := range moves {
		outcome := replay(ctx, ws, baumMgr, move)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return finish(ctx, ws, git, result, opts)
}

func finish(ctx context.Context, ws *workspace.Workspace, git *gitops.Git, result *Result, opts Options) (*Result, error) {
	if opts.Push {
		if err := git.Push(ctx, ws.Root); err != nil {
			return result, werr.Context(err, "push outer repo")
		}
		result.Pushed = true
	}

	if !opts.DryRun {
		ws.State = manifest.SyncState{LastSyncedCommit: result.After}
		if err := manifest.SaveSyncState(manifest.StatePath(ws.StateDir()), ws.State); err != nil {
			return result, werr.Context(err, "persist sync state")
		}
	}

	return result, nil
}

// replay applies the decision table from the Sync Engine design:
// given a detected (old, new) container rename, moves worktrees to
// follow it if the old side is (or was) a baum, skips with a warning
// on a hard conflict, and does nothing when the new side is already
// in place.
func replay(ctx context.Context, ws *workspace.Workspace, baumMgr *baum.Manager, move gitops.Move) ReplayOutcome {
	oldAbs := filepath.Join(ws.Root, move.OldContainer)
	newAbs := filepath.Join(ws.Root, move.NewContainer)
	oldExists := dirExists(oldAbs)
	newExists := dirExists(newAbs)
	oldIsBaum := fileExists(manifest.BaumDescriptorPath(oldAbs))
	newIsBaum := fileExists(manifest.BaumDescriptorPath(newAbs))

	switch {
	case !oldExists && newExists && newIsBaum:
		return ReplayOutcome{Move: move, Action: ActionNoop}

	case oldExists && !newExists && oldIsBaum:
		if err := baumMgr.Move(ctx, move.OldContainer, move.NewContainer); err != nil {
			return ReplayOutcome{Move: move, Action: ActionConflict, Err: err}
		}
		return ReplayOutcome{Move: move, Action: ActionMoved}

	case oldExists && newExists && !oldIsBaum && newIsBaum:
		if err := moveWorktreesOnly(ctx, ws, baumMgr, move); err != nil {
			return ReplayOutcome{Move: move, Action: ActionConflict, Err: err}
		}
		return ReplayOutcome{Move: move, Action: ActionMoved}

	case oldExists && newExists && oldIsBaum && newIsBaum:
		fmt.Fprintf(os.Stderr, "warning: both %s and %s are baums; skipping replay\n", move.OldContainer, move.NewContainer)
		return ReplayOutcome{Move: move, Action: ActionConflict, Err: fmt.Errorf("hard conflict: both %s and %s are baums", move.OldContainer, move.NewContainer)}

	case oldExists && !newExists && !oldIsBaum:
		fmt.Fprintf(os.Stderr, "warning: %s is not a baum; skipping replay\n", move.OldContainer)
		return ReplayOutcome{Move: move, Action: ActionNotABaum}

	default:
		return ReplayOutcome{Move: move, Action: ActionNoop}
	}
}

// moveWorktreesOnly handles the case where the outer repo's rename
// already landed the .baum descriptor at the new path (Git moved the
// tracked file), but the gitignored worktree directories were left
// behind at the old path, since Git never tracks them.
func moveWorktreesOnly(ctx context.Context, ws *workspace.Workspace, baumMgr *baum.Manager, move gitops.Move) error {
	oldAbs := filepath.Join(ws.Root, move.OldContainer)
	newAbs := filepath.Join(ws.Root, move.NewContainer)

	descriptor, err := manifest.LoadBaumDescriptor(manifest.BaumDescriptorPath(newAbs))
	if err != nil {
		return werr.Context(err, "load descriptor at new container path")
	}
	entry, ok := ws.Registry.Get(descriptor.RepoID)
	if !ok {
		return fmt.Errorf("repo %s referenced by moved baum is not registered", descriptor.RepoID)
	}
	bareDir := filepath.Join(ws.ReposDir(), entry.ID.BarePath())

	for _, wt := range descriptor.Worktrees {
		oldPath := filepath.Join(oldAbs, wt.Path)
		newPath := filepath.Join(newAbs, wt.Path)
		if err := baumMgr.Git.MoveWorktree(ctx, bareDir, oldPath, newPath); err != nil {
			return werr.Contextf(err, "move worktree %s", wt.Branch)
		}
	}

	if remaining, _ := os.ReadDir(oldAbs); len(remaining) == 0 {
		_ = os.Remove(oldAbs)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
