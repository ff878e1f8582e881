// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitops

import (
	"context"
	"fmt"

	werr "github.com/archmagece/wald/internal/errors"
)

// StageRename stages a container move in the outer (workspace-root)
// repository: `git add` the new path and `git rm --cached
// --ignore-unmatch` the old path, so the outer repo's index records a
// rename rather than a delete-then-add.
func (g *Git) StageRename(ctx context.Context, outerRoot, oldRelPath, newRelPath string) (bool, error) {
	if _, err := g.exec.Run(ctx, outerRoot, "add", newRelPath); err != nil {
		return false, werr.Contextf(err, "stage %s", newRelPath)
	}
	result, err := g.exec.Run(ctx, outerRoot, "rm", "--cached", "--ignore-unmatch", oldRelPath)
	if err != nil {
		return false, werr.Contextf(err, "unstage %s", oldRelPath)
	}
	return result.ExitCode == 0, nil
}

// IsDirty reports whether the outer repo at dir has any uncommitted
// changes, staged or unstaged.
func (g *Git) IsDirty(ctx context.Context, dir string) (bool, error) {
	out, err := g.exec.RunOutput(ctx, dir, "status", "--porcelain")
	if err != nil {
		return false, werr.Contextf(err, "check status in %s", dir)
	}
	return out != "", nil
}

// HEAD returns the current commit hash of the repo at dir.
func (g *Git) HEAD(ctx context.Context, dir string) (string, error) {
	out, err := g.exec.RunOutput(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", werr.Contextf(err, "resolve HEAD in %s", dir)
	}
	return out, nil
}

// PullRebase runs `git pull --rebase --quiet` in the outer repo at
// dir. If it fails because of divergent history and force is not
// set, it returns an error wrapping ErrMergeConflict with the raw
// stderr; callers distinguish divergence with errors.Is(err,
// ErrMergeConflict). Any other failure, or a divergence with force
// set, is returned as a plain error carrying the raw stderr.
func (g *Git) PullRebase(ctx context.Context, dir string, force bool) error {
	args := []string{"pull", "--rebase", "--quiet"}
	result, err := g.exec.Run(ctx, dir, args...)
	if err != nil {
		return werr.Contextf(err, "pull --rebase in %s", dir)
	}
	if result.ExitCode == 0 {
		return nil
	}
	if isDiverged(result.Stderr) && !force {
		return fmt.Errorf("%w: %s", werr.ErrMergeConflict, result.Stderr)
	}
	return fmt.Errorf("pull --rebase in %s: %s", dir, result.Stderr)
}

// Push runs `git push` in the outer repo at dir.
func (g *Git) Push(ctx context.Context, dir string) error {
	result, err := g.exec.Run(ctx, dir, "push")
	if err != nil {
		return werr.Contextf(err, "push in %s", dir)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("push in %s: %s", dir, result.Stderr)
	}
	return nil
}
