// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package gitops implements wald's narrow, typed surface over the
// Git plumbing: bare clones, fetches, worktree management, branch
// bookkeeping, and rename detection between two commits. It is built
// on top of internal/gitcmd's sanitizing executor.
package gitops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/archmagece/wald/internal/gitcmd"
	werr "github.com/archmagece/wald/internal/errors"
	"github.com/archmagece/wald/pkg/manifest"
)

// Git wraps a gitcmd.Executor with wald's domain operations.
type Git struct {
	exec *gitcmd.Executor
}

// New returns a Git bound to the given executor. A nil executor uses
// gitcmd defaults.
func New(exec *gitcmd.Executor) *Git {
	if exec == nil {
		exec = gitcmd.NewExecutor()
	}
	return &Git{exec: exec}
}

// CloneOptions configures BareClone.
type CloneOptions struct {
	Depth  manifest.Depth
	Filter manifest.CloneFilter
}

// BareClone clones url as a bare repository at target, honouring
// depth and filter options. It fails if target already exists, and
// creates target's parent directories.
func (g *Git) BareClone(ctx context.Context, url, target string, opts CloneOptions) error {
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("clone target %s already exists", target)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return werr.Contextf(err, "create parent of %s", target)
	}

	args := []string{"clone", "--bare"}
	if !opts.Depth.Full && opts.Depth.Value > 0 {
		args = append(args, "--depth", fmt.Sprint(opts.Depth.Value))
	}
	if flag := opts.Filter.GitFlag(); flag != "" {
		args = append(args, "--filter="+flag)
	}
	args = append(args, url, target)

	result, err := g.exec.Run(ctx, "", args...)
	if err != nil {
		return werr.Contextf(err, "clone %s", url)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("clone %s: %s", url, result.Stderr)
	}

	// A --bare clone copies the remote's branches directly into
	// refs/heads/* and sets up no remote-tracking branches. wald's
	// worktree-add algorithm needs origin/<branch> to exist, so
	// reconfigure the fetch refspec and populate refs/remotes/origin/*.
	if _, err := g.exec.Run(ctx, target, "config", "remote.origin.fetch", "+refs/heads/*:refs/remotes/origin/*"); err != nil {
		return werr.Contextf(err, "configure remote-tracking refspec in %s", target)
	}
	if err := g.Fetch(ctx, target); err != nil {
		return werr.Contextf(err, "populate remote-tracking branches in %s", target)
	}
	return nil
}

// Fetch runs a full fetch-and-prune in the bare repo at dir.
func (g *Git) Fetch(ctx context.Context, dir string) error {
	result, err := g.exec.Run(ctx, dir, "fetch", "--all", "--prune")
	if err != nil {
		return werr.Contextf(err, "fetch in %s", dir)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("fetch in %s: %s", dir, result.Stderr)
	}
	return nil
}

// IsPartialClone reports whether the bare repo at dir was cloned with
// a promisor filter, by reading remote.origin.promisor.
func (g *Git) IsPartialClone(ctx context.Context, dir string) bool {
	out, err := g.exec.RunOutput(ctx, dir, "config", "--get", "remote.origin.promisor")
	return err == nil && strings.TrimSpace(out) == "true"
}

// ConvertToFull unsets the promisor and partial-filter configuration
// on the bare repo at dir, then refetches everything.
func (g *Git) ConvertToFull(ctx context.Context, dir string) error {
	// Unset failures are tolerated: the keys may simply be absent.
	_, _ = g.exec.Run(ctx, dir, "config", "--unset", "remote.origin.promisor")
	_, _ = g.exec.Run(ctx, dir, "config", "--unset", "remote.origin.partialclonefilter")

	result, err := g.exec.Run(ctx, dir, "fetch", "--all", "--prune", "--refetch")
	if err != nil {
		return werr.Contextf(err, "refetch in %s", dir)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("refetch in %s: %s", dir, result.Stderr)
	}
	return nil
}

// GC runs garbage collection in the bare repo at dir.
func (g *Git) GC(ctx context.Context, dir string, aggressive bool) error {
	args := []string{"gc"}
	if aggressive {
		args = append(args, "--aggressive")
	}
	result, err := g.exec.Run(ctx, dir, args...)
	if err != nil {
		return werr.Contextf(err, "gc in %s", dir)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("gc in %s: %s", dir, result.Stderr)
	}
	return nil
}

// ListBranches returns the union of local branches and remote
// branches (with the "origin/" prefix stripped), deduplicated.
func (g *Git) ListBranches(ctx context.Context, dir string) ([]string, error) {
	set := map[string]bool{}

	local, err := g.exec.RunLines(ctx, dir, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, werr.Contextf(err, "list local branches in %s", dir)
	}
	for _, b := range local {
		set[b] = true
	}

	remote, err := g.exec.RunLines(ctx, dir, "branch", "-r", "--format=%(refname:short)")
	if err != nil {
		return nil, werr.Contextf(err, "list remote branches in %s", dir)
	}
	for _, b := range remote {
		b = strings.TrimPrefix(b, "origin/")
		if b == "HEAD" || strings.Contains(b, "HEAD ->") {
			continue
		}
		set[b] = true
	}

	out := make([]string, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	return out, nil
}

// DefaultBranch reads the bare repo's symbolic HEAD; if that fails,
// it probes "main" then "master" for existence.
func (g *Git) DefaultBranch(ctx context.Context, dir string) (string, error) {
	out, err := g.exec.RunOutput(ctx, dir, "symbolic-ref", "--short", "HEAD")
	if err == nil && out != "" {
		return out, nil
	}

	for _, candidate := range []string{"main", "master"} {
		ok, _ := g.exec.RunQuiet(ctx, dir, "show-ref", "--verify", "--quiet", "refs/heads/"+candidate)
		if ok {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no default branch found in %s", dir)
}
