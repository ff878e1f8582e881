// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package doctor diagnoses, and optionally fixes, drift between a
// wald workspace's recorded state (registry, baum descriptors) and
// what's actually on disk and in Git's own worktree registry.
package doctor

import (
	"context"
	"os"
	"path/filepath"

	"github.com/archmagece/wald/pkg/gitops"
	"github.com/archmagece/wald/pkg/manifest"
	"github.com/archmagece/wald/pkg/pathsafe"
	"github.com/archmagece/wald/pkg/workspace"
)

// Severity classifies an Issue.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// IssueKind tags which of the Health Check's classes an Issue belongs to.
type IssueKind int

const (
	IssueMissingStructuralFile IssueKind = iota
	IssueMissingBareClone
	IssueBaumUnregisteredRepo
	IssueMissingBareRepoForBaum
	IssueMissingWorktreeDir
	IssueWorktreeNotInRegistry
)

// Issue is one diagnosed problem, with enough context to render and,
// where Fixable, to resolve.
type Issue struct {
	Kind      IssueKind
	Severity  Severity
	Message   string
	Container string // empty when not baum-scoped
	RepoID    string // empty when not repo-scoped
	Fixable   bool

	fix func(ctx context.Context) error
}

// Fix applies the issue's remediation, if any. Issues with Fixable
// false return nil without doing anything.
func (i Issue) Fix(ctx context.Context) error {
	if i.fix == nil {
		return nil
	}
	return i.fix(ctx)
}

// Report is the result of a Run.
type Report struct {
	Issues []Issue
}

// HasErrors reports whether any issue in the report is an error (as
// opposed to a warning).
func (r Report) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Run diagnoses ws against git, returning every issue found across
// the six classes named in the health-check design.
func Run(ctx context.Context, ws *workspace.Workspace, git *gitops.Git) (*Report, error) {
	report := &Report{}

	report.Issues = append(report.Issues, checkStructuralFiles(ws)...)
	report.Issues = append(report.Issues, checkRegisteredRepos(ws, git)...)

	baums, err := ws.FindAllBaums()
	if err != nil {
		return nil, err
	}
	for _, b := range baums {
		report.Issues = append(report.Issues, checkBaum(ctx, ws, git, b)...)
	}

	return report, nil
}

func checkStructuralFiles(ws *workspace.Workspace) []Issue {
	var issues []Issue
	files := []string{
		manifest.RegistryPath(ws.StateDir()),
		manifest.ConfigPath(ws.StateDir()),
		manifest.StatePath(ws.StateDir()),
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			issues = append(issues, Issue{
				Kind:     IssueMissingStructuralFile,
				Severity: SeverityError,
				Message:  "missing workspace file: " + f,
			})
		}
	}
	return issues
}

func checkRegisteredRepos(ws *workspace.Workspace, git *gitops.Git) []Issue {
	var issues []Issue
	for key, entry := range ws.Registry.Repos {
		bareDir := filepath.Join(ws.ReposDir(), entry.ID.BarePath())
		if _, err := os.Stat(bareDir); err != nil {
			issues = append(issues, Issue{
				Kind:      IssueMissingBareClone,
				Severity:  SeverityWarning,
				Message:   "registered repo " + key + " has no bare clone at " + bareDir,
				RepoID:    key,
				Fixable:   false,
			})
		}
	}
	return issues
}

func checkBaum(ctx context.Context, ws *workspace.Workspace, git *gitops.Git, b workspace.PlantedBaum) []Issue {
	var issues []Issue

	entry, registered := ws.Registry.Get(b.Descriptor.RepoID)
	if !registered {
		issues = append(issues, Issue{
			Kind:      IssueBaumUnregisteredRepo,
			Severity:  SeverityWarning,
			Message:   "baum at " + b.Container + " references unregistered repo " + b.Descriptor.RepoID.String(),
			Container: b.Container,
		})
		return issues
	}

	bareDir := filepath.Join(ws.ReposDir(), entry.ID.BarePath())
	if _, err := os.Stat(bareDir); err != nil {
		issues = append(issues, Issue{
			Kind:      IssueMissingBareRepoForBaum,
			Severity:  SeverityError,
			Message:   "baum at " + b.Container + " has no bare repo at " + bareDir,
			Container: b.Container,
		})
		return issues
	}

	registeredPaths := map[string]bool{}
	if infos, err := git.ListWorktrees(ctx, bareDir); err == nil {
		for _, info := range infos {
			if canon, err := pathsafe.Canonicalize(info.Path); err == nil {
				registeredPaths[canon] = true
			}
		}
	}

	for _, wt := range b.Descriptor.Worktrees {
		worktreePath := filepath.Join(b.Container, wt.Path)
		gitMarker := filepath.Join(worktreePath, ".git")

		if _, err := os.Stat(gitMarker); err != nil {
			issues = append(issues, Issue{
				Kind:      IssueMissingWorktreeDir,
				Severity:  SeverityError,
				Message:   "worktree for " + wt.Branch + " missing or has no .git marker at " + worktreePath,
				Container: b.Container,
			})
			continue
		}

		canon, err := pathsafe.Canonicalize(worktreePath)
		if err != nil || !registeredPaths[canon] {
			wtPath := worktreePath
			issues = append(issues, Issue{
				Kind:      IssueWorktreeNotInRegistry,
				Severity:  SeverityWarning,
				Message:   "worktree for " + wt.Branch + " at " + worktreePath + " is not in Git's worktree registry",
				Container: b.Container,
				Fixable:   true,
				fix: func(ctx context.Context) error {
					return git.RepairWorktree(ctx, wtPath)
				},
			})
		}
	}

	return issues
}
