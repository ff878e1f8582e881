// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package doctor

import (
	"context"
	"path/filepath"

	"github.com/archmagece/wald/pkg/forge"
	"github.com/archmagece/wald/pkg/gitops"
	"github.com/archmagece/wald/pkg/workspace"
)

// IssueDefaultBranchDrift flags a registered repository whose forge-
// reported default branch no longer matches its bare clone's current
// default branch.
const IssueDefaultBranchDrift IssueKind = iota + 100

// CheckForgeDrift queries each registered repository's forge API and
// reports any whose default branch has moved since it was cloned.
// Unlike Run's checks, this one calls out to the network and is only
// run when explicitly requested (doctor --forge): a repository whose
// forge lookup fails (no token, rate-limited, self-hosted without a
// base URL) is silently skipped rather than reported as an issue.
func CheckForgeDrift(ctx context.Context, ws *workspace.Workspace, git *gitops.Git, cfg forge.Config) []Issue {
	var issues []Issue

	for key, entry := range ws.Registry.Repos {
		lookup, err := forge.Resolve(ctx, cfg, entry.ID)
		if err != nil || lookup.DefaultBranch == "" {
			continue
		}

		bareDir := filepath.Join(ws.ReposDir(), entry.ID.BarePath())
		current, err := git.DefaultBranch(ctx, bareDir)
		if err != nil || current == lookup.DefaultBranch {
			continue
		}

		issues = append(issues, Issue{
			Kind:     IssueDefaultBranchDrift,
			Severity: SeverityWarning,
			Message:  "registered repo " + key + " default branch is " + current + " locally but forge reports " + lookup.DefaultBranch,
			RepoID:   key,
		})
	}

	return issues
}
