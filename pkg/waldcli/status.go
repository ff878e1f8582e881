// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"context"
	"path/filepath"

	"github.com/archmagece/wald/pkg/doctor"
	"github.com/archmagece/wald/pkg/gitops"
	"github.com/archmagece/wald/pkg/waldcli/tui"
	"github.com/archmagece/wald/pkg/workspace"
)

// collectStatusRows walks every planted baum and reports the dirty
// and unpushed state of each of its worktrees, cross-referencing
// doctor's findings so issues surface in the same listing.
func collectStatusRows(ctx context.Context, ws *workspace.Workspace, git *gitops.Git) ([]tui.Row, error) {
	baums, err := ws.FindAllBaums()
	if err != nil {
		return nil, err
	}

	issues := map[string]string{}
	if report, err := doctor.Run(ctx, ws, git); err == nil {
		for _, issue := range report.Issues {
			if issue.Container != "" {
				issues[issue.Container] = issue.Message
			}
		}
	}

	var rows []tui.Row
	for _, b := range baums {
		entry, ok := ws.Registry.Get(b.Descriptor.RepoID)
		bareDir := ""
		if ok {
			bareDir = filepath.Join(ws.ReposDir(), entry.ID.BarePath())
		}

		for _, wt := range b.Descriptor.Worktrees {
			path := filepath.Join(b.Container, wt.Path)
			row := tui.Row{
				Container: b.Container,
				RepoID:    b.Descriptor.RepoID.String(),
				Branch:    wt.Branch,
				Path:      path,
				Issue:     issues[b.Container],
			}

			if dirty, derr := git.IsDirty(ctx, path); derr == nil {
				row.Dirty = dirty
			}
			if bareDir != "" && wt.HasTrackingBranch() {
				if unpushed, uerr := git.HasUnpushedCommits(ctx, bareDir, *wt.LocalBranch); uerr == nil {
					row.Unpushed = unpushed
				}
			}

			rows = append(rows, row)
		}
	}

	return rows, nil
}
