// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitops

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/archmagece/wald/internal/testutil"
)

func TestAddWorktreeTrackingCreatesLocalBranch(t *testing.T) {
	bare := testutil.TempBareRepo(t)
	git := New(nil)
	ctx := context.Background()

	worktreePath := filepath.Join(t.TempDir(), "_main.wt")
	local, err := git.AddWorktreeTracking(ctx, bare, worktreePath, "main", "abc123", ModeDefault)
	if err != nil {
		t.Fatalf("AddWorktreeTracking: %v", err)
	}
	if local != "wald/abc123/main" {
		t.Errorf("local = %q, want wald/abc123/main", local)
	}

	infos, err := git.ListWorktrees(ctx, bare)
	if err != nil {
		t.Fatalf("ListWorktrees: %v", err)
	}
	found := false
	for _, info := range infos {
		if info.Branch == local {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a worktree on branch %s, got %+v", local, infos)
	}
}

func TestAddWorktreeTrackingReuseMode(t *testing.T) {
	bare := testutil.TempBareRepo(t)
	git := New(nil)
	ctx := context.Background()

	first := filepath.Join(t.TempDir(), "_main.wt")
	if _, err := git.AddWorktreeTracking(ctx, bare, first, "main", "abc123", ModeDefault); err != nil {
		t.Fatalf("first AddWorktreeTracking: %v", err)
	}
	if err := git.RemoveWorktree(ctx, bare, first, false); err != nil {
		t.Fatalf("RemoveWorktree: %v", err)
	}

	second := filepath.Join(t.TempDir(), "_main2.wt")
	local, err := git.AddWorktreeTracking(ctx, bare, second, "main", "abc123", ModeReuse)
	if err != nil {
		t.Fatalf("reuse AddWorktreeTracking: %v", err)
	}
	if local != "wald/abc123/main" {
		t.Errorf("local = %q, want wald/abc123/main", local)
	}
}

func TestDefaultBranchFromSymbolicHead(t *testing.T) {
	bare := testutil.TempBareRepo(t)
	git := New(nil)

	branch, err := git.DefaultBranch(context.Background(), bare)
	if err != nil {
		t.Fatalf("DefaultBranch: %v", err)
	}
	if branch != "main" {
		t.Errorf("DefaultBranch = %q, want main", branch)
	}
}

func TestListBranchesDedupesLocalAndRemote(t *testing.T) {
	bare := testutil.TempBareRepo(t)
	git := New(nil)
	ctx := context.Background()

	branches, err := git.ListBranches(ctx, bare)
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	if len(branches) == 0 {
		t.Fatal("expected at least one branch")
	}
}

func TestHasUnpushedCommitsNoUpstream(t *testing.T) {
	bare := testutil.TempBareRepo(t)
	git := New(nil)
	ctx := context.Background()

	unpushed, err := git.HasUnpushedCommits(ctx, bare, "main")
	if err != nil {
		t.Fatalf("HasUnpushedCommits: %v", err)
	}
	if unpushed {
		t.Error("branch with no upstream configured should not be unpushed")
	}
}

func TestListWaldBranchesAndDeleteBranch(t *testing.T) {
	bare := testutil.TempBareRepo(t)
	git := New(nil)
	ctx := context.Background()

	worktreePath := filepath.Join(t.TempDir(), "_main.wt")
	if _, err := git.AddWorktreeTracking(ctx, bare, worktreePath, "main", "abc123", ModeDefault); err != nil {
		t.Fatalf("AddWorktreeTracking: %v", err)
	}
	if err := git.RemoveWorktree(ctx, bare, worktreePath, false); err != nil {
		t.Fatalf("RemoveWorktree: %v", err)
	}

	branches, err := git.ListWaldBranches(ctx, bare)
	if err != nil {
		t.Fatalf("ListWaldBranches: %v", err)
	}
	if len(branches) != 1 || branches[0] != "wald/abc123/main" {
		t.Fatalf("ListWaldBranches = %v, want [wald/abc123/main]", branches)
	}

	if err := git.DeleteBranch(ctx, bare, branches[0], false); err != nil {
		t.Fatalf("DeleteBranch: %v", err)
	}

	branches, err = git.ListWaldBranches(ctx, bare)
	if err != nil {
		t.Fatalf("ListWaldBranches after delete: %v", err)
	}
	if len(branches) != 0 {
		t.Errorf("expected no wald branches after delete, got %v", branches)
	}
}
