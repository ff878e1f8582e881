// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package sync

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/archmagece/wald/pkg/baum"
	"github.com/archmagece/wald/pkg/gitops"
	"github.com/archmagece/wald/pkg/manifest"
	"github.com/archmagece/wald/pkg/repoid"
	"github.com/archmagece/wald/pkg/workspace"
)

func writeDescriptor(t *testing.T, container string) {
	t.Helper()
	id, err := repoid.Parse("example.com/acme/widgets")
	if err != nil {
		t.Fatalf("repoid.Parse: %v", err)
	}
	d := manifest.BaumDescriptor{ID: "abc123", RepoID: id}
	if err := manifest.SaveBaumDescriptor(manifest.BaumDescriptorPath(container), d); err != nil {
		t.Fatalf("SaveBaumDescriptor: %v", err)
	}
}

func newTestWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	root := t.TempDir()
	ws, err := workspace.Init(root, false)
	if err != nil {
		t.Fatalf("workspace.Init: %v", err)
	}
	return ws
}

func TestReplayNoopWhenDestinationAlreadyABaum(t *testing.T) {
	ws := newTestWorkspace(t)
	baumMgr := baum.New(ws, gitops.New(nil))

	newContainer := filepath.Join(ws.Root, "new-home")
	if err := os.MkdirAll(newContainer, 0o755); err != nil {
		t.Fatal(err)
	}
	writeDescriptor(t, newContainer)

	move := gitops.Move{OldContainer: "old-home", NewContainer: "new-home"}
	outcome := replay(context.Background(), ws, baumMgr, move)
	if outcome.Action != ActionNoop {
		t.Errorf("Action = %v, want ActionNoop", outcome.Action)
	}
}

func TestReplayNotABaumWarnsAndSkips(t *testing.T) {
	ws := newTestWorkspace(t)
	baumMgr := baum.New(ws, gitops.New(nil))

	oldContainer := filepath.Join(ws.Root, "plain-dir")
	if err := os.MkdirAll(oldContainer, 0o755); err != nil {
		t.Fatal(err)
	}

	move := gitops.Move{OldContainer: "plain-dir", NewContainer: "moved-dir"}
	outcome := replay(context.Background(), ws, baumMgr, move)
	if outcome.Action != ActionNotABaum {
		t.Errorf("Action = %v, want ActionNotABaum", outcome.Action)
	}
}

func TestReplayHardConflictWhenBothSidesAreBaums(t *testing.T) {
	ws := newTestWorkspace(t)
	baumMgr := baum.New(ws, gitops.New(nil))

	oldContainer := filepath.Join(ws.Root, "old-home")
	newContainer := filepath.Join(ws.Root, "new-home")
	if err := os.MkdirAll(oldContainer, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(newContainer, 0o755); err != nil {
		t.Fatal(err)
	}
	writeDescriptor(t, oldContainer)
	writeDescriptor(t, newContainer)

	move := gitops.Move{OldContainer: "old-home", NewContainer: "new-home"}
	outcome := replay(context.Background(), ws, baumMgr, move)
	if outcome.Action != ActionConflict || outcome.Err == nil {
		t.Errorf("outcome = %+v, want a conflict with an error", outcome)
	}
}

func TestRunRejectsDirtyOuterRepo(t *testing.T) {
	ws := clonedWorkspaceFromFreshOrigin(t)

	if err := os.WriteFile(filepath.Join(ws.Root, "untracked.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Run(context.Background(), ws, gitops.New(nil), Options{})
	if err == nil {
		t.Fatal("expected an error for a dirty outer repo")
	}
}

func TestRunNoopWhenHeadUnchanged(t *testing.T) {
	ws := clonedWorkspaceFromFreshOrigin(t)

	result, err := Run(context.Background(), ws, gitops.New(nil), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Before != result.After {
		t.Errorf("expected before == after with nothing to pull, got %s vs %s", result.Before, result.After)
	}
	if len(result.Outcomes) != 0 {
		t.Errorf("expected no replay outcomes, got %v", result.Outcomes)
	}
}

// clonedWorkspaceFromFreshOrigin returns a workspace whose root is a
// clone of a throwaway origin with one commit, so a pull --rebase has
// an upstream to consult even when there is nothing new to fetch.
func clonedWorkspaceFromFreshOrigin(t *testing.T) *workspace.Workspace {
	t.Helper()
	origin := t.TempDir()
	run(t, origin, "init")
	run(t, origin, "config", "user.email", "test@test.com")
	run(t, origin, "config", "user.name", "Test")
	run(t, origin, "commit", "--allow-empty", "-m", "initial state")

	clonedRoot := filepath.Join(t.TempDir(), "workspace")
	cmd := exec.Command("git", "clone", origin, clonedRoot)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git clone: %v\n%s", err, out)
	}
	run(t, clonedRoot, "config", "user.email", "test@test.com")
	run(t, clonedRoot, "config", "user.name", "Test")

	ws, err := workspace.Init(clonedRoot, false)
	if err != nil {
		t.Fatalf("workspace.Init after clone: %v", err)
	}
	commitAll(t, clonedRoot, "add wald state")
	return ws
}

func commitAll(t *testing.T, dir, message string) {
	t.Helper()
	run(t, dir, "add", ".")
	run(t, dir, "commit", "--allow-empty", "-m", message)
}

func run(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}
