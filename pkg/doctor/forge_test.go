// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package doctor

import (
	"context"
	"testing"

	"github.com/archmagece/wald/pkg/forge"
	"github.com/archmagece/wald/pkg/gitops"
	"github.com/archmagece/wald/pkg/manifest"
	"github.com/archmagece/wald/pkg/repoid"
	"github.com/archmagece/wald/pkg/workspace"
)

func TestCheckForgeDrift_EmptyRegistryHasNoIssues(t *testing.T) {
	ws, err := workspace.Init(t.TempDir(), false)
	if err != nil {
		t.Fatalf("workspace.Init: %v", err)
	}
	git := gitops.New(nil)

	issues := CheckForgeDrift(context.Background(), ws, git, forge.Config{})
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %+v", issues)
	}
}

func TestCheckForgeDrift_SkipsRepoWhenLookupFails(t *testing.T) {
	ws, err := workspace.Init(t.TempDir(), false)
	if err != nil {
		t.Fatalf("workspace.Init: %v", err)
	}
	git := gitops.New(nil)

	// A host with no real forge behind it, and no bare clone on disk:
	// the lookup itself will fail before any comparison happens, so
	// CheckForgeDrift must return no issues rather than erroring out.
	id, _ := repoid.Parse("git.example.invalid/acme/widgets")
	if err := ws.Registry.Add(id, manifest.RepoEntry{}); err != nil {
		t.Fatal(err)
	}

	issues := CheckForgeDrift(context.Background(), ws, git, forge.Config{})
	if len(issues) != 0 {
		t.Errorf("expected lookup failure to be silently skipped, got %+v", issues)
	}
}
