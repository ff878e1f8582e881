// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/archmagece/wald/pkg/repoid"
)

func writeFile(path, contents string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}

func mustParse(t *testing.T, s string) repoid.ID {
	t.Helper()
	id, err := repoid.Parse(s)
	if err != nil {
		t.Fatalf("repoid.Parse(%q): %v", s, err)
	}
	return id
}

func TestRegistryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := RegistryPath(dir)

	reg := NewRegistry()
	id := mustParse(t, "github.com/alice/repo")
	if err := reg.Add(id, RepoEntry{Aliases: []string{"repo"}}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := SaveRegistry(path, reg); err != nil {
		t.Fatalf("SaveRegistry: %v", err)
	}

	loaded, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	entry, ok := loaded.Get(id)
	if !ok {
		t.Fatalf("entry for %s not found after round trip", id)
	}
	if !entry.ID.Equal(id) {
		t.Errorf("entry.ID = %v, want %v", entry.ID, id)
	}
	if entry.LFS != DefaultLFSPolicy {
		t.Errorf("LFS = %v, want default %v", entry.LFS, DefaultLFSPolicy)
	}
	if entry.Depth != DefaultDepth {
		t.Errorf("Depth = %v, want default %v", entry.Depth, DefaultDepth)
	}
	if len(entry.Aliases) != 1 || entry.Aliases[0] != "repo" {
		t.Errorf("Aliases = %v, want [repo]", entry.Aliases)
	}
}

func TestLoadRegistryMissingFileIsEmpty(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join(t.TempDir(), "nope", "manifest.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistry on missing file: %v", err)
	}
	if len(reg.Repos) != 0 {
		t.Errorf("expected empty registry, got %d entries", len(reg.Repos))
	}
}

func TestAddRejectsDuplicateAlias(t *testing.T) {
	reg := NewRegistry()
	a := mustParse(t, "github.com/alice/repo")
	b := mustParse(t, "github.com/bob/repo")

	if err := reg.Add(a, RepoEntry{Aliases: []string{"repo"}}); err != nil {
		t.Fatalf("Add a: %v", err)
	}
	if err := reg.Add(b, RepoEntry{Aliases: []string{"repo"}}); err == nil {
		t.Fatal("expected error adding duplicate alias")
	}
}

func TestResolveReferenceExactKey(t *testing.T) {
	reg := NewRegistry()
	id := mustParse(t, "github.com/alice/repo")
	_ = reg.Add(id, RepoEntry{})

	got := reg.ResolveReference("github.com/alice/repo")
	if got.Kind != ResolutionFound || !got.ID.Equal(id) {
		t.Fatalf("ResolveReference exact key = %+v", got)
	}
}

func TestResolveReferenceAlias(t *testing.T) {
	reg := NewRegistry()
	id := mustParse(t, "github.com/alice/repo")
	_ = reg.Add(id, RepoEntry{Aliases: []string{"myrepo"}})

	got := reg.ResolveReference("myrepo")
	if got.Kind != ResolutionFound || !got.ID.Equal(id) {
		t.Fatalf("ResolveReference alias = %+v", got)
	}
}

func TestResolveReferenceOwnerRepoFuzzy(t *testing.T) {
	reg := NewRegistry()
	id := mustParse(t, "github.com/alice/repo")
	_ = reg.Add(id, RepoEntry{})

	got := reg.ResolveReference("alice/repo")
	if got.Kind != ResolutionFound || !got.ID.Equal(id) {
		t.Fatalf("ResolveReference owner/repo fuzzy = %+v", got)
	}
}

func TestResolveReferenceBareNameFuzzy(t *testing.T) {
	reg := NewRegistry()
	id := mustParse(t, "github.com/alice/repo")
	_ = reg.Add(id, RepoEntry{})

	got := reg.ResolveReference("repo")
	if got.Kind != ResolutionFound || !got.ID.Equal(id) {
		t.Fatalf("ResolveReference bare name fuzzy = %+v", got)
	}
}

func TestResolveReferenceAmbiguous(t *testing.T) {
	reg := NewRegistry()
	a := mustParse(t, "github.com/alice/repo")
	b := mustParse(t, "gitlab.com/bob/repo")
	_ = reg.Add(a, RepoEntry{})
	_ = reg.Add(b, RepoEntry{})

	got := reg.ResolveReference("repo")
	if got.Kind != ResolutionAmbiguous {
		t.Fatalf("ResolveReference = %+v, want Ambiguous", got)
	}
	if len(got.Candidates) != 2 {
		t.Fatalf("Candidates = %v, want 2 entries", got.Candidates)
	}
	if got.Candidates[0].String() > got.Candidates[1].String() {
		t.Errorf("Candidates not sorted: %v", got.Candidates)
	}
}

func TestResolveReferenceNotFound(t *testing.T) {
	reg := NewRegistry()
	got := reg.ResolveReference("nothing/here")
	if got.Kind != ResolutionNotFound {
		t.Fatalf("ResolveReference = %+v, want NotFound", got)
	}
}

func TestResolveReferenceAliasTakesPrecedenceOverFuzzy(t *testing.T) {
	reg := NewRegistry()
	a := mustParse(t, "github.com/alice/repo")
	b := mustParse(t, "gitlab.com/bob/other")
	_ = reg.Add(a, RepoEntry{})
	// "repo" would bare-name fuzzy-match a, but is aliased directly
	// to b, so the alias must win outright.
	_ = reg.Add(b, RepoEntry{Aliases: []string{"repo"}})

	got := reg.ResolveReference("repo")
	if got.Kind != ResolutionFound || !got.ID.Equal(b) {
		t.Fatalf("ResolveReference = %+v, want Found(%v)", got, b)
	}
}

func TestDepthYAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := RegistryPath(dir)

	reg := NewRegistry()
	full := mustParse(t, "github.com/alice/full")
	shallow := mustParse(t, "github.com/alice/shallow")
	_ = reg.Add(full, RepoEntry{Depth: FullDepth()})
	_ = reg.Add(shallow, RepoEntry{Depth: ShallowDepth(42)})

	if err := SaveRegistry(path, reg); err != nil {
		t.Fatalf("SaveRegistry: %v", err)
	}
	loaded, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	fullEntry, _ := loaded.Get(full)
	if !fullEntry.Depth.Full {
		t.Errorf("full depth did not round-trip: %+v", fullEntry.Depth)
	}
	shallowEntry, _ := loaded.Get(shallow)
	if shallowEntry.Depth.Full || shallowEntry.Depth.Value != 42 {
		t.Errorf("shallow depth did not round-trip: %+v", shallowEntry.Depth)
	}
}

func TestBaumDescriptorRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := BaumDescriptorPath(dir)

	local := "wald/abc123/main"
	d := BaumDescriptor{
		ID:     "abc123",
		RepoID: mustParse(t, "github.com/alice/repo"),
		Worktrees: []WorktreeEntry{
			{Branch: "main", Path: "_main.wt", LocalBranch: &local},
		},
	}
	if err := SaveBaumDescriptor(path, d); err != nil {
		t.Fatalf("SaveBaumDescriptor: %v", err)
	}

	loaded, err := LoadBaumDescriptor(path)
	if err != nil {
		t.Fatalf("LoadBaumDescriptor: %v", err)
	}
	if loaded.ID != "abc123" {
		t.Errorf("ID = %q, want abc123", loaded.ID)
	}
	if !loaded.RepoID.Equal(d.RepoID) {
		t.Errorf("RepoID = %v, want %v", loaded.RepoID, d.RepoID)
	}
	wt, ok := loaded.WorktreeForBranch("main")
	if !ok || !wt.HasTrackingBranch() || *wt.LocalBranch != local {
		t.Errorf("worktree entry mismatch: %+v", wt)
	}
}

func TestLoadBaumDescriptorLegacyWithoutIDOrTrackingBranch(t *testing.T) {
	dir := t.TempDir()
	path := BaumDescriptorPath(dir)
	legacy := "repo_id: github.com/alice/repo\nworktrees:\n  - branch: main\n    path: _main.wt\n"
	if err := writeFile(path, legacy); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	d, err := LoadBaumDescriptor(path)
	if err != nil {
		t.Fatalf("LoadBaumDescriptor on legacy descriptor: %v", err)
	}
	if d.HasID() {
		t.Errorf("expected no baum ID, got %q", d.ID)
	}
	wt, ok := d.WorktreeForBranch("main")
	if !ok {
		t.Fatal("expected worktree entry for main")
	}
	if wt.HasTrackingBranch() {
		t.Errorf("expected no tracking branch, got %v", wt.LocalBranch)
	}
}

func TestAddWorktreeReplacesSameBranch(t *testing.T) {
	d := BaumDescriptor{RepoID: mustParse(t, "github.com/alice/repo")}
	d.AddWorktree(WorktreeEntry{Branch: "main", Path: "_main.wt"})
	d.AddWorktree(WorktreeEntry{Branch: "main", Path: "_main2.wt"})

	if len(d.Worktrees) != 1 {
		t.Fatalf("expected a single worktree entry, got %d", len(d.Worktrees))
	}
	if d.Worktrees[0].Path != "_main2.wt" {
		t.Errorf("Path = %q, want _main2.wt", d.Worktrees[0].Path)
	}
}
