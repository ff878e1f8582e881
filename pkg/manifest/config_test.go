// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifest

import "testing"

func TestConfig_ExplainAttributesRepoEntryOverride(t *testing.T) {
	c := NewConfig()
	entry := RepoEntry{LFS: LFSFull, Depth: ShallowDepth(5), Filter: FilterBlobNone}

	eff := c.Explain(entry)

	if eff.LFS != LFSFull || eff.Sources["lfs"] != "repo entry" {
		t.Errorf("lfs = %s (%s), want %s (repo entry)", eff.LFS, eff.Sources["lfs"], LFSFull)
	}
	if eff.Depth != ShallowDepth(5) || eff.Sources["depth"] != "repo entry" {
		t.Errorf("depth = %v (%s), want 5 (repo entry)", eff.Depth, eff.Sources["depth"])
	}
	if eff.Filter != FilterBlobNone || eff.Sources["filter"] != "repo entry" {
		t.Errorf("filter = %s (%s), want %s (repo entry)", eff.Filter, eff.Sources["filter"], FilterBlobNone)
	}
}

func TestConfig_ExplainAttributesWorkspaceConfig(t *testing.T) {
	c := Config{LFS: LFSFull, Depth: ShallowDepth(5), Filter: FilterBlobNone}
	entry := c.ResolveEntry(RepoEntry{})

	eff := c.Explain(entry)

	if eff.Sources["lfs"] != "workspace config" {
		t.Errorf("lfs source = %s, want workspace config", eff.Sources["lfs"])
	}
	if eff.Sources["depth"] != "workspace config" {
		t.Errorf("depth source = %s, want workspace config", eff.Sources["depth"])
	}
	if eff.Sources["filter"] != "workspace config" {
		t.Errorf("filter source = %s, want workspace config", eff.Sources["filter"])
	}
}

func TestConfig_ExplainAttributesBuiltinDefault(t *testing.T) {
	c := Config{} // no workspace overrides configured
	entry := c.ResolveEntry(RepoEntry{})

	eff := c.Explain(entry)

	if eff.LFS != DefaultLFSPolicy || eff.Sources["lfs"] != "default" {
		t.Errorf("lfs = %s (%s), want %s (default)", eff.LFS, eff.Sources["lfs"], DefaultLFSPolicy)
	}
	if eff.Depth != DefaultDepth || eff.Sources["depth"] != "default" {
		t.Errorf("depth = %v (%s), want %v (default)", eff.Depth, eff.Sources["depth"], DefaultDepth)
	}
	if eff.Filter != DefaultFilter || eff.Sources["filter"] != "default" {
		t.Errorf("filter = %s (%s), want %s (default)", eff.Filter, eff.Sources["filter"], DefaultFilter)
	}
}
