// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package identity

import "testing"

func TestNewNeverDuplicates(t *testing.T) {
	existing := map[string]bool{}
	for i := 0; i < 500; i++ {
		id, err := New(existing)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if existing[id] {
			t.Fatalf("New produced a duplicate id %q after %d iterations", id, i)
		}
		if !isHexID(id) {
			t.Fatalf("New produced non-hex id %q", id)
		}
		existing[id] = true
	}
}

func TestTrackingBranchRoundTrip(t *testing.T) {
	cases := []struct{ id, branch string }{
		{"abc123", "main"},
		{"deadbe", "feature/foo"},
		{"000000", "release/v1.2.3"},
	}
	for _, c := range cases {
		formatted := FormatTrackingBranch(c.id, c.branch)
		id, branch, ok := ParseTrackingBranch(formatted)
		if !ok {
			t.Fatalf("ParseTrackingBranch(%q) not ok", formatted)
		}
		if id != c.id || branch != c.branch {
			t.Errorf("round trip mismatch: got (%q, %q), want (%q, %q)", id, branch, c.id, c.branch)
		}
	}
}

func TestParseTrackingBranchRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"wald/",
		"wald/abc",          // no slash after id
		"wald/abc123",       // missing rest
		"wald/abc123/",      // empty rest
		"wald/ABCDEF/main",  // uppercase hex not allowed
		"wald/abcde/main",   // too short
		"nope/abc123/main",  // wrong prefix
	}
	for _, s := range bad {
		if _, _, ok := ParseTrackingBranch(s); ok {
			t.Errorf("ParseTrackingBranch(%q) = ok, want rejection", s)
		}
	}
}
