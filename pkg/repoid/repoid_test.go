// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package repoid

import "testing"

func TestParseRejectsTooFewSegments(t *testing.T) {
	for _, s := range []string{"", "github.com", "/", "host//"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) = nil error, want error", s)
		}
	}
}

func TestParseRejectsEmptySegment(t *testing.T) {
	if _, err := Parse("github.com//name"); err == nil {
		t.Error("Parse with empty middle segment should fail")
	}
	if _, err := Parse("github.com/ /name"); err == nil {
		t.Error("Parse with whitespace-only segment should fail")
	}
}

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"github.com/owner/name",
		"github.com/org/team/name",
		"gitlab.example.com:8443/owner/name",
	}
	for _, s := range cases {
		id, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := id.String(); got != s {
			t.Errorf("round-trip: Parse(%q).String() = %q", s, got)
		}
		id2, err := Parse(id.String())
		if err != nil {
			t.Fatalf("re-parse: %v", err)
		}
		if !id.Equal(id2) {
			t.Errorf("Parse(display(r)) != r for %q", s)
		}
	}
}

func TestBarePath(t *testing.T) {
	id, err := Parse("github.com/owner/sub/name")
	if err != nil {
		t.Fatal(err)
	}
	want := "github.com/owner/sub/name.git"
	if got := id.BarePath(); got != want {
		t.Errorf("BarePath() = %q, want %q", got, want)
	}
}

func TestCloneURLDefaultSSH(t *testing.T) {
	id, _ := Parse("gitlab.example.com/team/project")
	want := "git@gitlab.example.com:team/project.git"
	if got := id.CloneURL(); got != want {
		t.Errorf("CloneURL() = %q, want %q", got, want)
	}
}

func TestCloneURLSpecialHostHTTPS(t *testing.T) {
	id, _ := Parse("gist.github.com/owner/name")
	want := "https://gist.github.com/name"
	if got := id.CloneURL(); got != want {
		t.Errorf("CloneURL() = %q, want %q", got, want)
	}
}

func TestCloneURLWithPort(t *testing.T) {
	id, _ := Parse("host:8443/owner/name")
	want := "ssh://git@host:8443/owner/name"
	if got := id.CloneURL(); got != want {
		t.Errorf("CloneURL() = %q, want %q", got, want)
	}
}

func TestNameAndOwnerPath(t *testing.T) {
	id, _ := Parse("github.com/org/team/name")
	if id.Name() != "name" {
		t.Errorf("Name() = %q", id.Name())
	}
	owner := id.OwnerPath()
	if len(owner) != 2 || owner[0] != "org" || owner[1] != "team" {
		t.Errorf("OwnerPath() = %v", owner)
	}
}
