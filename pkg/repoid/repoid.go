// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package repoid parses, canonicalises, and projects repository
// identifiers of the form host/seg1/.../name to on-disk bare-clone
// paths and to clone URLs.
package repoid

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ID is a canonical repository identifier: a host followed by one or
// more non-empty path segments. The last segment is the name;
// segments before it form the owner path.
type ID struct {
	Host     string
	Segments []string // includes the trailing name segment
}

// Parse splits s on "/" and validates it as a Repo ID: at least two
// segments (host + name), no empty segment after trimming whitespace.
func Parse(s string) (ID, error) {
	parts := strings.Split(s, "/")
	if len(parts) < 2 {
		return ID{}, fmt.Errorf("repo id %q: need at least host/name", s)
	}

	trimmed := make([]string, len(parts))
	for i, p := range parts {
		t := strings.TrimSpace(p)
		if t == "" {
			return ID{}, fmt.Errorf("repo id %q: empty segment at position %d", s, i)
		}
		trimmed[i] = t
	}

	return ID{Host: trimmed[0], Segments: trimmed[1:]}, nil
}

// Name is the final path segment.
func (r ID) Name() string {
	if len(r.Segments) == 0 {
		return ""
	}
	return r.Segments[len(r.Segments)-1]
}

// OwnerPath is the path segments before the name, in order.
func (r ID) OwnerPath() []string {
	if len(r.Segments) <= 1 {
		return nil
	}
	return r.Segments[:len(r.Segments)-1]
}

// String returns the canonical display form host/seg1/.../name.
func (r ID) String() string {
	return r.Host + "/" + strings.Join(r.Segments, "/")
}

// Equal reports structural equality.
func (r ID) Equal(other ID) bool {
	return r.String() == other.String()
}

// MarshalYAML renders the Repo ID as its canonical string form.
func (r ID) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// UnmarshalYAML parses the Repo ID from its canonical string form.
func (r *ID) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("repo id: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// BarePath projects the Repo ID to a relative bare-clone path:
// host/owner/.../name.git.
func (r ID) BarePath() string {
	segs := make([]string, len(r.Segments))
	copy(segs, r.Segments)
	segs[len(segs)-1] = segs[len(segs)-1] + ".git"
	return r.Host + "/" + strings.Join(segs, "/")
}

// hostKind classifies a host for clone-URL projection.
type hostKind int

const (
	hostSSHFullPath hostKind = iota // default: ssh with full owner path
	hostHTTPSNameOnly
)

// httpsNameOnlyHosts lists hosts that clone over HTTPS using only the
// repository name (no owner path) — e.g. a package-mirror style host.
var httpsNameOnlyHosts = map[string]bool{
	"gist.github.com": true,
}

func classify(host string) hostKind {
	if httpsNameOnlyHosts[host] {
		return hostHTTPSNameOnly
	}
	return hostSSHFullPath
}

// CloneURL projects the Repo ID to a clone URL using the host-keyed
// rules: known special hosts use HTTPS with just the name; every
// other host (known or not) defaults to SSH with the full path.
func (r ID) CloneURL() string {
	host, port, hasPort := splitHostPort(r.Host)

	switch classify(r.Host) {
	case hostHTTPSNameOnly:
		return fmt.Sprintf("https://%s/%s", host, r.Name())
	default:
		if hasPort {
			return fmt.Sprintf("ssh://git@%s:%s/%s", host, port, strings.Join(r.Segments, "/"))
		}
		return fmt.Sprintf("git@%s:%s.git", host, strings.Join(r.Segments, "/"))
	}
}

// splitHostPort splits "host:port" into host, port. Returns
// hasPort=false if there is no colon.
func splitHostPort(host string) (h, port string, hasPort bool) {
	idx := strings.LastIndex(host, ":")
	if idx == -1 {
		return host, "", false
	}
	return host[:idx], host[idx+1:], true
}
