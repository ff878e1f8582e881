// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package pathsafe resolves user-supplied paths against a workspace
// root and rejects anything that would escape it, tolerating symlinks
// on the longest existing prefix of both sides (common on systems
// where the temp directory itself is a symlink).
package pathsafe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	werr "github.com/archmagece/wald/internal/errors"
)

// Validate resolves userPath against root and returns the resolved
// absolute path, with symlinks on its longest existing prefix
// resolved, if (and only if) it is contained within the canonicalised
// root.
//
//   - An absolute userPath is kept verbatim, then checked for containment.
//   - A userPath whose first component is "." or ".." is resolved
//     against the process's current working directory.
//   - Anything else is resolved relative to root.
func Validate(root, userPath string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve workspace root %s: %w", root, err)
	}

	var candidate string
	switch {
	case filepath.IsAbs(userPath):
		candidate = userPath
	case isDotRelative(userPath):
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve current directory: %w", err)
		}
		candidate = filepath.Join(cwd, userPath)
	default:
		candidate = filepath.Join(absRoot, userPath)
	}
	candidate = filepath.Clean(candidate)

	resolvedRoot, err := canonicalize(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolve workspace root %s: %w", absRoot, err)
	}
	resolvedCandidate, err := canonicalize(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", candidate, err)
	}

	if !contains(resolvedRoot, resolvedCandidate) {
		return "", fmt.Errorf("%w: %s (root %s)", werr.ErrEscapesRoot, resolvedCandidate, resolvedRoot)
	}

	return resolvedCandidate, nil
}

// isDotRelative reports whether path's first component is "." or "..".
func isDotRelative(path string) bool {
	first, _, _ := strings.Cut(filepath.ToSlash(path), "/")
	return first == "." || first == ".."
}

// Canonicalize resolves symlinks on path's longest existing prefix,
// for comparing two paths that may cross a symlinked boundary (e.g. a
// symlinked temp directory) without requiring both sides to exist.
func Canonicalize(path string) (string, error) {
	return canonicalize(path)
}

// canonicalize resolves symlinks on the longest existing prefix of
// path, then joins the remaining (possibly nonexistent) components
// back on structurally, without touching the filesystem again.
func canonicalize(path string) (string, error) {
	path = filepath.Clean(path)

	existing := path
	var tail []string
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		} else if !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(existing)
		if parent == existing {
			// Reached the filesystem root without finding anything that exists.
			break
		}
		tail = append([]string{filepath.Base(existing)}, tail...)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}

	return filepath.Join(append([]string{resolved}, tail...)...), nil
}

// contains reports whether candidate is root itself or lexically
// nested under root, after both have been canonicalised.
func contains(root, candidate string) bool {
	if root == candidate {
		return true
	}
	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
