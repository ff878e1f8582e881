// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package gitignore maintains the managed regions wald writes into
// workspace- and container-level .gitignore files, self-healing any
// partial or corrupted section it finds.
package gitignore

import (
	"os"
	"strings"

	werr "github.com/archmagece/wald/internal/errors"
)

const (
	startMarker = "# wald:start (managed by wald, do not edit)"
	endMarker   = "# wald:end"
)

// ManagedPatterns are the exact, ordered patterns wald maintains in
// the workspace-level managed section.
var ManagedPatterns = []string{
	".wald/repos/",
	".wald/state.yaml",
	"**/.baum/manifest.local.yaml",
	"**/_*.wt/",
}

// EnsureWorkspaceSection ensures the workspace .gitignore at path
// contains an up-to-date managed section, creating the file if it
// doesn't exist. It is idempotent: a correct existing section is left
// untouched; a partial or corrupt one (markers present but patterns
// incomplete or wrong) is replaced wholesale; surrounding content and
// newlines are preserved either way.
func EnsureWorkspaceSection(path string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return werr.Contextf(err, "read %s", path)
	}

	content := string(existing)
	before, section, after, found := splitManagedSection(content)

	wantSection := renderSection()
	if found && section == wantSection {
		return nil
	}

	var b strings.Builder
	b.WriteString(before)
	if before != "" && !strings.HasSuffix(before, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(wantSection)
	if after != "" {
		if !strings.HasPrefix(after, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(after)
	} else if !strings.HasSuffix(wantSection, "\n") {
		b.WriteString("\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// renderSection renders the canonical managed section, markers
// included, terminated by a newline.
func renderSection() string {
	var b strings.Builder
	b.WriteString(startMarker)
	b.WriteString("\n")
	for _, p := range ManagedPatterns {
		b.WriteString(p)
		b.WriteString("\n")
	}
	b.WriteString(endMarker)
	b.WriteString("\n")
	return b.String()
}

// splitManagedSection locates the first start/end marker pair in
// content and returns the text before it, the section itself
// (markers included, newline-terminated), and the text after it.
// found is false if no marker pair is present.
func splitManagedSection(content string) (before, section, after string, found bool) {
	startIdx := strings.Index(content, startMarker)
	if startIdx == -1 {
		return content, "", "", false
	}
	endIdx := strings.Index(content[startIdx:], endMarker)
	if endIdx == -1 {
		return content, "", "", false
	}
	endIdx += startIdx

	sectionEnd := endIdx + len(endMarker)
	// Consume the trailing newline after the end marker, if present,
	// so it stays part of the section rather than "after".
	if sectionEnd < len(content) && content[sectionEnd] == '\n' {
		sectionEnd++
	}

	return content[:startIdx], content[startIdx:sectionEnd], content[sectionEnd:], true
}

// EnsureContainerEntry ensures the container-level .gitignore at path
// contains a line for worktreeDirName, appending one if not already
// present (compared after trimming whitespace from each existing
// line). The file is created if it doesn't exist.
func EnsureContainerEntry(path, worktreeDirName string) error {
	want := "/" + worktreeDirName

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return werr.Contextf(err, "read %s", path)
	}

	content := string(existing)
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == want {
			return nil
		}
	}

	var b strings.Builder
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(want)
	b.WriteString("\n")

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
