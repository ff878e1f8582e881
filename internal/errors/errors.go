// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package errors provides the single fallible-result abstraction used
// across wald: sentinel errors, a Wrap helper that lets a low-level
// error be matched against a sentinel without losing its own message,
// and a context stack that accumulates "what was attempted against
// which path/branch" as an error propagates up through component
// boundaries.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-exported so callers only need to import this package.
var (
	Is = errors.Is
	As = errors.As
)

// Generic sentinels.
var (
	// ErrNotFound indicates a lookup found nothing.
	ErrNotFound = errors.New("not found")

	// ErrNotGitRepository indicates the path is not a Git repository.
	ErrNotGitRepository = errors.New("not a git repository")

	// ErrDirtyWorkingTree indicates uncommitted changes blocked an operation.
	ErrDirtyWorkingTree = errors.New("working tree has uncommitted changes")

	// ErrBranchExists indicates the branch already exists.
	ErrBranchExists = errors.New("branch already exists")

	// ErrBranchNotFound indicates the branch doesn't exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrRemoteNotFound indicates the remote doesn't exist.
	ErrRemoteNotFound = errors.New("remote not found")

	// ErrMergeConflict indicates a merge or rebase left conflicts.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrDetachedHead indicates the repository is in a detached HEAD state.
	ErrDetachedHead = errors.New("repository in detached HEAD state")
)

// Wald-domain sentinels. Kept here rather than split per package so
// that any component can test for them without an import cycle.
var (
	// ErrAmbiguous indicates a reference resolved to more than one Repo ID.
	ErrAmbiguous = errors.New("ambiguous reference")

	// ErrEscapesRoot indicates a user path resolves outside the workspace root.
	ErrEscapesRoot = errors.New("path escapes workspace root")

	// ErrNotABaum indicates a container has no baum descriptor.
	ErrNotABaum = errors.New("not a baum")

	// ErrAlreadyBaum indicates a container is already planted.
	ErrAlreadyBaum = errors.New("container is already a baum")

	// ErrDuplicateBranch indicates a branch is already projected by a baum.
	ErrDuplicateBranch = errors.New("branch already has a worktree in this baum")

	// ErrUnpushedCommits indicates a tracking branch has commits its upstream lacks.
	ErrUnpushedCommits = errors.New("branch has unpushed commits")

	// ErrDestinationExists indicates a move's destination path is occupied.
	ErrDestinationExists = errors.New("destination already exists")

	// ErrWorkspaceNested indicates init was run inside an existing workspace.
	ErrWorkspaceNested = errors.New("already inside a wald workspace")

	// ErrWorkspaceNotFound indicates no .wald directory was found walking upward.
	ErrWorkspaceNotFound = errors.New("no wald workspace found")

	// ErrWorkspaceExists indicates init targeted a directory that already has a .wald directory, without force.
	ErrWorkspaceExists = errors.New("workspace already initialized")

	// ErrRepoNotRegistered indicates a Repo ID is not present in the registry.
	ErrRepoNotRegistered = errors.New("repository not registered")
)

// wrappedError lets a caller match a low-level error against a
// sentinel via errors.Is while preserving the low-level error's own
// message and its place in the Unwrap chain.
type wrappedError struct {
	target error
	cause  error
}

func (w *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", w.target.Error(), w.cause.Error())
}

func (w *wrappedError) Unwrap() error {
	return w.cause
}

func (w *wrappedError) Is(target error) bool {
	return target == w.target
}

// Wrap matches a low-level error against a sentinel. If err is nil,
// target is returned unchanged (or nil). If target is nil, err is
// returned unchanged. Otherwise the result satisfies
// errors.Is(result, target) while keeping err's message and chain
// reachable through Unwrap.
func Wrap(err, target error) error {
	if err == nil {
		return target
	}
	if target == nil {
		return err
	}
	return &wrappedError{target: target, cause: err}
}

// WrapWithMessage prefixes err with a plain message, preserving the
// Unwrap chain (so errors.Is/As against err still succeed). Returns
// nil if err is nil.
func WrapWithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// contextFrame is one link of the context stack: "what was attempted"
// plus the error that resulted.
type contextFrame struct {
	what string
	err  error
}

func (f *contextFrame) Error() string {
	return f.what + ": " + f.err.Error()
}

func (f *contextFrame) Unwrap() error {
	return f.err
}

// Format implements fmt.Formatter so that %+v prints the full
// accumulated chain of attempted operations, one per line, ending in
// the root cause; %v and %s print the flattened single-line message.
func (f *contextFrame) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		_, _ = fmt.Fprint(s, strings.Join(Chain(f), "\n  caused by: "))
		return
	}
	_, _ = fmt.Fprint(s, f.Error())
}

// Context pushes a new frame ("what was attempted, against which path
// or branch") onto err's context stack. Returns nil if err is nil, so
// callers can write `return errors.Context(err, "planting "+ref)`
// unconditionally at every boundary without a nil check.
func Context(err error, what string) error {
	if err == nil {
		return nil
	}
	return &contextFrame{what: what, err: err}
}

// Contextf is Context with fmt.Sprintf-style formatting.
func Contextf(err error, format string, args ...any) error {
	return Context(err, fmt.Sprintf(format, args...))
}

// Chain returns the accumulated context messages from outermost to
// the root cause, one string per frame.
func Chain(err error) []string {
	var chain []string
	for err != nil {
		if f, ok := err.(*contextFrame); ok {
			chain = append(chain, f.what)
			err = f.err
			continue
		}
		chain = append(chain, err.Error())
		break
	}
	return chain
}
