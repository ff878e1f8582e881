// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package gitops

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchResult is one repo's outcome from FetchAllRepos.
type FetchResult struct {
	BareDir string
	Err     error
}

// FetchAllRepos fetches every bare repo in bareDirs concurrently,
// bounded by parallelism. A parallelism of 0 or less means
// unbounded.
func (g *Git) FetchAllRepos(ctx context.Context, bareDirs []string, parallelism int) []FetchResult {
	results := make([]FetchResult, len(bareDirs))

	group, groupCtx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		group.SetLimit(parallelism)
	}

	for i, dir := range bareDirs {
		i, dir := i, dir
		group.Go(func() error {
			err := g.Fetch(groupCtx, dir)
			results[i] = FetchResult{BareDir: dir, Err: err}
			// Individual fetch failures are reported per-repo, not
			// propagated as a group error that would cancel siblings.
			return nil
		})
	}
	_ = group.Wait()

	return results
}
