// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package doctor

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	werr "github.com/archmagece/wald/internal/errors"
	"github.com/archmagece/wald/pkg/gitops"
	"github.com/archmagece/wald/pkg/workspace"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	// Debounce is the minimum time between re-runs after a burst of
	// filesystem events. Defaults to 500ms.
	Debounce time.Duration
}

// Watch runs Run once immediately, then again every time the
// workspace tree changes, sending each report on the returned
// channel until ctx is cancelled. The channel is closed on exit.
func Watch(ctx context.Context, ws *workspace.Workspace, git *gitops.Git, opts WatchOptions) (<-chan *Report, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}

	fswatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, werr.Context(err, "create filesystem watcher")
	}
	if err := addRecursive(fswatch, ws.Root); err != nil {
		fswatch.Close()
		return nil, werr.Context(err, "watch workspace tree")
	}

	reports := make(chan *Report, 1)

	go func() {
		defer close(reports)
		defer fswatch.Close()

		emit := func() {
			report, err := Run(ctx, ws, git)
			if err != nil {
				return
			}
			select {
			case reports <- report:
			case <-ctx.Done():
			}
		}
		emit()

		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-fswatch.Events:
				if !ok {
					return
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(opts.Debounce, emit)
			case <-fswatch.Errors:
				// Individual watch errors don't stop the loop; the next
				// Run still reflects the workspace's actual state.
			}
		}
	}()

	return reports, nil
}

// addRecursive adds root and every subdirectory to fswatch, skipping
// the same subtrees FindAllBaums does (.git, the bare-clone store,
// worktree directories, and .baum itself) since changes there are
// either irrelevant or would make the watcher churn on every fetch.
func addRecursive(fswatch *fsnotify.Watcher, root string) error {
	reposDir := filepath.Join(root, workspace.StateDirName, workspace.ReposDirName)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		switch {
		case name == ".git":
			return filepath.SkipDir
		case path == reposDir:
			return filepath.SkipDir
		case strings.HasPrefix(name, "_") && strings.HasSuffix(name, ".wt"):
			return filepath.SkipDir
		case name == ".baum":
			return filepath.SkipDir
		}
		return fswatch.Add(path)
	})
}
