// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package workspace finds, loads, and initialises a wald workspace —
// the directory tree rooted at a ".wald" state directory — and walks
// it to discover planted baums.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	werr "github.com/archmagece/wald/internal/errors"
	"github.com/archmagece/wald/pkg/gitignore"
	"github.com/archmagece/wald/pkg/manifest"
)

// StateDirName is the workspace state directory's fixed name.
const StateDirName = ".wald"

// ReposDirName is the bare-clone subdirectory under the state dir.
const ReposDirName = "repos"

// Workspace is a loaded wald workspace: its root, and the three
// workspace-level documents.
type Workspace struct {
	Root     string
	Registry *manifest.Registry
	Config   manifest.Config
	State    manifest.SyncState
}

// StateDir returns the workspace's .wald directory.
func (w *Workspace) StateDir() string { return filepath.Join(w.Root, StateDirName) }

// ReposDir returns the bare-clone root under the state directory.
func (w *Workspace) ReposDir() string { return filepath.Join(w.StateDir(), ReposDirName) }

// FindRoot walks upward from start until a child directory named
// ".wald" exists, and returns that ancestor. It fails if walking
// exhausts the filesystem without finding one.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", werr.Contextf(err, "resolve start directory %s", start)
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, StateDirName)); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s directory found above %s", werr.ErrWorkspaceNotFound, StateDirName, start)
		}
		dir = parent
	}
}

// Load finds the workspace root from start and loads its registry,
// config, and sync state.
func Load(start string) (*Workspace, error) {
	root, err := FindRoot(start)
	if err != nil {
		return nil, err
	}

	stateDir := filepath.Join(root, StateDirName)

	reg, err := manifest.LoadRegistry(manifest.RegistryPath(stateDir))
	if err != nil {
		return nil, err
	}
	cfg, err := manifest.LoadConfig(manifest.ConfigPath(stateDir))
	if err != nil {
		return nil, err
	}
	state, err := manifest.LoadSyncState(manifest.StatePath(stateDir))
	if err != nil {
		return nil, err
	}

	return &Workspace{Root: root, Registry: reg, Config: cfg, State: state}, nil
}

// Init creates a new workspace at root: the .wald tree with a repos/
// subdirectory, an empty registry, a default config, a default sync
// state, and the managed .gitignore section. It rejects creating a
// workspace nested inside an existing one, unless root *is* that
// existing workspace and force is set, in which case the .wald
// directory is replaced.
func Init(root string, force bool) (*Workspace, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, werr.Contextf(err, "resolve workspace root %s", root)
	}

	if existingRoot, err := FindRoot(absRoot); err == nil {
		if existingRoot != absRoot {
			return nil, fmt.Errorf("%w: %s is inside existing workspace %s", werr.ErrWorkspaceNested, absRoot, existingRoot)
		}
		if !force {
			return nil, fmt.Errorf("%w: %s already has a %s directory", werr.ErrWorkspaceExists, absRoot, StateDirName)
		}
		if err := os.RemoveAll(filepath.Join(absRoot, StateDirName)); err != nil {
			return nil, werr.Contextf(err, "remove existing %s", StateDirName)
		}
	}

	stateDir := filepath.Join(absRoot, StateDirName)
	if err := os.MkdirAll(filepath.Join(stateDir, ReposDirName), 0o755); err != nil {
		return nil, werr.Contextf(err, "create %s", stateDir)
	}

	reg := manifest.NewRegistry()
	cfg := manifest.NewConfig()
	state := manifest.SyncState{}

	if err := manifest.SaveRegistry(manifest.RegistryPath(stateDir), reg); err != nil {
		return nil, err
	}
	if err := manifest.SaveConfig(manifest.ConfigPath(stateDir), cfg); err != nil {
		return nil, err
	}
	if err := manifest.SaveSyncState(manifest.StatePath(stateDir), state); err != nil {
		return nil, err
	}
	if err := gitignore.EnsureWorkspaceSection(filepath.Join(absRoot, ".gitignore")); err != nil {
		return nil, err
	}

	return &Workspace{Root: absRoot, Registry: reg, Config: cfg, State: state}, nil
}

// Save persists the workspace's registry, config, and sync state.
func (w *Workspace) Save() error {
	stateDir := w.StateDir()
	if err := manifest.SaveRegistry(manifest.RegistryPath(stateDir), w.Registry); err != nil {
		return err
	}
	if err := manifest.SaveConfig(manifest.ConfigPath(stateDir), w.Config); err != nil {
		return err
	}
	return manifest.SaveSyncState(manifest.StatePath(stateDir), w.State)
}

// PlantedBaum pairs a container's absolute path with its parsed
// descriptor, as discovered by FindAllBaums.
type PlantedBaum struct {
	Container  string
	Descriptor manifest.BaumDescriptor
}

// FindAllBaums walks the workspace tree rooted at w.Root and returns
// every container holding a .baum/manifest.yaml, together with its
// parsed descriptor. It skips any .git subtree, the .wald/repos
// subtree, any directory named "_*.wt", and any ".baum" directory
// itself (so its contents are never descended into as if they were
// ordinary subdirectories).
func (w *Workspace) FindAllBaums() ([]PlantedBaum, error) {
	var found []PlantedBaum
	reposDir := w.ReposDir()

	var walk func(dir string) error
	walk = func(dir string) error {
		descriptorPath := filepath.Join(dir, ".baum", "manifest.yaml")
		if _, err := os.Stat(descriptorPath); err == nil {
			d, err := manifest.LoadBaumDescriptor(descriptorPath)
			if err != nil {
				return err
			}
			found = append(found, PlantedBaum{Container: dir, Descriptor: d})
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return werr.Contextf(err, "read directory %s", dir)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := entry.Name()
			child := filepath.Join(dir, name)

			switch {
			case name == ".git":
				continue
			case child == reposDir:
				continue
			case strings.HasPrefix(name, "_") && strings.HasSuffix(name, ".wt"):
				continue
			case name == ".baum":
				continue
			}

			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(w.Root); err != nil {
		return nil, err
	}
	return found, nil
}

// CollectBaumIDs returns the set of baum IDs in use across the
// workspace, skipping legacy baums that have none.
func (w *Workspace) CollectBaumIDs() (map[string]bool, error) {
	baums, err := w.FindAllBaums()
	if err != nil {
		return nil, err
	}
	ids := map[string]bool{}
	for _, b := range baums {
		if b.Descriptor.HasID() {
			ids[b.Descriptor.ID] = true
		}
	}
	return ids, nil
}
