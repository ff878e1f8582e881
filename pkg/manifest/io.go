// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifest

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	werr "github.com/archmagece/wald/internal/errors"
	"github.com/archmagece/wald/pkg/repoid"
)

const (
	registryFileName  = "manifest.yaml"
	configFileName    = "config.yaml"
	stateFileName     = "state.yaml"
	baumDescriptorDir = ".baum"
	baumFileName      = "manifest.yaml"
)

// RegistryPath returns the path to the central registry file under
// the workspace state directory stateDir.
func RegistryPath(stateDir string) string { return filepath.Join(stateDir, registryFileName) }

// ConfigPath returns the path to the workspace config file under
// stateDir.
func ConfigPath(stateDir string) string { return filepath.Join(stateDir, configFileName) }

// StatePath returns the path to the sync-state file under stateDir.
func StatePath(stateDir string) string { return filepath.Join(stateDir, stateFileName) }

// BaumDescriptorPath returns the path to the baum descriptor under a
// container directory.
func BaumDescriptorPath(container string) string {
	return filepath.Join(container, baumDescriptorDir, baumFileName)
}

// LoadRegistry reads and parses the registry at path. A missing file
// yields an empty registry, not an error.
func LoadRegistry(path string) (*Registry, error) {
	reg := NewRegistry()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return reg, nil
	}
	if err != nil {
		return nil, werr.Contextf(err, "read registry %s", path)
	}
	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, werr.Contextf(err, "parse registry %s", path)
	}
	if reg.Repos == nil {
		reg.Repos = map[string]*RepoEntry{}
	}
	for key, entry := range reg.Repos {
		id, err := repoid.Parse(key)
		if err != nil {
			return nil, werr.Contextf(err, "registry key %q", key)
		}
		entry.ID = id
	}
	return reg, nil
}

// SaveRegistry writes reg to path, creating parent directories as
// needed.
func SaveRegistry(path string, reg *Registry) error {
	return saveYAML(path, reg)
}

// LoadConfig reads and parses the workspace config at path. A missing
// file yields the documented defaults.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, werr.Contextf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, werr.Contextf(err, "parse config %s", path)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path.
func SaveConfig(path string, cfg Config) error {
	return saveYAML(path, cfg)
}

// LoadSyncState reads and parses the sync state at path. A missing
// file yields a zero SyncState (no prior sync).
func LoadSyncState(path string) (SyncState, error) {
	var state SyncState
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return state, nil
	}
	if err != nil {
		return SyncState{}, werr.Contextf(err, "read sync state %s", path)
	}
	if err := yaml.Unmarshal(data, &state); err != nil {
		return SyncState{}, werr.Contextf(err, "parse sync state %s", path)
	}
	return state, nil
}

// SaveSyncState writes state to path.
func SaveSyncState(path string, state SyncState) error {
	return saveYAML(path, state)
}

// LoadBaumDescriptor reads and parses the baum descriptor at path.
// Legacy descriptors missing id or per-worktree local_branch parse
// cleanly, leaving those fields at their zero value.
func LoadBaumDescriptor(path string) (BaumDescriptor, error) {
	var d BaumDescriptor
	data, err := os.ReadFile(path)
	if err != nil {
		return BaumDescriptor{}, werr.Contextf(err, "read baum descriptor %s", path)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return BaumDescriptor{}, werr.Contextf(err, "parse baum descriptor %s", path)
	}
	return d, nil
}

// SaveBaumDescriptor writes d to path.
func SaveBaumDescriptor(path string, d BaumDescriptor) error {
	return saveYAML(path, d)
}

func saveYAML(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return werr.Contextf(err, "create directory for %s", path)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return werr.Contextf(err, "encode %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return werr.Contextf(err, "write %s", path)
	}
	return nil
}
