// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package forge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`
github:
  token: gh-token
gitlab:
  token: gl-token
  base_url: https://gitlab.example.com
gitea:
  base_url: https://git.example.com
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forge.yaml"), data, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, "gh-token", cfg.GitHub.Token)
	require.Equal(t, "gl-token", cfg.GitLab.Token)
	require.Equal(t, "https://gitlab.example.com", cfg.GitLab.BaseURL)
	require.Equal(t, "https://git.example.com", cfg.Gitea.BaseURL)
}

func TestLoadConfig_EnvOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte("github:\n  token: file-token\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forge.yaml"), data, 0o600))

	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("GITLAB_TOKEN", "")
	t.Setenv("GITEA_TOKEN", "")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, "env-token", cfg.GitHub.Token)
}

func TestLoadConfig_InvalidYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forge.yaml"), []byte("not: [valid"), 0o600))

	_, err := LoadConfig(dir)
	require.Error(t, err)
}
