// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package forge resolves a registered repository's forge metadata —
// its default branch and, when it is a fork, its upstream Repo ID —
// through GitHub, GitLab, or Gitea's API, behind the provider
// interface. It is optional: callers without a token still get
// plain-Git behaviour from pkg/gitops.
package forge

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds per-forge credentials and API endpoints.
type Config struct {
	GitHub HostConfig `yaml:"github"`
	GitLab HostConfig `yaml:"gitlab"`
	Gitea  HostConfig `yaml:"gitea"`
}

// HostConfig is one forge's token and base URL (self-hosted only).
type HostConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

// LoadConfig reads forge.yaml from stateDir, if present, then applies
// GITHUB_TOKEN/GITLAB_TOKEN/GITEA_TOKEN environment overrides. A
// missing file is not an error: callers get a zero-value Config with
// only the environment overrides applied.
func LoadConfig(stateDir string) (Config, error) {
	cfg := Config{}

	path := filepath.Join(stateDir, "forge.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	if token := os.Getenv("GITLAB_TOKEN"); token != "" {
		c.GitLab.Token = token
	}
	if token := os.Getenv("GITEA_TOKEN"); token != "" {
		c.Gitea.Token = token
	}
}
