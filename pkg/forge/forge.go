// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package forge

import (
	"context"
	"fmt"
	"strings"

	"github.com/archmagece/wald/pkg/gitea"
	"github.com/archmagece/wald/pkg/github"
	"github.com/archmagece/wald/pkg/gitlab"
	"github.com/archmagece/wald/pkg/provider"
	"github.com/archmagece/wald/pkg/repoid"
)

// providerFor returns the provider.Provider implementation for id's
// host, selecting by hostname convention: github.com always means
// GitHub, any host containing "gitlab" means GitLab, everything else
// is treated as a (possibly self-hosted) Gitea instance.
func providerFor(cfg Config, host string) (provider.Provider, error) {
	switch {
	case host == "github.com":
		return github.NewProvider(cfg.GitHub.Token), nil
	case strings.Contains(host, "gitlab"):
		baseURL := cfg.GitLab.BaseURL
		if baseURL == "" {
			baseURL = "https://" + host
		}
		return gitlab.NewProvider(cfg.GitLab.Token, baseURL)
	default:
		baseURL := cfg.Gitea.BaseURL
		if baseURL == "" {
			baseURL = "https://" + host
		}
		return gitea.NewProvider(cfg.Gitea.Token, baseURL), nil
	}
}

// Lookup is the forge-reported metadata for a registered repository.
type Lookup struct {
	DefaultBranch string
	Upstream      *repoid.ID // nil unless the repository is a fork
}

// Resolve fetches id's forge metadata. Callers treat a non-nil error
// as "forge lookup unavailable" and fall back to pure-Git behaviour
// (DefaultBranch via gitops.Git.DefaultBranch, no upstream guess).
func Resolve(ctx context.Context, cfg Config, id repoid.ID) (*Lookup, error) {
	p, err := providerFor(cfg, id.Host)
	if err != nil {
		return nil, fmt.Errorf("build forge provider for %s: %w", id.Host, err)
	}

	owner := strings.Join(id.OwnerPath(), "/")
	repo, err := p.GetRepository(ctx, owner, id.Name())
	if err != nil {
		return nil, fmt.Errorf("look up %s on %s: %w", id, p.Name(), err)
	}

	lookup := &Lookup{DefaultBranch: repo.DefaultBranch}
	if repo.Fork && repo.ForkParent != "" {
		upstream, err := repoid.Parse(id.Host + "/" + repo.ForkParent)
		if err == nil {
			lookup.Upstream = &upstream
		}
	}
	return lookup, nil
}
