// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifest

// Config holds per-workspace defaults applied to repo entries that
// don't set their own policy.
type Config struct {
	LFS    LFSPolicy   `yaml:"lfs,omitempty"`
	Depth  Depth       `yaml:"depth,omitempty"`
	Filter CloneFilter `yaml:"filter,omitempty"`
}

// NewConfig returns a Config populated with the documented
// defaults-for-defaults.
func NewConfig() Config {
	return Config{
		LFS:    DefaultLFSPolicy,
		Depth:  DefaultDepth,
		Filter: DefaultFilter,
	}
}

// ResolveEntry fills any unset policy field on entry from c, falling
// back to the documented defaults-for-defaults. Used by `repo add` so
// a flag left unset picks up the workspace's own configured default
// rather than the global one.
func (c Config) ResolveEntry(entry RepoEntry) RepoEntry {
	if entry.LFS == "" {
		entry.LFS = c.lfsOr(DefaultLFSPolicy)
	}
	if entry.Depth == (Depth{}) {
		entry.Depth = c.depthOr(DefaultDepth)
	}
	if entry.Filter == "" {
		entry.Filter = c.filterOr(DefaultFilter)
	}
	return entry
}

// EffectiveConfig is the fully-resolved policy for one repo entry,
// annotated with which layer supplied each field: "repo entry",
// "workspace config", or "default".
type EffectiveConfig struct {
	LFS     LFSPolicy
	Depth   Depth
	Filter  CloneFilter
	Sources map[string]string
}

// Explain reports entry's resolved policy alongside which layer
// supplied each field, for `wald config show --explain`. Registered
// entries already carry ResolveEntry's baked-in resolution (`repo add`
// applies it before Registry.Add stores the entry), so provenance is
// recovered by value: a field matching the workspace config's own
// value is attributed to that layer, a field matching the built-in
// default (and not overridden by the workspace config) is attributed
// to "default", and anything else is an explicit per-repo override.
func (c Config) Explain(entry RepoEntry) EffectiveConfig {
	eff := EffectiveConfig{Sources: map[string]string{}}

	eff.LFS = entry.LFS
	switch {
	case entry.LFS == DefaultLFSPolicy && (c.LFS == "" || c.LFS == DefaultLFSPolicy):
		eff.Sources["lfs"] = "default"
	case c.LFS != "" && entry.LFS == c.LFS:
		eff.Sources["lfs"] = "workspace config"
	default:
		eff.Sources["lfs"] = "repo entry"
	}

	eff.Depth = entry.Depth
	switch {
	case entry.Depth == DefaultDepth && (c.Depth == (Depth{}) || c.Depth == DefaultDepth):
		eff.Sources["depth"] = "default"
	case c.Depth != (Depth{}) && entry.Depth == c.Depth:
		eff.Sources["depth"] = "workspace config"
	default:
		eff.Sources["depth"] = "repo entry"
	}

	eff.Filter = entry.Filter
	switch {
	case entry.Filter == DefaultFilter && (c.Filter == "" || c.Filter == DefaultFilter):
		eff.Sources["filter"] = "default"
	case c.Filter != "" && entry.Filter == c.Filter:
		eff.Sources["filter"] = "workspace config"
	default:
		eff.Sources["filter"] = "repo entry"
	}

	return eff
}

func (c Config) lfsOr(fallback LFSPolicy) LFSPolicy {
	if c.LFS != "" {
		return c.LFS
	}
	return fallback
}

func (c Config) depthOr(fallback Depth) Depth {
	if c.Depth != (Depth{}) {
		return c.Depth
	}
	return fallback
}

func (c Config) filterOr(fallback CloneFilter) CloneFilter {
	if c.Filter != "" {
		return c.Filter
	}
	return fallback
}
