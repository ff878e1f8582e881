// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/archmagece/wald/pkg/forge"
	"github.com/archmagece/wald/pkg/gitops"
	"github.com/archmagece/wald/pkg/manifest"
	"github.com/archmagece/wald/pkg/repoid"
)

func (f *CommandFactory) newRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage the registry of repositories known to this workspace",
	}

	cmd.AddCommand(f.newRepoAddCmd())
	cmd.AddCommand(f.newRepoRemoveCmd())
	cmd.AddCommand(f.newRepoListCmd())
	cmd.AddCommand(f.newRepoUpdateCmd())
	return cmd
}

func (f *CommandFactory) newRepoAddCmd() *cobra.Command {
	var (
		lfs            string
		depth          int
		full           bool
		filter         string
		alias          []string
		detectUpstream bool
	)

	cmd := &cobra.Command{
		Use:   "add <host/owner/name>",
		Short: "Register a repository and bare-clone it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			id, err := repoid.Parse(args[0])
			if err != nil {
				return err
			}

			entry := manifest.RepoEntry{Aliases: alias}
			if lfs != "" {
				entry.LFS = manifest.LFSPolicy(lfs)
				if !entry.LFS.IsValid() {
					return fmt.Errorf("invalid --lfs value %q", lfs)
				}
			}
			switch {
			case full:
				entry.Depth = manifest.FullDepth()
			case depth > 0:
				entry.Depth = manifest.ShallowDepth(depth)
			}
			if filter != "" {
				entry.Filter = manifest.CloneFilter(filter)
				if !entry.Filter.IsValid() {
					return fmt.Errorf("invalid --filter value %q", filter)
				}
			}
			entry = ws.Config.ResolveEntry(entry)

			bareDir := filepath.Join(ws.ReposDir(), id.BarePath())
			git := newGit()
			if err := git.BareClone(cmd.Context(), id.CloneURL(), bareDir, gitops.CloneOptions{Depth: entry.Depth, Filter: entry.Filter}); err != nil {
				return err
			}

			if detectUpstream {
				forgeCfg, err := forge.LoadConfig(ws.StateDir())
				if err != nil {
					return err
				}
				lookup, err := forge.Resolve(cmd.Context(), forgeCfg, id)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "forge lookup unavailable, skipping upstream detection: %v\n", err)
				} else if lookup.Upstream != nil {
					entry.Upstream = lookup.Upstream
					fmt.Fprintf(cmd.OutOrStdout(), "detected upstream %s\n", lookup.Upstream)
				}
			}

			if err := ws.Registry.Add(id, entry); err != nil {
				return err
			}
			if err := ws.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (bare clone at %s)\n", id, bareDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&lfs, "lfs", "", "LFS policy: full, minimal, or skip")
	cmd.Flags().IntVar(&depth, "depth", 0, "shallow clone depth (0 uses the workspace default)")
	cmd.Flags().BoolVar(&full, "full", false, "clone full history, overriding the workspace default depth")
	cmd.Flags().StringVar(&filter, "filter", "", "partial clone filter: none, blob-none, or tree-0")
	cmd.Flags().StringSliceVar(&alias, "alias", nil, "short alias(es) this repository can also be referenced by")
	cmd.Flags().BoolVar(&detectUpstream, "detect-upstream", false, "query the repository's forge API to detect a fork's upstream Repo ID")
	return cmd
}

func (f *CommandFactory) newRepoRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <reference>",
		Short: "Unregister a repository (leaves its bare clone and any planted baums untouched)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			resolution := ws.Registry.ResolveReference(args[0])
			if resolution.Kind != manifest.ResolutionFound {
				return fmt.Errorf("no registered repository matches %q", args[0])
			}
			ws.Registry.Remove(resolution.ID)
			return ws.Save()
		},
	}
	return cmd
}

func (f *CommandFactory) newRepoListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(ws.Registry.Repos))
			for k := range ws.Registry.Repos {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			out := cmd.OutOrStdout()
			for _, k := range keys {
				entry := ws.Registry.Repos[k]
				fmt.Fprintf(out, "%s  lfs=%s depth=%s filter=%s\n", k, entry.LFS, depthString(entry.Depth), entry.Filter)
			}
			return nil
		},
	}
	return cmd
}

func (f *CommandFactory) newRepoUpdateCmd() *cobra.Command {
	var parallel int

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch every registered repository's bare clone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd)
			if err != nil {
				return err
			}

			bareDirs := make([]string, 0, len(ws.Registry.Repos))
			for _, entry := range ws.Registry.Repos {
				bareDirs = append(bareDirs, filepath.Join(ws.ReposDir(), entry.ID.BarePath()))
			}

			git := newGit()
			results := git.FetchAllRepos(cmd.Context(), bareDirs, parallel)

			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", r.BareDir, r.Err)
					continue
				}
				fmt.Fprintf(out, "OK   %s\n", r.BareDir)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d repositories failed to fetch", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&parallel, "parallel", 4, "maximum number of repositories to fetch concurrently")
	return cmd
}

func depthString(d manifest.Depth) string {
	if d.Full {
		return "full"
	}
	return fmt.Sprint(d.Value)
}
