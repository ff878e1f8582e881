// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func (f *CommandFactory) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the workspace's layered configuration defaults",
	}

	cmd.AddCommand(f.newConfigShowCmd())
	return cmd
}

func (f *CommandFactory) newConfigShowCmd() *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print each registered repository's effective lfs/depth/filter policy",
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
				entry := *ws.Registry.Repos[k]
				eff := ws.Config.Explain(entry)

				if !explain {
					fmt.Fprintf(out, "%s  lfs=%s depth=%s filter=%s\n", k, eff.LFS, depthString(eff.Depth), eff.Filter)
					continue
				}

				fmt.Fprintf(out, "%s\n", k)
				fmt.Fprintf(out, "  lfs=%s (%s)\n", eff.LFS, eff.Sources["lfs"])
				fmt.Fprintf(out, "  depth=%s (%s)\n", depthString(eff.Depth), eff.Sources["depth"])
				fmt.Fprintf(out, "  filter=%s (%s)\n", eff.Filter, eff.Sources["filter"])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "show which layer (repo entry, workspace config, or default) supplied each field")
	return cmd
}
