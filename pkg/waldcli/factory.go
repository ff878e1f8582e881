// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package waldcli wires wald's core packages (workspace, baum, gitops,
// sync, doctor) into a cobra command tree.
package waldcli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archmagece/wald/internal/gitcmd"
	"github.com/archmagece/wald/pkg/cliutil"
	"github.com/archmagece/wald/pkg/gitops"
	"github.com/archmagece/wald/pkg/workspace"
)

// CommandFactory builds wald's CLI commands. It carries no state of
// its own beyond what each command needs to open a workspace and a
// Git handle at RunE time — commands are built fresh per invocation so
// tests can swap in a different starting directory.
type CommandFactory struct {
	Verbose bool
}

// NewRootCmd returns wald's root command with every subcommand
// attached.
func (f *CommandFactory) NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wald",
		Short: "Manage Git worktrees grouped into containers",
		Long: `wald projects branches of your registered repositories into
worktree-holding containers ("baums") anywhere in a workspace, and keeps
them in sync as the outer workspace repository itself moves around.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(WithLogger(cmd.Context(), NewLogger(f.Verbose)))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&f.Verbose, "verbose", "v", false, "verbose logging")
	root.PersistentFlags().String("root", "", "workspace root to operate in (default: discover from the current directory)")

	root.AddCommand(f.newInitCmd())
	root.AddCommand(f.newRepoCmd())
	root.AddCommand(f.newConfigCmd())
	root.AddCommand(f.newPlantCmd())
	root.AddCommand(f.newBranchCmd())
	root.AddCommand(f.newUprootCmd())
	root.AddCommand(f.newMoveCmd())
	root.AddCommand(f.newPruneCmd())
	root.AddCommand(f.newSyncCmd())
	root.AddCommand(f.newDoctorCmd())
	root.AddCommand(f.newStatusCmd())
	root.AddCommand(f.newVersionCmd())

	setCommandGroups(root)
	applyUsageTemplateRecursive(root)

	return root
}

// Execute builds the root command and runs it, printing any error to
// stderr and exiting non-zero.
func Execute(version string) {
	factory := &CommandFactory{}
	root := factory.NewRootCmd()
	root.Version = version

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openWorkspace loads the workspace rooted above the current
// directory (or from --root when that flag is present on cmd).
func openWorkspace(cmd *cobra.Command) (*workspace.Workspace, error) {
	start, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve current directory: %w", err)
	}
	if root, _ := cmd.Flags().GetString("root"); root != "" {
		start = root
	}
	return workspace.Load(start)
}

// newGit returns a Git handle using the default sanitizing executor.
func newGit() *gitops.Git {
	return gitops.New(gitcmd.NewExecutor())
}

func setCommandGroups(cmd *cobra.Command) {
	lifecycleGroup := &cobra.Group{ID: "lifecycle", Title: cliutil.ColorYellowBold + "Baum Lifecycle" + cliutil.ColorReset}
	mgmtGroup := &cobra.Group{ID: "mgmt", Title: cliutil.ColorYellowBold + "Workspace Management" + cliutil.ColorReset}
	cmd.AddGroup(lifecycleGroup, mgmtGroup)

	for _, c := range cmd.Commands() {
		switch c.Name() {
		case "plant", "branch", "uproot", "move", "prune":
			c.GroupID = lifecycleGroup.ID
		case "init", "repo", "config", "sync", "doctor", "status":
			c.GroupID = mgmtGroup.ID
		}
	}
}

func applyUsageTemplateRecursive(cmd *cobra.Command) {
	cmd.SetUsageTemplate(usageTemplate)
	// Cobra does not propagate SilenceUsage/SilenceErrors to child
	// commands; set it on every command so runtime errors never print
	// usage text.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	for _, c := range cmd.Commands() {
		applyUsageTemplateRecursive(c)
	}
}

const usageTemplate = `{{if .Runnable}}` + cliutil.ColorGreenBold + `Usage:` + cliutil.ColorReset + `
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}` + cliutil.ColorGreenBold + `Usage:` + cliutil.ColorReset + `
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

` + cliutil.ColorGreenBold + `Examples:` + cliutil.ColorReset + `
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

Available Commands:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

` + cliutil.ColorMagentaBold + `Additional Commands:` + cliutil.ColorReset + `{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

` + cliutil.ColorGreenBold + `Flags:` + cliutil.ColorReset + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

` + cliutil.ColorGreenBold + `Global Flags:` + cliutil.ColorReset + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
