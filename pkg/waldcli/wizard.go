// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package waldcli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/archmagece/wald/pkg/workspace"
)

// PlantWizardOptions holds the results of the interactive plant
// wizard: the repository to project and the branches to give it.
type PlantWizardOptions struct {
	RepoRef  string
	Branches []string
}

// runPlantWizard prompts for a registered repository and the
// branch(es) to plant, for use when plant is invoked without
// enough arguments to proceed non-interactively.
func runPlantWizard(ws *workspace.Workspace) (*PlantWizardOptions, error) {
	refs := make([]string, 0, len(ws.Registry.Repos))
	for key := range ws.Registry.Repos {
		refs = append(refs, key)
	}
	sort.Strings(refs)
	if len(refs) == 0 {
		return nil, fmt.Errorf("no repositories registered; run repo add first")
	}

	options := make([]huh.Option[string], len(refs))
	for i, ref := range refs {
		options[i] = huh.NewOption(ref, ref)
	}

	var repoRef string
	var branchList string

	repoForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Repository").
				Description("Registered repository to project into this baum").
				Options(options...).
				Value(&repoRef),
		),
	).WithTheme(huh.ThemeCharm())

	if err := repoForm.Run(); err != nil {
		return nil, err
	}

	branchForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Branches").
				Description("Comma-separated branches to plant (empty for the default branch)").
				Placeholder("main, feature/x").
				Value(&branchList),
		),
	).WithTheme(huh.ThemeCharm())

	if err := branchForm.Run(); err != nil {
		return nil, err
	}

	opts := &PlantWizardOptions{RepoRef: repoRef}
	for _, b := range strings.Split(branchList, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			opts.Branches = append(opts.Branches, b)
		}
	}

	return opts, nil
}
