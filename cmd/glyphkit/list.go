// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"slices"

	"glyphkit/internal/issue"
	"glyphkit/pkg/types"

	"github.com/spf13/cobra"
)

// newListCommand creates the `glyphkit list` command.
func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [namespace]",
		Short: "List bound namespaces and resolvable icon names",
		Long: `List bound namespaces and resolvable icon names.

Without arguments, prints every namespace that has at least one bound
source together with its icon count. With a namespace argument, prints
the resolvable names in that namespace, one per line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace := ""
			if len(args) == 1 {
				namespace = args[0]
			}
			return runList(cmd.Context(), app, namespace)
		},
	}
}

func runList(ctx context.Context, app *App, namespace string) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return configLoadError(app, err)
	}

	reg, cleanup, err := buildRegistry(app, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	namespaces := reg.Namespaces()

	if namespace != "" {
		if !slices.Contains(namespaces, namespace) {
			rendered, renderErr := issue.Get(issue.UnknownNamespaceId).Render("dark")
			if renderErr == nil {
				fmt.Fprint(app.stderr, rendered)
			}
			return &ExitError{Code: types.ExitFailure, Err: fmt.Errorf("namespace %q has no bound sources", namespace)}
		}
		for _, name := range reg.Names(namespace) {
			fmt.Fprintln(app.stdout, name)
		}
		return nil
	}

	if len(namespaces) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("No namespaces are bound."))
		fmt.Fprintln(app.stdout, "Install a pack with "+CmdStyle.Render("glyphkit packs install")+" or configure icon_dirs.")
		return nil
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Bound namespaces"))
	fmt.Fprintln(app.stdout)
	for _, ns := range namespaces {
		count := len(reg.Names(ns))
		fmt.Fprintf(app.stdout, "  %s %s\n",
			CmdStyle.Render(ns), SubtitleStyle.Render(fmt.Sprintf("(%d icons)", count)))
	}
	return nil
}
