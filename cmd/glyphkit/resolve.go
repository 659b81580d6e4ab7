// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"

	"glyphkit/internal/issue"
	"glyphkit/pkg/icons"
	"glyphkit/pkg/types"

	"github.com/spf13/cobra"
)

// newResolveCommand creates the `glyphkit resolve` command.
func newResolveCommand(app *App) *cobra.Command {
	var (
		check  bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <ref>...",
		Short: "Resolve icon references to SVG markup",
		Long: `Resolve icon references to SVG markup.

Each reference is either 'namespace:name' or a bare 'name' that picks up
the configured default namespace. Resolution consults custom icon
directories first, then installed packs, honoring aliases.

With silent_missing enabled (the default) an unresolvable reference
prints as an empty line, matching what a template host would render.
Use --strict to turn misses into errors, or --check to get a styled
per-reference status report instead of markup.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), app, args, check, strict)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "print a per-reference status report instead of markup")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat unresolvable references as errors even when silent_missing is set")

	return cmd
}

func runResolve(ctx context.Context, app *App, refs []string, check, strict bool) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return configLoadError(app, err)
	}
	if strict {
		cfg.SilentMissing = false
	}

	reg, cleanup, err := buildRegistry(app, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if check {
		return checkRefs(ctx, app, reg, refs, strict)
	}

	for _, raw := range refs {
		markup, err := reg.Resolve(ctx, raw)
		if err != nil {
			if errors.Is(err, icons.ErrNotFound) {
				rendered, renderErr := issue.Get(issue.IconNotFoundId).Render("dark")
				if renderErr == nil {
					fmt.Fprint(app.stderr, rendered)
				}
			}
			return &ExitError{Code: types.ExitFailure, Err: err}
		}
		fmt.Fprintln(app.stdout, markup)
	}
	return nil
}

// checkRefs prints one status line per reference. Misses never abort the
// report; with --strict they turn the final exit code non-zero.
func checkRefs(ctx context.Context, app *App, reg *icons.Registry, refs []string, strict bool) error {
	missing := 0
	for _, raw := range refs {
		markup, err := reg.Resolve(ctx, raw)
		switch {
		case err != nil:
			missing++
			fmt.Fprintf(app.stdout, "%s %s %s\n",
				ErrorStyle.Render("✗"), raw, SubtitleStyle.Render(err.Error()))
		case markup == "":
			missing++
			fmt.Fprintf(app.stdout, "%s %s %s\n",
				ErrorStyle.Render("✗"), raw, SubtitleStyle.Render("not found"))
		default:
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("✓"), raw)
		}
	}

	if missing > 0 {
		fmt.Fprintf(app.stdout, "\n%d of %d references did not resolve\n", missing, len(refs))
		if strict {
			return &ExitError{Code: types.ExitFailure, Err: fmt.Errorf("%d unresolvable reference(s)", missing)}
		}
	}
	return nil
}
