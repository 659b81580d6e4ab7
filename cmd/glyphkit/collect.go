// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"glyphkit/internal/collect"
	"glyphkit/internal/fetch"
	"glyphkit/internal/issue"
	"glyphkit/pkg/icons/packs"
	"glyphkit/pkg/types"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// collectFlags carries the flag values of one collect invocation. Zero
// values defer to the corresponding config entries.
type collectFlags struct {
	central bool
	dryRun  bool
	output  string
	timeout time.Duration
	jobs    int
	roots   []string
}

// newCollectCommand creates the `glyphkit collect` command.
func newCollectCommand(app *App) *cobra.Command {
	var flags collectFlags

	cmd := &cobra.Command{
		Use:   "collect [--root DIR]...",
		Short: "Download the icons your templates actually use",
		Long: `Download the icons your templates actually use.

Scans the corpus roots for icon references and downloads each
referenced icon from its namespace's CDN, skipping files that already
exist. By default every root is treated as an owner unit and icons land
under '<root>/static/icons/<namespace>/'; with --central everything is
collected into one shared output tree instead.

Individual download failures are reported in the summary but never
change the exit code; only usage and configuration errors do.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(cmd.Context(), app, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.central, "central", false, "collect into one shared output tree instead of per owner unit")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the collection plan without downloading anything")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output directory for --central (default: collect.output)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "per-icon download timeout (default: fetch.timeout)")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "parallel downloads (default: fetch.concurrency)")
	cmd.Flags().StringArrayVar(&flags.roots, "root", nil, "corpus root to scan, repeatable (default: collect.roots)")

	return cmd
}

func runCollect(ctx context.Context, app *App, flags collectFlags) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return configLoadError(app, err)
	}

	roots := flags.roots
	if len(roots) == 0 {
		roots = cfg.Collect.Roots
	}
	if len(roots) == 0 {
		return &ExitError{Code: types.ExitFailure, Err: fmt.Errorf("no corpus roots: pass --root or set collect.roots in glyphkit.cue")}
	}

	output := flags.output
	if output == "" {
		output = cfg.Collect.Output
	}
	timeout := flags.timeout
	if timeout <= 0 {
		timeout = cfg.Fetch.TimeoutDuration()
	}
	jobs := flags.jobs
	if jobs <= 0 {
		jobs = cfg.Fetch.Concurrency
	}

	// Config overrides shadow the catalog CDN table namespace by namespace.
	templates := packs.CDNTemplates()
	maps.Copy(templates, cfg.Fetch.URLTemplates)

	collector := collect.New(fetch.NewClient(
		fetch.WithTemplates(templates),
		fetch.WithUserAgent("glyphkit/"+Version),
	))

	report, err := collector.Run(ctx, collect.Options{
		Roots:            roots,
		Extensions:       cfg.Collect.Extensions,
		Output:           output,
		Central:          flags.central,
		DryRun:           flags.dryRun,
		Timeout:          timeout,
		Concurrency:      jobs,
		DefaultNamespace: cfg.DefaultNamespace,
	})
	if err != nil {
		return err
	}

	if len(report.Plans) == 0 {
		rendered, renderErr := issue.Get(issue.NoIconsFoundId).Render("dark")
		if renderErr == nil {
			fmt.Fprint(app.stdout, rendered)
		}
		return nil
	}

	if flags.dryRun {
		renderPlan(app, report)
		return nil
	}

	renderResults(app, report)
	renderSummary(app, report)
	if report.Downloaded > 0 {
		renderNextSteps(app, flags.central, output)
	}
	return nil
}

// renderPlan prints the grouped dry-run plan, including namespaces that
// would be skipped for lack of a URL template.
func renderPlan(app *App, report *collect.Report) {
	fmt.Fprintln(app.stdout, WarningStyle.Render("Dry run - nothing downloaded."))
	for _, plan := range report.Plans {
		fmt.Fprintf(app.stdout, "\n%s\n", CmdStyle.Render(plan.Root))
		for _, group := range plan.Groups {
			if group.Skipped {
				fmt.Fprintf(app.stdout, "  %s: %s\n", group.Namespace,
					WarningStyle.Render("(no URL template, skipped)"))
				continue
			}
			names := make([]string, 0, len(group.Icons))
			for _, icon := range group.Icons {
				names = append(names, icon.Ref.Name)
			}
			fmt.Fprintf(app.stdout, "  %s: %s\n", group.Namespace, strings.Join(names, ", "))
		}
	}
	fmt.Fprintf(app.stdout, "\nWould fetch %d icons.\n", report.Planned())
}

// renderResults prints one status line per attempted download. Successes
// show only in verbose mode; failures always.
func renderResults(app *App, report *collect.Report) {
	for _, result := range report.Results {
		succeeded := result.Outcome.Kind == fetch.Fetched || result.Outcome.Kind == fetch.AlreadyPresent
		if succeeded && !app.verbose {
			continue
		}
		fmt.Fprintf(app.stdout, "  %s %s\n", outcomeMarker(result.Outcome), result.Job.Ref)
	}
}

// outcomeMarker maps a fetch outcome to its bracketed status tag.
func outcomeMarker(outcome fetch.Outcome) string {
	switch outcome.Kind {
	case fetch.Fetched:
		return SuccessStyle.Render("[OK]")
	case fetch.AlreadyPresent:
		return VerboseStyle.Render("[EXISTS]")
	case fetch.NotFound:
		return ErrorStyle.Render("[NOT FOUND]")
	case fetch.Failed:
		if outcome.Status != 0 {
			return ErrorStyle.Render(fmt.Sprintf("[HTTP %d]", outcome.Status))
		}
		return ErrorStyle.Render("[NETWORK ERROR]")
	default:
		return VerboseStyle.Render("[" + strings.ToUpper(outcome.Kind.String()) + "]")
	}
}

// renderSummary prints the run counts, errors last.
func renderSummary(app *App, report *collect.Report) {
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SuccessStyle.Render(
		fmt.Sprintf("Downloaded %d icons across %d roots.", report.Downloaded, len(report.Plans))))
	if report.AlreadyPresent > 0 {
		fmt.Fprintf(app.stdout, "Already present: %d\n", report.AlreadyPresent)
	}
	if report.SkippedNS > 0 {
		fmt.Fprintln(app.stdout, WarningStyle.Render(
			fmt.Sprintf("Skipped namespaces: %d (no URL template)", report.SkippedNS)))
	}
	if report.NotFound > 0 {
		fmt.Fprintln(app.stdout, ErrorStyle.Render(fmt.Sprintf("Not found: %d", report.NotFound)))
	}
	if report.Failed > 0 {
		fmt.Fprintln(app.stdout, ErrorStyle.Render(fmt.Sprintf("Failed: %d", report.Failed)))
	}
}

// renderNextSteps prints the post-collect guidance through glamour so it
// matches the styling of the issue cards.
func renderNextSteps(app *App, central bool, output string) {
	md := `## Next steps

Icons are vendored under each root's ` + "`static/icons/<namespace>/`" + `
directory. Bind the directories in ` + "`glyphkit.cue`" + ` so resolution
prefers the local copies over the CDN:

` + "```cue" + `
icon_dirs: {
	ion: "./static/icons/ion"
}
` + "```" + `
`
	if central {
		md = `## Next steps

Icons are vendored under ` + "`" + output + "`" + ` by namespace. Bind the
tree in ` + "`glyphkit.cue`" + ` so resolution prefers the local copies:

` + "```cue" + `
icon_dirs: {
	ion: "` + output + `/ion"
}
` + "```" + `
`
	}

	rendered, err := glamour.Render(md, "dark")
	if err != nil {
		fmt.Fprint(app.stdout, md)
		return
	}
	fmt.Fprint(app.stdout, rendered)
}
