// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"glyphkit/internal/issue"
	"glyphkit/pkg/icons/packs"
	"glyphkit/pkg/types"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// newPacksCommand creates the `glyphkit packs` command tree.
func newPacksCommand(app *App) *cobra.Command {
	packsCmd := &cobra.Command{
		Use:   "packs",
		Short: "Manage the built-in icon packs",
		Long: `Manage the built-in icon packs.

Packs are pinned upstream icon sets (Ionicons, Heroicons, Material
Symbols, Tabler, Lucide, Font Awesome Free) that install into the
platform data directory and bind their namespace automatically when
auto_discover is enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	packsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the pack catalog and install state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPacksList(cmd.Context(), app)
		},
	})

	packsCmd.AddCommand(&cobra.Command{
		Use:   "install [pack]...",
		Short: "Download and install icon packs",
		Long: `Download and install icon packs.

Without arguments, installs every pack on the configured allow-list.
Reinstalling a pack replaces its previous icon set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPacksInstall(cmd.Context(), app, args)
		},
	})

	packsCmd.AddCommand(&cobra.Command{
		Use:   "info <pack>",
		Short: "Show one pack's descriptor and install state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPacksInfo(cmd.Context(), app, args[0])
		},
	})

	return packsCmd
}

func runPacksList(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return configLoadError(app, err)
	}

	state, err := packs.ReadState(cfg.PacksDir)
	if err != nil {
		// Icons on disk stay authoritative when the state file is broken.
		slog.Debug("pack state unreadable, counting icons on disk", "error", err)
		state = &packs.State{Packs: map[string]packs.PackRecord{}}
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Icon packs"))
	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render(
		fmt.Sprintf("%-14s %-11s %-9s %s", "ID", "NAMESPACE", "VERSION", "INSTALLED")))

	for _, p := range packs.All() {
		installed := SubtitleStyle.Render("-")
		if record, ok := state.Packs[p.ID]; ok {
			installed = SuccessStyle.Render(fmt.Sprintf("%d icons", record.Icons))
		} else if p.Installed(cfg.PacksDir) {
			installed = SuccessStyle.Render(fmt.Sprintf("%d icons", p.InstalledCount(cfg.PacksDir)))
		}
		fmt.Fprintf(app.stdout, "  %s %-11s %-9s %s\n",
			CmdStyle.Render(fmt.Sprintf("%-14s", p.ID)), p.Namespace, p.Version, installed)
	}

	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("Install with: ")+CmdStyle.Render("glyphkit packs install [pack]..."))
	return nil
}

func runPacksInstall(ctx context.Context, app *App, ids []string) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return configLoadError(app, err)
	}
	if len(ids) == 0 {
		ids = cfg.Packs
	}

	// An unknown pack id is a usage error and aborts before any download.
	selected := make([]packs.Pack, 0, len(ids))
	for _, id := range ids {
		p, ok := packs.ByID(id)
		if !ok {
			return &ExitError{Code: types.ExitFailure, Err: fmt.Errorf(
				"unknown pack %q (known packs: %s)", id, strings.Join(packs.IDs(), ", "))}
		}
		selected = append(selected, p)
	}

	failed := 0
	for _, p := range selected {
		fmt.Fprintf(app.stdout, "%s %s %s\n",
			TitleStyle.Render("Installing"), p.ID, SubtitleStyle.Render(p.Version))
		result, err := packs.Install(ctx, p, cfg.PacksDir)
		if err != nil {
			failed++
			fmt.Fprintf(app.stdout, "  %s %v\n", ErrorStyle.Render("✗"), err)
			continue
		}
		fmt.Fprintf(app.stdout, "  %s extracted %d icons to %s\n",
			SuccessStyle.Render("✓"), result.Extracted, VerboseStyle.Render(result.Dir))
	}

	if failed > 0 {
		rendered, renderErr := issue.Get(issue.PackDownloadFailedId).Render("dark")
		if renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
		fmt.Fprintf(app.stdout, "\n%d of %d packs failed to install\n", failed, len(selected))
	}
	return nil
}

func runPacksInfo(ctx context.Context, app *App, id string) error {
	p, ok := packs.ByID(id)
	if !ok {
		return &ExitError{Code: types.ExitFailure, Err: fmt.Errorf(
			"unknown pack %q (known packs: %s)", id, strings.Join(packs.IDs(), ", "))}
	}

	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return configLoadError(app, err)
	}

	md := packInfoMarkdown(p, cfg.PacksDir)
	rendered, err := glamour.Render(md, "dark")
	if err != nil {
		fmt.Fprint(app.stdout, md)
		return nil
	}
	fmt.Fprint(app.stdout, rendered)
	return nil
}

// packInfoMarkdown builds the glamour source for one pack descriptor.
func packInfoMarkdown(p packs.Pack, packsDir string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s (`%s`)\n\n", p.DisplayName, p.ID)
	fmt.Fprintf(&sb, "%s\n\n", string(p.Description))
	fmt.Fprintf(&sb, "- **Namespace**: `%s`\n", p.Namespace)
	fmt.Fprintf(&sb, "- **Version**: %s\n", p.Version)

	var styles []string
	for _, dir := range p.StyleDirs {
		if dir.Style != "" {
			styles = append(styles, dir.Style)
		}
	}
	if len(styles) > 0 {
		fmt.Fprintf(&sb, "- **Styles**: %s\n", strings.Join(styles, ", "))
	}

	fmt.Fprintf(&sb, "- **Archive**: %s\n", p.ArchiveURL)
	if p.CDNTemplate != "" {
		fmt.Fprintf(&sb, "- **CDN**: `%s`\n", p.CDNTemplate)
	}

	if p.Installed(packsDir) {
		fmt.Fprintf(&sb, "- **Installed**: %d icons at `%s`\n", p.InstalledCount(packsDir), p.IconsDir(packsDir))
	} else {
		fmt.Fprintf(&sb, "- **Installed**: no\n")
	}

	fmt.Fprintf(&sb, "\nInstall or refresh with:\n\n```\nglyphkit packs install %s\n```\n", p.ID)
	return sb.String()
}
