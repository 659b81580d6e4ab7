// SPDX-License-Identifier: MPL-2.0

// Package collect implements the offline collection pipeline: scan
// template corpora for icon references, group them per owner unit or
// into one central tree, then download whatever is missing through the
// fetch client. Individual download failures are recorded in the
// report, never propagated, matching the batch semantics of fetch.
package collect

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"glyphkit/internal/fetch"
	"glyphkit/pkg/iconref"
	"glyphkit/pkg/icons/scanner"
)

// defaultOutput is the central-mode output root when none is configured.
const defaultOutput = "static/icons"

type (
	// Options configures one collection run.
	Options struct {
		// Roots lists the directories scanned for icon references.
		Roots []string
		// Extensions lists the file extensions included in the scan.
		Extensions []string
		// Output is the output root for central mode. Empty falls back
		// to "static/icons". Ignored in per-owner mode.
		Output string
		// Central collects everything into one shared tree instead of
		// per owner unit.
		Central bool
		// DryRun plans the collection without creating directories or
		// touching the network.
		DryRun bool
		// Timeout bounds each individual download; non-positive falls
		// back to the fetch default.
		Timeout time.Duration
		// Concurrency bounds parallel downloads; non-positive falls
		// back to the fetch default.
		Concurrency int
		// DefaultNamespace qualifies bare references found in the corpus.
		DefaultNamespace string
	}

	// PlannedIcon names one icon and the file it lands in.
	PlannedIcon struct {
		// Ref names the icon.
		Ref iconref.Ref
		// Dest is the file the icon is written to.
		Dest string
	}

	// Group holds one namespace's planned icons under a single root.
	Group struct {
		// Namespace is the pack tag the icons belong to.
		Namespace string
		// Skipped marks a namespace with no URL template. Its icons
		// appear in the plan but are never fetched.
		Skipped bool
		// Icons lists the planned icons, sorted by name.
		Icons []PlannedIcon
	}

	// OwnerPlan is the grouped plan for one install root: an owner
	// unit's directory in per-owner mode, the output root in central
	// mode.
	OwnerPlan struct {
		// Root is the directory icons install under.
		Root string
		// Groups holds the namespace groups, sorted by namespace.
		Groups []Group
	}

	// Report summarizes one collection run. Results is empty on dry
	// runs; SkippedNS is counted at plan time, so dry runs report it
	// too.
	Report struct {
		// Plans holds the grouped plan, sorted by root.
		Plans []OwnerPlan
		// Results holds one entry per attempted download, in plan order.
		Results []fetch.Result
		// Downloaded counts icons fetched and written this run.
		Downloaded int
		// AlreadyPresent counts icons whose destination already existed.
		AlreadyPresent int
		// NotFound counts icons the endpoint answered 404 for.
		NotFound int
		// Failed counts downloads that failed for any other reason.
		Failed int
		// SkippedNS counts namespace groups dropped for lack of a URL
		// template, once per root they appear under.
		SkippedNS int
	}

	// Collector runs collection passes through one fetch client.
	Collector struct {
		client *fetch.Client
	}
)

// New creates a Collector that downloads through client.
func New(client *fetch.Client) *Collector {
	return &Collector{client: client}
}

// Run executes one collection pass and returns its report. Scanning
// and planning always complete; a dry run stops there. Otherwise every
// plannable icon is fetched, and per-icon failures are recorded in the
// report rather than returned. The only error is a context already
// cancelled on entry.
func (c *Collector) Run(ctx context.Context, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{Plans: c.plan(opts)}
	for _, p := range report.Plans {
		for _, g := range p.Groups {
			if g.Skipped {
				report.SkippedNS++
			}
		}
	}
	if opts.DryRun {
		return report, nil
	}

	var jobs []fetch.Job
	for _, p := range report.Plans {
		for _, g := range p.Groups {
			if g.Skipped {
				slog.Debug("no URL template for namespace, skipping",
					"namespace", g.Namespace, "root", p.Root)
				continue
			}
			dir := filepath.Dir(g.Icons[0].Dest)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				for _, icon := range g.Icons {
					report.Results = append(report.Results, fetch.Result{
						Job:     fetch.Job{Ref: icon.Ref, Dest: icon.Dest},
						Outcome: fetch.Outcome{Kind: fetch.Failed, Err: fmt.Errorf("creating %s: %w", dir, err)},
					})
					report.Failed++
				}
				continue
			}
			for _, icon := range g.Icons {
				jobs = append(jobs, fetch.Job{Ref: icon.Ref, Dest: icon.Dest})
			}
		}
	}

	batch := c.client.FetchBatch(ctx, jobs, opts.Concurrency, opts.Timeout)
	report.Results = append(report.Results, batch.Results...)
	report.Downloaded = batch.Counts.Fetched
	report.AlreadyPresent = batch.Counts.AlreadyPresent
	report.NotFound = batch.Counts.NotFound
	report.Failed += batch.Counts.Failed
	return report, nil
}

// plan scans the corpus and builds the grouped collection plan for the
// selected mode.
func (c *Collector) plan(opts Options) []OwnerPlan {
	if opts.Central {
		output := opts.Output
		if output == "" {
			output = defaultOutput
		}
		refs := scanner.ScanCorpus(opts.Roots, opts.Extensions)
		grouped := scanner.GroupByNamespace(refs, opts.DefaultNamespace)
		if len(grouped) == 0 {
			return nil
		}
		return []OwnerPlan{{Root: output, Groups: c.buildGroups(output, grouped)}}
	}

	scans := scanner.ScanPerOwner(opts.Roots, opts.Extensions, opts.DefaultNamespace)
	plans := make([]OwnerPlan, 0, len(scans))
	for _, s := range scans {
		baseDir := filepath.Join(s.Root, "static", "icons")
		plans = append(plans, OwnerPlan{Root: s.Root, Groups: c.buildGroups(baseDir, s.Refs)})
	}
	return plans
}

// buildGroups turns one root's namespace-to-names mapping into sorted
// namespace groups with destination paths under baseDir.
func (c *Collector) buildGroups(baseDir string, refs map[string][]string) []Group {
	groups := make([]Group, 0, len(refs))
	for ns, names := range refs {
		_, ok := c.client.Template(ns)
		g := Group{Namespace: ns, Skipped: !ok, Icons: make([]PlannedIcon, 0, len(names))}
		for _, name := range names {
			g.Icons = append(g.Icons, PlannedIcon{
				Ref:  iconref.Ref{Namespace: ns, Name: name},
				Dest: filepath.Join(baseDir, ns, name+".svg"),
			})
		}
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Namespace < groups[j].Namespace })
	return groups
}

// Planned counts the icons the plan would fetch, excluding skipped
// namespace groups.
func (r *Report) Planned() int {
	n := 0
	for _, p := range r.Plans {
		for _, g := range p.Groups {
			if g.Skipped {
				continue
			}
			n += len(g.Icons)
		}
	}
	return n
}
