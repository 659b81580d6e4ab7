// SPDX-License-Identifier: MPL-2.0

// Package fetch downloads missing icons from per-namespace CDN endpoints.
// It serves the offline collect pipeline; live resolution never touches
// the network.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"glyphkit/pkg/iconref"
	"glyphkit/pkg/icons/packs"
)

const (
	// maxBodyBytes caps a single icon download (4 MiB). Icon files are a
	// few KB; anything larger is rejected rather than written truncated.
	maxBodyBytes = 4 << 20

	// DefaultTimeout bounds a single fetch when the caller passes none.
	DefaultTimeout = 10 * time.Second

	// DefaultConcurrency is the fan-out width for batch fetches.
	DefaultConcurrency = 8
)

// Kind classifies what a single fetch attempt did.
type Kind int

const (
	// Fetched means the icon was downloaded and written to its destination.
	Fetched Kind = iota
	// AlreadyPresent means the destination file existed, so no request was made.
	AlreadyPresent
	// NoTemplate means the reference's namespace has no URL template.
	NoTemplate
	// NotFound means the endpoint answered 404 for this icon name.
	NotFound
	// Failed covers every other HTTP status, transport, and filesystem error.
	Failed
)

// String returns the lowercase label used in logs and summaries.
func (k Kind) String() string {
	switch k {
	case Fetched:
		return "fetched"
	case AlreadyPresent:
		return "already present"
	case NoTemplate:
		return "no template"
	case NotFound:
		return "not found"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type (
	// Outcome reports one fetch attempt. Status is set when the server
	// answered with a relevant HTTP code; Err is set for transport and
	// filesystem failures.
	Outcome struct {
		Kind   Kind
		Status int
		Err    error
	}

	// Job names one icon to fetch and the file it should land in.
	Job struct {
		Ref  iconref.Ref
		Dest string
	}

	// Result pairs a job with its outcome.
	Result struct {
		Job     Job
		Outcome Outcome
	}

	// Counts tallies batch outcomes by kind.
	Counts struct {
		Fetched        int
		AlreadyPresent int
		NoTemplate     int
		NotFound       int
		Failed         int
	}

	// BatchResult aggregates one batch run. Results preserves job order
	// after destination deduplication.
	BatchResult struct {
		Results []Result
		Counts  Counts
	}

	// Client fetches icons over HTTP using per-namespace URL templates.
	// Construct with NewClient; the zero value has no template table.
	Client struct {
		httpClient *http.Client
		userAgent  string
		templates  map[string]string
	}

	// Option configures a Client during construction.
	Option func(*Client)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Client) {
		f.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Client) {
		f.userAgent = ua
	}
}

// WithTemplates replaces the namespace to URL-template table. Templates
// carry a {name} placeholder, e.g. "https://cdn.example/{name}.svg".
func WithTemplates(templates map[string]string) Option {
	return func(f *Client) {
		f.templates = templates
	}
}

// NewClient creates a Client with sensible defaults: the shared HTTP
// client, a glyphkit User-Agent, and the built-in pack CDN table.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		userAgent:  "glyphkit/dev",
		templates:  packs.CDNTemplates(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Template returns the URL template bound to namespace, if any.
func (c *Client) Template(namespace string) (string, bool) {
	tmpl, ok := c.templates[namespace]
	return tmpl, ok
}

// FetchOne downloads the icon named by ref into destPath. A destination
// that already exists short-circuits to AlreadyPresent without touching
// the network, so re-running a collect only downloads what is missing.
// A non-positive timeout falls back to DefaultTimeout. The destination's
// parent directory must exist.
func (c *Client) FetchOne(ctx context.Context, ref iconref.Ref, destPath string, timeout time.Duration) Outcome {
	tmpl, ok := c.templates[ref.Namespace]
	if !ok {
		return Outcome{Kind: NoTemplate}
	}

	if _, err := os.Stat(destPath); err == nil {
		return Outcome{Kind: AlreadyPresent}
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fetchURL := strings.ReplaceAll(tmpl, "{name}", ref.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, http.NoBody)
	if err != nil {
		return Outcome{Kind: Failed, Err: fmt.Errorf("creating request for %s: %w", ref, err)}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Outcome{Kind: Failed, Err: fmt.Errorf("fetching %s: %w", ref, err)}
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode == http.StatusNotFound {
		return Outcome{Kind: NotFound, Status: http.StatusNotFound}
	}
	if resp.StatusCode != http.StatusOK {
		return Outcome{
			Kind:   Failed,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("fetching %s: unexpected status %d", ref, resp.StatusCode),
		}
	}

	if err := writeAtomic(destPath, resp.Body); err != nil {
		return Outcome{Kind: Failed, Err: fmt.Errorf("writing %s: %w", ref, err)}
	}
	return Outcome{Kind: Fetched}
}

// FetchBatch fans jobs out across at most concurrency workers. Jobs
// sharing a destination path are collapsed to the first occurrence so
// concurrent workers never race on one file. Each fetch gets its own
// timeout; individual failures are recorded in the result, never
// propagated, so one bad icon cannot cancel the rest of the batch.
func (c *Client) FetchBatch(ctx context.Context, jobs []Job, concurrency int, timeout time.Duration) BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	deduped := dedupeJobs(jobs)
	results := make([]Result, len(deduped))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, job := range deduped {
		g.Go(func() error {
			results[i] = Result{Job: job, Outcome: c.FetchOne(ctx, job.Ref, job.Dest, timeout)}
			return nil
		})
	}
	_ = g.Wait() // workers record outcomes instead of returning errors

	batch := BatchResult{Results: results}
	for i := range results {
		batch.Counts.add(results[i].Outcome.Kind)
	}
	return batch
}

// add bumps the counter for one outcome kind.
func (c *Counts) add(k Kind) {
	switch k {
	case Fetched:
		c.Fetched++
	case AlreadyPresent:
		c.AlreadyPresent++
	case NoTemplate:
		c.NoTemplate++
	case NotFound:
		c.NotFound++
	case Failed:
		c.Failed++
	}
}

// dedupeJobs keeps the first job for each destination path, preserving order.
func dedupeJobs(jobs []Job) []Job {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		if _, dup := seen[job.Dest]; dup {
			continue
		}
		seen[job.Dest] = struct{}{}
		out = append(out, job)
	}
	return out
}

// writeAtomic streams r into destPath through a same-directory temp file
// so a failed or interrupted download never leaves a partial icon behind.
// The body is capped at maxBodyBytes; a larger body is an error.
func writeAtomic(destPath string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing body: %w", err)
	}
	if n > maxBodyBytes {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("response body exceeds %d bytes", int64(maxBodyBytes))
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("moving icon into place: %w", err)
	}
	return nil
}
