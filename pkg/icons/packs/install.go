// SPDX-License-Identifier: MPL-2.0

package packs

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"glyphkit/pkg/platform"
)

// defaultDownloadTimeout bounds the archive download when the caller does
// not supply an HTTP client.
const defaultDownloadTimeout = 60 * time.Second

type (
	// InstallResult reports a completed pack install.
	InstallResult struct {
		// Pack is the installed descriptor.
		Pack Pack
		// Extracted is the number of SVG files written.
		Extracted int
		// Dir is the icons directory the files were written to.
		Dir string
	}

	installOptions struct {
		httpClient *http.Client
		archiveURL string
	}

	// InstallOption configures a single Install call.
	InstallOption func(*installOptions)
)

// WithHTTPClient overrides the HTTP client used for the archive download.
func WithHTTPClient(client *http.Client) InstallOption {
	return func(o *installOptions) { o.httpClient = client }
}

// WithArchiveURL overrides the pack's archive URL. Intended for tests that
// serve a fixture archive from a local server.
func WithArchiveURL(url string) InstallOption {
	return func(o *installOptions) { o.archiveURL = url }
}

// Install downloads the pack's release archive and extracts its SVG files
// into `<packsDir>/<id>/icons`, normalizing each filename with the pack's
// normalizer. Reinstalling replaces the previous set: existing SVG files
// are removed before extraction. The install is recorded in the state file
// only after extraction succeeds.
func Install(ctx context.Context, p Pack, packsDir string, opts ...InstallOption) (InstallResult, error) {
	if err := p.Validate(); err != nil {
		return InstallResult{}, err
	}

	options := installOptions{
		httpClient: &http.Client{Timeout: defaultDownloadTimeout},
		archiveURL: p.ArchiveURL,
	}
	for _, opt := range opts {
		opt(&options)
	}

	archivePath, err := downloadArchive(ctx, options.httpClient, options.archiveURL)
	if err != nil {
		return InstallResult{}, err
	}
	defer os.Remove(archivePath)

	iconsDir := p.IconsDir(packsDir)
	if err := os.MkdirAll(iconsDir, 0o755); err != nil {
		return InstallResult{}, fmt.Errorf("create icons dir: %w", err)
	}
	if err := clearSVGs(iconsDir); err != nil {
		return InstallResult{}, err
	}

	count, err := extractSVGs(p, archivePath, iconsDir)
	if err != nil {
		return InstallResult{}, err
	}

	state, err := ReadState(packsDir)
	if err != nil {
		state = &State{Packs: map[string]PackRecord{}}
	}
	state.Record(p, count)
	if err := WriteState(packsDir, state); err != nil {
		return InstallResult{}, err
	}

	return InstallResult{Pack: p, Extracted: count, Dir: iconsDir}, nil
}

// downloadArchive fetches url into a temp file and returns its path. The
// caller removes the file.
func downloadArchive(ctx context.Context, client *http.Client, url string) (string, error) {
	tmp, err := os.CreateTemp("", "glyphkit-pack-*.zip")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer tmp.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("build download request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("download pack archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("download pack archive: unexpected status %s", resp.Status)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save pack archive: %w", err)
	}

	return tmp.Name(), nil
}

// clearSVGs removes the top-level SVG files in dir so a reinstall replaces
// the previous set instead of merging with it.
func clearSVGs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read icons dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".svg") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("clear previous icons: %w", err)
		}
	}
	return nil
}

// extractSVGs walks the archive once per declared style location and writes
// each SVG under its normalized name.
func extractSVGs(p Pack, archivePath, iconsDir string) (int, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, fmt.Errorf("open pack archive: %w", err)
	}
	defer reader.Close()

	count := 0
	for _, loc := range p.StyleDirs {
		prefix := loc.Subpath + "/"
		for _, file := range reader.File {
			if file.FileInfo().IsDir() {
				continue
			}
			if !strings.HasPrefix(file.Name, prefix) || !strings.HasSuffix(file.Name, ".svg") {
				continue
			}

			stem := strings.TrimSuffix(path.Base(file.Name), ".svg")
			normalized := p.Normalize(stem, loc.Style)
			destPath := filepath.Join(iconsDir, normalized+".svg")

			// Reject entries whose normalized target escapes the icons dir.
			rel, err := filepath.Rel(iconsDir, destPath)
			if err != nil || strings.HasPrefix(rel, "..") || strings.ContainsRune(rel, filepath.Separator) {
				return count, fmt.Errorf("invalid icon name in archive: %s", file.Name)
			}
			// Skip names Windows cannot store; the extracted tree has to
			// survive a checkout on every platform.
			if platform.IsWindowsReservedName(normalized) {
				continue
			}

			if err := extractFile(file, destPath); err != nil {
				return count, fmt.Errorf("extract %s: %w", file.Name, err)
			}
			count++
		}
	}
	return count, nil
}

// extractFile copies one archive entry to destPath.
func extractFile(file *zip.File, destPath string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	dest, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer dest.Close()

	_, err = io.Copy(dest, rc)
	return err
}
