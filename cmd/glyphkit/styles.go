// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/charmbracelet/lipgloss"

// Shared palette, tuned for dark terminal backgrounds.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED") // purple: titles and headers
	ColorMuted     = lipgloss.Color("#6B7280") // gray: secondary text
	ColorSuccess   = lipgloss.Color("#10B981") // green: ✓ markers, success lines
	ColorError     = lipgloss.Color("#EF4444") // red: ✗ markers, failures
	ColorWarning   = lipgloss.Color("#F59E0B") // amber: degraded-but-continuing states
	ColorHighlight = lipgloss.Color("#3B82F6") // blue: namespaces, keys, paths
	ColorVerbose   = lipgloss.Color("#9CA3AF") // light gray: --verbose detail
)

var (
	// TitleStyle heads sections such as the namespace overview and the
	// config listing.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle de-emphasizes helper lines under a title.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle marks completed installs and resolved references.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle marks failures; bold so the marker carries even when the
	// line wraps.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle flags conditions the run survives, like a cache store
	// that failed to open.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for namespaces, config keys, and filesystem paths.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// VerboseStyle is for per-icon detail shown only under --verbose.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)
)
