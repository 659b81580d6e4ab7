// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize caps CUE input at 5MB. Config files are hand-written
// and small; anything past this is either corrupt or hostile.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	parseOptions struct {
		maxFileSize int64
		concrete    bool
		filename    string
	}

	// Option configures a ParseAndDecode call.
	Option func(*parseOptions)
)

func defaultOptions() parseOptions {
	return parseOptions{maxFileSize: DefaultMaxFileSize, concrete: true}
}

// errorFilename is the name attached to CUE error positions, with a
// placeholder for anonymous input.
func (o parseOptions) errorFilename() string {
	if o.filename == "" {
		return "<input>"
	}
	return o.filename
}

// WithMaxFileSize overrides the DefaultMaxFileSize input cap.
func WithMaxFileSize(size int64) Option {
	return func(o *parseOptions) { o.maxFileSize = size }
}

// WithConcrete controls whether validation requires every field to be
// concrete after unification. Pass false for schemas with optional fields,
// such as the glyphkit config where most keys fall back to defaults.
func WithConcrete(concrete bool) Option {
	return func(o *parseOptions) { o.concrete = concrete }
}

// WithFilename attaches a filename to CUE error positions so messages
// point at the file the user actually edited.
func WithFilename(name string) Option {
	return func(o *parseOptions) { o.filename = name }
}
