// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"glyphkit/pkg/iconref"
	"glyphkit/pkg/icons/packs"
)

const (
	// StoreNone disables the persistent cache tier.
	StoreNone StoreKind = "none"
	// StoreBolt keeps the persistent tier in a bbolt database file.
	StoreBolt StoreKind = "bolt"
	// StoreSQLite keeps the persistent tier in a SQLite database file.
	StoreSQLite StoreKind = "sqlite"

	// namePlaceholder is the token a fetch URL template substitutes with
	// the icon name.
	namePlaceholder = "{name}"
)

var (
	// ErrInvalidStoreKind is returned when a StoreKind value is not recognized.
	ErrInvalidStoreKind = errors.New("invalid cache store kind")
	// ErrInvalidCacheCapacity is returned when the cache capacity is not positive.
	ErrInvalidCacheCapacity = errors.New("invalid cache capacity")
	// ErrInvalidDuration is the sentinel error wrapped by InvalidDurationError.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidURLTemplate is the sentinel error wrapped by InvalidURLTemplateError.
	ErrInvalidURLTemplate = errors.New("invalid URL template")
	// ErrInvalidAliasTarget is the sentinel error wrapped by InvalidAliasTargetError.
	ErrInvalidAliasTarget = errors.New("invalid alias target")
	// ErrUnknownPackID is the sentinel error wrapped by UnknownPackIDError.
	ErrUnknownPackID = errors.New("unknown pack id")
	// ErrInvalidCacheConfig is the sentinel error wrapped by InvalidCacheConfigError.
	ErrInvalidCacheConfig = errors.New("invalid cache config")
	// ErrInvalidFetchConfig is the sentinel error wrapped by InvalidFetchConfigError.
	ErrInvalidFetchConfig = errors.New("invalid fetch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// StoreKind selects the backend for the persistent cache tier.
	StoreKind string

	// InvalidStoreKindError is returned when a StoreKind value is not recognized.
	// It wraps ErrInvalidStoreKind for errors.Is() compatibility.
	InvalidStoreKindError struct {
		Value StoreKind
	}

	// InvalidCacheCapacityError is returned when the in-memory cache capacity
	// is zero or negative. It wraps ErrInvalidCacheCapacity for errors.Is().
	InvalidCacheCapacityError struct {
		Value int
	}

	// InvalidDurationError is returned when a duration-valued config field
	// does not parse as a Go duration string. It wraps ErrInvalidDuration
	// for errors.Is() compatibility.
	InvalidDurationError struct {
		// Field is the dotted config key, e.g. "cache.ttl" or "fetch.timeout".
		Field string
		Value string
	}

	// InvalidURLTemplateError is returned when a fetch URL template does not
	// contain the "{name}" placeholder. It wraps ErrInvalidURLTemplate for
	// errors.Is() compatibility.
	InvalidURLTemplateError struct {
		Namespace string
		Template  string
	}

	// InvalidAliasTargetError is returned when an alias target does not parse
	// as an icon reference with a non-empty name. It wraps ErrInvalidAliasTarget
	// for errors.Is() compatibility.
	InvalidAliasTargetError struct {
		Alias  string
		Target string
	}

	// UnknownPackIDError is returned when the pack allow-list names an id
	// that is not in the built-in catalog. It wraps ErrUnknownPackID for
	// errors.Is() compatibility.
	UnknownPackIDError struct {
		ID string
	}

	// InvalidCacheConfigError is returned when a CacheConfig has invalid fields.
	// It unwraps to ErrInvalidCacheConfig and the collected field errors, so
	// errors.Is() reaches both the sentinel and the individual findings.
	InvalidCacheConfigError struct {
		FieldErrors []error
	}

	// InvalidFetchConfigError is returned when a FetchConfig has invalid fields.
	// It unwraps to ErrInvalidFetchConfig and the collected field errors, so
	// errors.Is() reaches both the sentinel and the individual findings.
	InvalidFetchConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields. It
	// unwraps to ErrInvalidConfig and the field errors collected from all
	// sub-components, so errors.Is() reaches both the sentinel and the
	// individual findings.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// DefaultNamespace is assumed for bare icon references.
		DefaultNamespace string `json:"default_namespace" mapstructure:"default_namespace"`
		// SilentMissing renders unresolvable references as empty output
		// instead of returning an error.
		SilentMissing bool `json:"silent_missing" mapstructure:"silent_missing"`
		// AutoDiscover registers installed packs automatically at startup.
		AutoDiscover bool `json:"auto_discover" mapstructure:"auto_discover"`
		// Packs is the allow-list of pack ids eligible for auto-discovery.
		Packs []string `json:"packs" mapstructure:"packs"`
		// PacksDir is the root directory holding installed icon packs.
		PacksDir string `json:"packs_dir" mapstructure:"packs_dir"`
		// IconDirs binds extra namespaces to custom SVG directories.
		IconDirs map[string]string `json:"icon_dirs" mapstructure:"icon_dirs"`
		// Aliases maps shorthand names to "namespace:name" targets.
		Aliases map[string]string `json:"aliases" mapstructure:"aliases"`
		// Cache configures the two-tier resolution cache.
		Cache CacheConfig `json:"cache" mapstructure:"cache"`
		// Render carries hints consumed by host integrations.
		Render RenderConfig `json:"render" mapstructure:"render"`
		// Fetch configures CDN downloads.
		Fetch FetchConfig `json:"fetch" mapstructure:"fetch"`
		// Collect configures the offline collection pipeline.
		Collect CollectConfig `json:"collect" mapstructure:"collect"`
	}

	// CacheConfig configures the two-tier resolution cache.
	CacheConfig struct {
		// Capacity bounds the in-memory tier (entries, not bytes).
		Capacity int `json:"capacity" mapstructure:"capacity"`
		// TTL is the persistent-tier entry lifetime as a Go duration string.
		TTL string `json:"ttl" mapstructure:"ttl"`
		// Store selects the persistent tier backend.
		Store StoreKind `json:"store" mapstructure:"store"`
		// Path is the directory holding the persistent tier database file.
		Path string `json:"path" mapstructure:"path"`
	}

	// RenderConfig carries rendering hints for host integrations. The
	// resolver itself never reads these; they ride along in the config so
	// template layers share one settings file.
	RenderConfig struct {
		// DefaultSize is a pixel size hint; 0 means unset.
		DefaultSize int `json:"default_size" mapstructure:"default_size"`
		// DefaultClass is a CSS class hint.
		DefaultClass string `json:"default_class" mapstructure:"default_class"`
		// AriaHidden marks rendered icons aria-hidden.
		AriaHidden bool `json:"aria_hidden" mapstructure:"aria_hidden"`
	}

	// FetchConfig configures CDN downloads for the collection pipeline.
	FetchConfig struct {
		// Timeout is the per-icon download timeout as a Go duration string.
		Timeout string `json:"timeout" mapstructure:"timeout"`
		// Concurrency bounds parallel downloads in a batch.
		Concurrency int `json:"concurrency" mapstructure:"concurrency"`
		// URLTemplates overrides per-namespace download URLs. Entries shadow
		// the catalog defaults namespace by namespace; each template must
		// contain the "{name}" placeholder.
		URLTemplates map[string]string `json:"url_templates" mapstructure:"url_templates"`
	}

	// CollectConfig configures the offline collection pipeline.
	CollectConfig struct {
		// Output is the output root for central-mode collection.
		Output string `json:"output" mapstructure:"output"`
		// Extensions lists the file extensions scanned for icon references.
		Extensions []string `json:"extensions" mapstructure:"extensions"`
		// Roots lists the directories scanned as owner units.
		Roots []string `json:"roots" mapstructure:"roots"`
	}
)

// String returns the string representation of the StoreKind.
func (k StoreKind) String() string { return string(k) }

// IsValid returns whether the StoreKind is one of the defined store kinds,
// and a list of validation errors if it is not.
func (k StoreKind) IsValid() (bool, []error) {
	switch k {
	case StoreNone, StoreBolt, StoreSQLite:
		return true, nil
	default:
		return false, []error{&InvalidStoreKindError{Value: k}}
	}
}

// Error implements the error interface for InvalidStoreKindError.
func (e *InvalidStoreKindError) Error() string {
	return fmt.Sprintf("invalid cache store kind %q (valid: none, bolt, sqlite)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidStoreKindError) Unwrap() error {
	return ErrInvalidStoreKind
}

// Error implements the error interface for InvalidCacheCapacityError.
func (e *InvalidCacheCapacityError) Error() string {
	return fmt.Sprintf("invalid cache capacity %d: must be positive", e.Value)
}

// Unwrap returns ErrInvalidCacheCapacity for errors.Is() compatibility.
func (e *InvalidCacheCapacityError) Unwrap() error { return ErrInvalidCacheCapacity }

// Error implements the error interface for InvalidDurationError.
func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration %q for %s: use Go syntax like \"24h\" or \"10s\"", e.Value, e.Field)
}

// Unwrap returns ErrInvalidDuration for errors.Is() compatibility.
func (e *InvalidDurationError) Unwrap() error { return ErrInvalidDuration }

// Error implements the error interface for InvalidURLTemplateError.
func (e *InvalidURLTemplateError) Error() string {
	return fmt.Sprintf("invalid URL template %q for namespace %q: must contain %q", e.Template, e.Namespace, namePlaceholder)
}

// Unwrap returns ErrInvalidURLTemplate for errors.Is() compatibility.
func (e *InvalidURLTemplateError) Unwrap() error { return ErrInvalidURLTemplate }

// Error implements the error interface for InvalidAliasTargetError.
func (e *InvalidAliasTargetError) Error() string {
	return fmt.Sprintf("invalid alias target %q for alias %q: must reference an icon like \"ion:home\"", e.Target, e.Alias)
}

// Unwrap returns ErrInvalidAliasTarget for errors.Is() compatibility.
func (e *InvalidAliasTargetError) Unwrap() error { return ErrInvalidAliasTarget }

// Error implements the error interface for UnknownPackIDError.
func (e *UnknownPackIDError) Error() string {
	return fmt.Sprintf("unknown pack id %q (valid: %s)", e.ID, strings.Join(packs.IDs(), ", "))
}

// Unwrap returns ErrUnknownPackID for errors.Is() compatibility.
func (e *UnknownPackIDError) Unwrap() error { return ErrUnknownPackID }

// IsValid returns whether the CacheConfig has valid fields: a positive
// capacity, a parseable TTL, and a recognized store kind.
func (c CacheConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Capacity <= 0 {
		errs = append(errs, &InvalidCacheCapacityError{Value: c.Capacity})
	}
	if _, err := time.ParseDuration(c.TTL); err != nil {
		errs = append(errs, &InvalidDurationError{Field: "cache.ttl", Value: c.TTL})
	}
	if valid, fieldErrs := c.Store.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidCacheConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// TTLDuration returns the parsed TTL. Call after validation; an unparseable
// value returns zero.
func (c CacheConfig) TTLDuration() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0
	}
	return d
}

// Error implements the error interface for InvalidCacheConfigError.
func (e *InvalidCacheConfigError) Error() string {
	return fmt.Sprintf("invalid cache config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidCacheConfig and the field errors for errors.Is()
// and errors.As() traversal.
func (e *InvalidCacheConfigError) Unwrap() []error {
	return append([]error{ErrInvalidCacheConfig}, e.FieldErrors...)
}

// IsValid returns whether the FetchConfig has valid fields: a parseable
// timeout and URL templates that carry the "{name}" placeholder.
// Concurrency needs no validation; non-positive values fall back to the
// fetch client's default at the call site.
func (c FetchConfig) IsValid() (bool, []error) {
	var errs []error
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		errs = append(errs, &InvalidDurationError{Field: "fetch.timeout", Value: c.Timeout})
	}
	for _, namespace := range sortedKeys(c.URLTemplates) {
		if tmpl := c.URLTemplates[namespace]; !strings.Contains(tmpl, namePlaceholder) {
			errs = append(errs, &InvalidURLTemplateError{Namespace: namespace, Template: tmpl})
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidFetchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// TimeoutDuration returns the parsed timeout. Call after validation; an
// unparseable value returns zero.
func (c FetchConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Error implements the error interface for InvalidFetchConfigError.
func (e *InvalidFetchConfigError) Error() string {
	return fmt.Sprintf("invalid fetch config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidFetchConfig and the field errors for errors.Is()
// and errors.As() traversal.
func (e *InvalidFetchConfigError) Unwrap() []error {
	return append([]error{ErrInvalidFetchConfig}, e.FieldErrors...)
}

// IsValid returns whether the Config has valid fields.
// It delegates to Cache.IsValid() and Fetch.IsValid(), parses every alias
// target against the configured default namespace, and checks the pack
// allow-list against the built-in catalog. Render and Collect carry only
// unconstrained values and need no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Cache.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Fetch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, alias := range sortedKeys(c.Aliases) {
		target := c.Aliases[alias]
		if _, err := iconref.Parse(target, c.DefaultNamespace); err != nil {
			errs = append(errs, &InvalidAliasTargetError{Alias: alias, Target: target})
		}
	}
	for _, id := range c.Packs {
		if _, ok := packs.ByID(id); !ok {
			errs = append(errs, &UnknownPackIDError{ID: id})
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is()
// and errors.As() traversal.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultNamespace: "ion",
		SilentMissing:    true,
		AutoDiscover:     true,
		Packs:            packs.IDs(),
		PacksDir:         "", // Will use DataDir()/packs if empty
		IconDirs:         map[string]string{},
		Aliases:          map[string]string{},
		Cache: CacheConfig{
			Capacity: 1000,
			TTL:      "24h",
			Store:    StoreNone,
			Path:     "", // Will use DataDir()/cache if empty
		},
		Render: RenderConfig{
			DefaultSize:  0,
			DefaultClass: "",
			AriaHidden:   true,
		},
		Fetch: FetchConfig{
			Timeout:      "10s",
			Concurrency:  8,
			URLTemplates: map[string]string{},
		},
		Collect: CollectConfig{
			Output:     "static/icons",
			Extensions: []string{".html", ".txt"},
			Roots:      []string{},
		},
	}
}
