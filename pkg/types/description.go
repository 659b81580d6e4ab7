// SPDX-License-Identifier: MPL-2.0

// Package types defines cross-cutting value types used by multiple domain
// packages (config, icons/packs, the CLI layer). These are foundation types
// that carry semantic meaning and validation but have no domain-specific
// dependencies.
//
// This package is a leaf dependency: it imports only the standard library.
// Domain packages import it; it never imports domain packages.
package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidDescriptionText is the sentinel error wrapped by InvalidDescriptionTextError.
var ErrInvalidDescriptionText = errors.New("invalid description text")

// MaxDescriptionLen caps DescriptionText at a length that still renders on
// one line in pack and namespace listings.
const MaxDescriptionLen = 200

type (
	// DescriptionText is a one-line blurb attached to an icon pack or
	// namespace. The zero value ("") means no description. Non-zero values
	// must contain visible characters and fit within MaxDescriptionLen.
	DescriptionText string

	// InvalidDescriptionTextError reports a DescriptionText that violates
	// one of its constraints.
	InvalidDescriptionTextError struct {
		Value  DescriptionText
		Reason string
	}
)

// String returns the description as a plain string.
func (d DescriptionText) String() string { return string(d) }

// IsValid checks the description's constraints. The zero value is valid;
// non-zero values must not be whitespace-only and must not exceed
// MaxDescriptionLen characters.
func (d DescriptionText) IsValid() (bool, []error) {
	if d == "" {
		return true, nil
	}
	if strings.TrimSpace(string(d)) == "" {
		return false, []error{&InvalidDescriptionTextError{
			Value:  d,
			Reason: "must not be whitespace-only",
		}}
	}
	if n := utf8.RuneCountInString(string(d)); n > MaxDescriptionLen {
		return false, []error{&InvalidDescriptionTextError{
			Value:  d,
			Reason: fmt.Sprintf("must be at most %d characters (got %d)", MaxDescriptionLen, n),
		}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDescriptionTextError.
func (e *InvalidDescriptionTextError) Error() string {
	return "invalid description text: " + e.Reason
}

// Unwrap returns ErrInvalidDescriptionText for errors.Is() compatibility.
func (e *InvalidDescriptionTextError) Unwrap() error { return ErrInvalidDescriptionText }
