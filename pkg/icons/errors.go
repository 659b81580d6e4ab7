// SPDX-License-Identifier: MPL-2.0

package icons

import (
	"errors"
	"fmt"

	"glyphkit/pkg/iconref"
)

var (
	// ErrNotFound is the sentinel error wrapped by NotFoundError.
	ErrNotFound = errors.New("icon not found")

	// ErrInvalidAlias is the sentinel error wrapped by InvalidAliasError.
	ErrInvalidAlias = errors.New("invalid alias target")
)

type (
	// NotFoundError is returned by Resolve when a reference matches no bound
	// source and the registry's silent-missing policy is disabled.
	NotFoundError struct {
		Ref iconref.Ref
	}

	// InvalidAliasError is returned by RegisterAlias when the target spec
	// cannot be parsed into a complete reference. Alias registration happens
	// at startup, so this is a configuration fault.
	InvalidAliasError struct {
		Alias  string
		Target string
	}
)

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("icon %q not found in any bound source", e.Ref)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface for InvalidAliasError.
func (e *InvalidAliasError) Error() string {
	return fmt.Sprintf("alias %q: target %q is not a valid namespace:name reference", e.Alias, e.Target)
}

// Unwrap returns ErrInvalidAlias for errors.Is() compatibility.
func (e *InvalidAliasError) Unwrap() error { return ErrInvalidAlias }
