// SPDX-License-Identifier: MPL-2.0

// Package iconref defines the icon reference value type shared by the
// resolution engine, the usage scanner, and the collection tooling.
//
// A reference is the wire format "[namespace:]name". The namespace partitions
// the reference space by source (icon pack or custom directory); the name is
// the icon's canonical name within that namespace. References are ASCII and
// case-sensitive.
//
// This package is a leaf dependency: it imports only the standard library.
package iconref

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRef is the sentinel error wrapped by InvalidRefError.
var ErrInvalidRef = errors.New("invalid icon reference")

type (
	// Ref identifies one icon asset as a (namespace, name) pair. The zero
	// value is not a valid reference. Refs are comparable; equality is by
	// both fields.
	Ref struct {
		// Namespace is the source tag, e.g. "ion" or "hero". Never empty
		// for a Ref produced by Parse.
		Namespace string
		// Name is the icon name within the namespace, e.g. "home" or
		// "home-outline". Never empty for a Ref produced by Parse.
		Name string
	}

	// InvalidRefError is returned when a raw reference string cannot be
	// parsed into a non-empty namespace and name.
	InvalidRefError struct {
		Raw string
	}
)

// Parse splits a raw reference string on the first ":" into a Ref. A raw
// string without ":" takes defaultNamespace. The name part may itself
// contain ":"; only the first separator is structural.
//
// Parse fails when the namespace (explicit or defaulted) or the name is
// empty, so a returned Ref always satisfies the non-empty invariant.
func Parse(raw, defaultNamespace string) (Ref, error) {
	namespace, name, found := strings.Cut(raw, ":")
	if !found {
		namespace, name = defaultNamespace, raw
	}
	if namespace == "" || name == "" {
		return Ref{}, &InvalidRefError{Raw: raw}
	}
	return Ref{Namespace: namespace, Name: name}, nil
}

// String returns the canonical "namespace:name" form. For any Ref produced
// by Parse, parsing the String form again yields an equal Ref.
func (r Ref) String() string {
	return r.Namespace + ":" + r.Name
}

// IsZero reports whether the Ref is the zero value.
func (r Ref) IsZero() bool {
	return r.Namespace == "" && r.Name == ""
}

// IsValid returns whether the Ref satisfies the reference invariants:
// non-empty namespace without a ":" separator, and a non-empty name.
func (r Ref) IsValid() (bool, []error) {
	var errs []error
	if r.Namespace == "" || r.Name == "" || strings.Contains(r.Namespace, ":") {
		errs = append(errs, &InvalidRefError{Raw: r.String()})
	}
	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

// Error implements the error interface for InvalidRefError.
func (e *InvalidRefError) Error() string {
	return fmt.Sprintf("invalid icon reference %q: namespace and name must be non-empty", e.Raw)
}

// Unwrap returns ErrInvalidRef for errors.Is() compatibility.
func (e *InvalidRefError) Unwrap() error { return ErrInvalidRef }
