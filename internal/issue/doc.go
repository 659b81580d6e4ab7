// SPDX-License-Identifier: MPL-2.0

// Package issue turns glyphkit failures into guidance the user can act on.
//
// It carries two layers: a small catalog of known failure cards (missing
// config, unresolvable icon, uninstalled pack, broken cache store) rendered
// as Markdown via glamour, and ActionableError, which wraps a cause with
// the operation, the resource involved, and concrete remediation steps for
// the CLI to print.
package issue
