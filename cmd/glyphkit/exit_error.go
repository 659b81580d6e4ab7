// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"glyphkit/pkg/types"
)

// ExitError carries the exit code a RunE handler wants, letting the error
// travel up through cobra and fang before Execute calls os.Exit once.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
