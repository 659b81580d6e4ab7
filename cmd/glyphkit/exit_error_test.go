// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitErrorMessage(t *testing.T) {
	t.Parallel()

	withCause := &ExitError{Code: 1, Err: errors.New("pack download failed")}
	if got := withCause.Error(); got != "pack download failed" {
		t.Errorf("Error() = %q, want cause message", got)
	}

	bare := &ExitError{Code: 3}
	if got := bare.Error(); got != "exit status 3" {
		t.Errorf("Error() = %q, want %q", got, "exit status 3")
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := fmt.Errorf("running command: %w", &ExitError{Code: 1, Err: cause})

	exitErr, ok := errors.AsType[*ExitError](err)
	if !ok {
		t.Fatal("errors.AsType did not find ExitError in chain")
	}
	if int(exitErr.Code) != 1 {
		t.Errorf("Code = %d, want 1", exitErr.Code)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach the cause through ExitError")
	}
}
