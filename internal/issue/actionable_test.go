// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "resolve icon reference"},
			want: "failed to resolve icon reference",
		},
		{
			name: "operation and resource",
			err: &ActionableError{
				Operation: "install icon pack",
				Resource:  "heroicons",
			},
			want: "failed to install icon pack: heroicons",
		},
		{
			name: "operation and cause",
			err: &ActionableError{
				Operation: "read cache store",
				Cause:     errors.New("file locked"),
			},
			want: "failed to read cache store: file locked",
		},
		{
			name: "all fields",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "./glyphkit.cue",
				Cause:     errors.New("permission denied"),
			},
			want: "failed to load configuration: ./glyphkit.cue: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := NewErrorContext().
		WithOperation("download icon").
		WithResource("ion:rocket").
		Wrap(cause).
		BuildError()

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}

	var ae *ActionableError
	if !errors.As(fmt.Errorf("collect: %w", err), &ae) {
		t.Fatal("errors.As should find the ActionableError through wrapping")
	}
	if ae.Resource != "ion:rocket" {
		t.Errorf("Resource = %q, want %q", ae.Resource, "ion:rocket")
	}

	bare := &ActionableError{Operation: "list namespaces"}
	if bare.Unwrap() != nil {
		t.Error("Unwrap without a cause should return nil")
	}
}

func TestActionableErrorFormat(t *testing.T) {
	t.Parallel()

	t.Run("no suggestions matches Error", func(t *testing.T) {
		t.Parallel()
		err := &ActionableError{Operation: "scan corpus", Resource: "templates/"}
		if got := err.Format(false); got != err.Error() {
			t.Errorf("Format(false) = %q, want %q", got, err.Error())
		}
	})

	t.Run("suggestions render as bullets", func(t *testing.T) {
		t.Parallel()
		err := &ActionableError{
			Operation: "resolve icon reference",
			Resource:  "hero:rocket",
			Suggestions: []string{
				"Run 'glyphkit packs install heroicons'",
				"Check the namespace with 'glyphkit list'",
			},
		}

		got := err.Format(false)
		if !strings.Contains(got, "\n  • Run 'glyphkit packs install heroicons'") {
			t.Errorf("missing first suggestion bullet:\n%s", got)
		}
		if !strings.Contains(got, "\n  • Check the namespace with 'glyphkit list'") {
			t.Errorf("missing second suggestion bullet:\n%s", got)
		}
		if !strings.HasPrefix(got, "failed to resolve icon reference: hero:rocket") {
			t.Errorf("formatted output should start with the error line:\n%s", got)
		}
	})

	t.Run("verbose prints the error chain", func(t *testing.T) {
		t.Parallel()
		root := errors.New("dial tcp: connection refused")
		mid := fmt.Errorf("GET archive: %w", root)
		err := &ActionableError{
			Operation: "install icon pack",
			Resource:  "lucide",
			Cause:     mid,
		}

		got := err.Format(true)
		if !strings.Contains(got, "Error chain:") {
			t.Fatalf("verbose output missing chain header:\n%s", got)
		}
		if !strings.Contains(got, "1. GET archive: dial tcp: connection refused") {
			t.Errorf("chain missing first link:\n%s", got)
		}
		if !strings.Contains(got, "2. dial tcp: connection refused") {
			t.Errorf("chain missing unwrapped link:\n%s", got)
		}
	})

	t.Run("verbose without cause omits the chain", func(t *testing.T) {
		t.Parallel()
		err := &ActionableError{Operation: "list namespaces"}
		if got := err.Format(true); strings.Contains(got, "Error chain:") {
			t.Errorf("no cause, no chain:\n%s", got)
		}
	})
}

func TestErrorContextBuild(t *testing.T) {
	t.Parallel()

	t.Run("all fields carry over", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("404")
		ae := NewErrorContext().
			WithOperation("download icon").
			WithResource("tabler:ghost").
			WithSuggestion("Check the icon name against the pack's catalog").
			WithSuggestion("Try 'glyphkit resolve tabler:ghost --check'").
			Wrap(cause).
			Build()

		if ae == nil {
			t.Fatal("Build returned nil with an operation set")
		}
		if ae.Operation != "download icon" {
			t.Errorf("Operation = %q", ae.Operation)
		}
		if ae.Resource != "tabler:ghost" {
			t.Errorf("Resource = %q", ae.Resource)
		}
		if len(ae.Suggestions) != 2 {
			t.Fatalf("got %d suggestions, want 2", len(ae.Suggestions))
		}
		if ae.Suggestions[1] != "Try 'glyphkit resolve tabler:ghost --check'" {
			t.Errorf("suggestions out of order: %v", ae.Suggestions)
		}
		if ae.Cause != cause {
			t.Errorf("Cause = %v", ae.Cause)
		}
	})

	t.Run("operation is required", func(t *testing.T) {
		t.Parallel()
		if ae := NewErrorContext().WithResource("ion:home").Build(); ae != nil {
			t.Errorf("Build without operation = %+v, want nil", ae)
		}
	})
}

func TestErrorContextBuildError(t *testing.T) {
	t.Parallel()

	// A *ActionableError nil would make the returned error interface
	// non-nil; BuildError must return an untyped nil instead.
	if err := NewErrorContext().Wrap(errors.New("boom")).BuildError(); err != nil {
		t.Errorf("BuildError without operation = %v, want nil", err)
	}

	err := NewErrorContext().WithOperation("write state file").BuildError()
	if err == nil {
		t.Fatal("BuildError with operation should not be nil")
	}
	if err.Error() != "failed to write state file" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorContextIncrementalUse(t *testing.T) {
	t.Parallel()

	// Prepare the context up front, finish it at the failure site.
	ctx := NewErrorContext().
		WithOperation("install icon pack").
		WithResource("fontawesome")

	cause := errors.New("unexpected status 503")
	err := ctx.WithSuggestion("Retry once the CDN recovers").Wrap(cause).BuildError()

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("expected an ActionableError")
	}
	if ae.Operation != "install icon pack" || ae.Resource != "fontawesome" {
		t.Errorf("early fields lost: %+v", ae)
	}
	if !errors.Is(err, cause) {
		t.Error("late-wrapped cause not reachable")
	}
}
