// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"glyphkit/pkg/types"
)

func TestLoadOptionsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		opts          LoadOptions
		wantFieldErrs int
	}{
		{
			name:          "zero options fall back to defaults",
			opts:          LoadOptions{},
			wantFieldErrs: 0,
		},
		{
			name: "well-formed paths",
			opts: LoadOptions{
				ConfigFilePath: "/tmp/glyphkit.cue",
				ConfigDirPath:  "/tmp/config",
			},
			wantFieldErrs: 0,
		},
		{
			name:          "whitespace config file path",
			opts:          LoadOptions{ConfigFilePath: types.FilesystemPath("   ")},
			wantFieldErrs: 1,
		},
		{
			name:          "whitespace config dir path",
			opts:          LoadOptions{ConfigDirPath: types.FilesystemPath("\t")},
			wantFieldErrs: 1,
		},
		{
			name: "both paths bad collects both errors",
			opts: LoadOptions{
				ConfigFilePath: types.FilesystemPath("   "),
				ConfigDirPath:  types.FilesystemPath("\t"),
			},
			wantFieldErrs: 2,
		},
		{
			name: "empty field next to a bad one stays silent",
			opts: LoadOptions{
				ConfigFilePath: "",
				ConfigDirPath:  types.FilesystemPath("   "),
			},
			wantFieldErrs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if tt.wantFieldErrs == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, ErrInvalidLoadOptions) {
				t.Errorf("error does not wrap ErrInvalidLoadOptions: %v", err)
			}
			if !errors.Is(err, types.ErrInvalidFilesystemPath) {
				t.Errorf("error does not surface the path sentinel: %v", err)
			}
			var loadErr *InvalidLoadOptionsError
			if !errors.As(err, &loadErr) {
				t.Fatalf("error is %T, want *InvalidLoadOptionsError", err)
			}
			if len(loadErr.FieldErrors) != tt.wantFieldErrs {
				t.Errorf("got %d field errors, want %d: %v",
					len(loadErr.FieldErrors), tt.wantFieldErrs, loadErr.FieldErrors)
			}
		})
	}
}

func TestInvalidLoadOptionsErrorMessage(t *testing.T) {
	t.Parallel()

	single := &InvalidLoadOptionsError{FieldErrors: []error{errors.New("bad path")}}
	if got := single.Error(); got != "invalid load options: bad path" {
		t.Errorf("Error() = %q", got)
	}

	multi := &InvalidLoadOptionsError{FieldErrors: []error{errors.New("a"), errors.New("b")}}
	if got := multi.Error(); got != "invalid load options: 2 field errors" {
		t.Errorf("Error() = %q", got)
	}
}

func TestProviderLoadRejectsInvalidOptions(t *testing.T) {
	t.Parallel()

	p := NewProvider()
	_, err := p.Load(t.Context(), LoadOptions{ConfigFilePath: types.FilesystemPath("   ")})
	if err == nil {
		t.Fatal("expected Load() to reject a whitespace-only ConfigFilePath")
	}
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Errorf("error does not wrap ErrInvalidLoadOptions: %v", err)
	}
}
