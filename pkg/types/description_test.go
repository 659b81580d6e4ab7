// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDescriptionTextValid(t *testing.T) {
	t.Parallel()

	valid := []DescriptionText{
		"",
		"Free SVG icons drawn on a 24x24 grid.",
		"Line 1\nLine 2",
		DescriptionText(strings.Repeat("x", MaxDescriptionLen)),
	}
	for _, d := range valid {
		if ok, errs := d.IsValid(); !ok || len(errs) > 0 {
			t.Errorf("IsValid(%.30q) = %v, %v; want true, nil", string(d), ok, errs)
		}
	}
}

func TestDescriptionTextWhitespaceOnly(t *testing.T) {
	t.Parallel()

	for _, d := range []DescriptionText{"   ", "\t", "\n", " \t\n "} {
		ok, errs := d.IsValid()
		if ok {
			t.Errorf("IsValid(%q) = true, want false", string(d))
			continue
		}
		assertDescriptionError(t, errs, d)
	}
}

func TestDescriptionTextTooLong(t *testing.T) {
	t.Parallel()

	d := DescriptionText(strings.Repeat("x", MaxDescriptionLen+1))
	ok, errs := d.IsValid()
	if ok {
		t.Fatalf("IsValid() = true for %d characters, want false", MaxDescriptionLen+1)
	}
	descErr := assertDescriptionError(t, errs, d)
	wantReason := fmt.Sprintf("at most %d", MaxDescriptionLen)
	if !strings.Contains(descErr.Reason, wantReason) {
		t.Errorf("Reason = %q, want the limit spelled out", descErr.Reason)
	}
}

func TestDescriptionTextLengthCountsRunes(t *testing.T) {
	t.Parallel()

	// 200 multibyte runes exceed 200 bytes but stay within the limit.
	d := DescriptionText(strings.Repeat("ä", MaxDescriptionLen))
	if ok, errs := d.IsValid(); !ok {
		t.Errorf("IsValid() = false for %d runes: %v", MaxDescriptionLen, errs)
	}
}

func assertDescriptionError(t *testing.T, errs []error, want DescriptionText) *InvalidDescriptionTextError {
	t.Helper()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if !errors.Is(errs[0], ErrInvalidDescriptionText) {
		t.Errorf("error does not wrap ErrInvalidDescriptionText: %v", errs[0])
	}
	var descErr *InvalidDescriptionTextError
	if !errors.As(errs[0], &descErr) {
		t.Fatalf("error is %T, want *InvalidDescriptionTextError", errs[0])
	}
	if descErr.Value != want {
		t.Errorf("Value = %q, want %q", descErr.Value, want)
	}
	if descErr.Reason == "" {
		t.Error("Reason is empty")
	}
	return descErr
}
