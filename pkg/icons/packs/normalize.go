// SPDX-License-Identifier: MPL-2.0

package packs

import "strings"

// NormalizeFunc maps an upstream SVG filename stem and its style label to
// the on-disk name used after installation. Normalization runs once at
// extraction time so lookups stay flat exact matches.
type NormalizeFunc func(name, style string) string

// NormalizeVerbatim keeps the upstream name untouched.
func NormalizeVerbatim(name, _ string) string {
	return name
}

// NormalizeStyleSuffix keeps the bare name for the "outline" style and
// appends "-{style}" for every other style.
func NormalizeStyleSuffix(name, style string) string {
	if style == "outline" {
		return name
	}
	return name + "-" + style
}

// NormalizeUnderscore turns underscores into hyphens. Styles are ignored.
func NormalizeUnderscore(name, _ string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// NormalizeDefaultStyle returns a normalizer that keeps the bare name for
// defaultStyle and appends "-{style}" for every other style.
func NormalizeDefaultStyle(defaultStyle string) NormalizeFunc {
	return func(name, style string) string {
		if style == defaultStyle {
			return name
		}
		return name + "-" + style
	}
}
