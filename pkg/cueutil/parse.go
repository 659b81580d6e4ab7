// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult is the outcome of a successful parse.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T

	// Unified is the schema-unified CUE value, kept for callers that need
	// to pull extra fields or run checks beyond the decode.
	Unified cue.Value
}

// ParseAndDecode compiles schema, unifies data against the definition at
// schemaPath (for example "#Config"), validates the result, and decodes it
// into T. Schema compilation failures are internal errors; everything the
// user can cause comes back through FormatError with file positions
// attached.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	filename := options.errorFilename()

	// Size gate before handing anything to the CUE evaluator.
	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	unified := schemaRoot.Unify(userValue)

	var checks []cue.Option
	if options.concrete {
		checks = append(checks, cue.Concrete(true))
	}
	if err := unified.Validate(checks...); err != nil {
		return nil, FormatError(err, filename)
	}

	decoded := new(T)
	if err := unified.Decode(decoded); err != nil {
		return nil, FormatError(err, filename)
	}

	return &ParseResult[T]{Value: decoded, Unified: unified}, nil
}

// ParseAndDecodeString accepts the schema as a string, matching how
// //go:embed exposes embedded .cue files.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}
