package model

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against a *SchemaError.
var (
	ErrMissingField   = errors.New("missing field")
	ErrUnknownVariant = errors.New("unknown variant")
	ErrArityMismatch  = errors.New("arity mismatch")
	ErrMalformedDate  = errors.New("malformed date")
	ErrInvalidType    = errors.New("invalid type")
)

// SchemaError reports a document that does not fit the schema. Path is the
// dotted location of the offending value, e.g. "deep_dive.stages[2].warning".
type SchemaError struct {
	Err   error
	Path  string
	Value string

	// Expected and Actual are set for ErrArityMismatch.
	Expected int
	Actual   int
}

func (e *SchemaError) Error() string {
	switch e.Err {
	case ErrMissingField:
		return fmt.Sprintf("schema: missing field %s", e.Path)
	case ErrUnknownVariant:
		return fmt.Sprintf("schema: unknown variant %q at %s", e.Value, e.Path)
	case ErrArityMismatch:
		return fmt.Sprintf("schema: %s expects %d entries, got %d", e.Path, e.Expected, e.Actual)
	case ErrMalformedDate:
		return fmt.Sprintf("schema: malformed date %q at %s, want YYYY-MM-DD", e.Value, e.Path)
	default:
		return fmt.Sprintf("schema: %v %s at %s", e.Err, e.Value, e.Path)
	}
}

func (e *SchemaError) Unwrap() error { return e.Err }

func missingField(path string) error {
	return &SchemaError{Err: ErrMissingField, Path: path}
}

func unknownVariant(path, value string) error {
	return &SchemaError{Err: ErrUnknownVariant, Path: path, Value: value}
}

func arityMismatch(path string, expected, actual int) error {
	return &SchemaError{Err: ErrArityMismatch, Path: path, Expected: expected, Actual: actual}
}

func malformedDate(path, value string) error {
	return &SchemaError{Err: ErrMalformedDate, Path: path, Value: value}
}

func invalidType(path string, v any, want string) error {
	return &SchemaError{Err: ErrInvalidType, Path: path, Value: describe(v) + " (want " + want + ")"}
}
