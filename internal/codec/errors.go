package codec

import (
	"fmt"

	"snowflake-connector/internal/schema"
)

// MalformedHexError reports a BYTES value that is not an even-length hex string.
type MalformedHexError struct {
	Raw string
	Err error
}

func (e *MalformedHexError) Error() string {
	return fmt.Sprintf("malformed hex string %q: %v", e.Raw, e.Err)
}

func (e *MalformedHexError) Unwrap() error { return e.Err }

// NumberFormatError reports a numeric value that does not parse.
type NumberFormatError struct {
	Raw string
	Err error
}

func (e *NumberFormatError) Error() string {
	return fmt.Sprintf("invalid number %q: %v", e.Raw, e.Err)
}

func (e *NumberFormatError) Unwrap() error { return e.Err }

// UnsupportedFieldTypeError reports a field whose type the codec cannot convert.
type UnsupportedFieldTypeError struct {
	Field string
	Type  schema.Type
}

func (e *UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("field '%s' is of unsupported type '%s'", e.Field, e.Type)
}

// ValueError wraps a conversion failure with the field, raw value and expected type.
type ValueError struct {
	Field string
	Raw   any
	Type  schema.Type
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("field '%s': cannot convert %v to '%s': %v", e.Field, e.Raw, e.Type, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }
