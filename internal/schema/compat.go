package schema

import (
	"errors"
	"fmt"
)

type Violation int

const (
	MissingField Violation = iota
	TypeMismatch
	NotNullable
)

// CompatibilityError describes one provided field that the actual schema
// cannot satisfy. Expected is the provided type, Actual the warehouse type.
type CompatibilityError struct {
	Field     string
	Violation Violation
	Expected  Type
	Actual    Type
}

func (e *CompatibilityError) Error() string {
	switch e.Violation {
	case MissingField:
		return fmt.Sprintf("field '%s' of type '%s' does not exist in Snowflake", e.Field, e.Expected)
	case NotNullable:
		return fmt.Sprintf("field '%s' should be nullable: declared '%s' but it is '%s' in Snowflake",
			e.Field, e.Expected, e.Actual)
	default:
		return fmt.Sprintf("expected field '%s' to be of '%s', but it is of '%s'",
			e.Field, e.Expected.NonNullable(), e.Actual.NonNullable())
	}
}

// CheckCompatible verifies that every field of provided can be served by
// actual, matching names case-insensitively. All offending fields are reported, joined into a single error.
func CheckCompatible(actual, provided *Record, checkNullable bool) error {
	var errs []error
	for _, pf := range provided.Fields {
		af, ok := actual.FieldFold(pf.Name)
		if !ok {
			errs = append(errs, &CompatibilityError{Field: pf.Name, Violation: MissingField, Expected: pf.Type})
			continue
		}

		at, pt := af.Type.NonNullable(), pf.Type.NonNullable()
		if !(at.IsNumeric() && pt.IsNumeric()) && at.Kind != pt.Kind {
			errs = append(errs, &CompatibilityError{
				Field: pf.Name, Violation: TypeMismatch, Expected: pf.Type, Actual: af.Type,
			})
			continue
		}

		if checkNullable && af.Type.Nullable && !pf.Type.Nullable {
			errs = append(errs, &CompatibilityError{
				Field: pf.Name, Violation: NotNullable, Expected: pf.Type, Actual: af.Type,
			})
		}
	}
	return errors.Join(errs...)
}

// CompatibilityErrors unpacks the individual field errors of a CheckCompatible result.
func CompatibilityErrors(err error) []*CompatibilityError {
	if err == nil {
		return nil
	}
	var out []*CompatibilityError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, CompatibilityErrors(e)...)
		}
		return out
	}
	var ce *CompatibilityError
	if errors.As(err, &ce) {
		out = append(out, ce)
	}
	return out
}
