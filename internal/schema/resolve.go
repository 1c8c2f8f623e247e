package schema

import (
	"fmt"
	"strings"
)

// ParseError reports a declared schema that could not be parsed.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed schema: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ResolveSchema returns the declared schema when one is given, otherwise the
// schema derived from columns. Both missing yields a nil record and no error:
// the schema is not known yet.
func ResolveSchema(declared string, columns []ColumnDescriptor) (*Record, error) {
	if strings.TrimSpace(declared) != "" {
		r, err := ParseRecord(declared)
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		return r, nil
	}
	if columns == nil {
		return nil, nil
	}
	return DeriveSchema(columns)
}
