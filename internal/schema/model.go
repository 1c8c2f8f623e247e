package schema

import (
	"fmt"
	"strings"
)

// DefaultRecordName names every record derived from column metadata.
const DefaultRecordName = "data"

// ColumnDescriptor is one output column of a described query.
type ColumnDescriptor struct {
	Name     string
	TypeCode int
	Nullable bool
}

type Field struct {
	Name string
	Type Type
}

// Record is an ordered set of uniquely named fields. Field order is the
// canonical column order of staged CSV files.
type Record struct {
	Name   string
	Fields []Field

	index map[string]int
}

func NewRecord(name string, fields []Field) (*Record, error) {
	r := &Record{Name: name, Fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d of record '%s' has no name", i, name)
		}
		if _, dup := r.index[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field '%s' in record '%s'", f.Name, name)
		}
		r.index[f.Name] = i
	}
	return r, nil
}

// Field looks a field up by name.
func (r *Record) Field(name string) (Field, bool) {
	i, ok := r.index[name]
	if !ok {
		return Field{}, false
	}
	return r.Fields[i], true
}

// FieldFold looks a field up by name, falling back to a case-insensitive
// match when no field has exactly that name.
func (r *Record) FieldFold(name string) (Field, bool) {
	if f, ok := r.Field(name); ok {
		return f, true
	}
	for _, f := range r.Fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

func (r *Record) FieldNames() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}

// DeriveSchema builds the record schema of a described query.
func DeriveSchema(columns []ColumnDescriptor) (*Record, error) {
	fields := make([]Field, 0, len(columns))
	for _, c := range columns {
		t, err := MapType(c.TypeCode)
		if err != nil {
			return nil, fmt.Errorf("failed to map column '%s': %w", c.Name, err)
		}
		if c.Nullable {
			t = t.AsNullable()
		}
		fields = append(fields, Field{Name: c.Name, Type: t})
	}
	return NewRecord(DefaultRecordName, fields)
}
