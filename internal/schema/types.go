package schema

import (
	"fmt"
	"strings"
)

// Kind is the portable type tag. Logical types (decimal, date, time, timestamp)
// get their own kinds so that comparing two kinds compares both the physical
// and the logical type.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindBytes
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindBoolean
	KindDecimal
	KindDate
	KindTimeMillis
	KindTimeMicros
	KindTimestampMillis
	KindTimestampMicros
	KindRecord
	KindArray
	KindMap
)

var kindNames = map[Kind]string{
	KindNull:            "null",
	KindString:          "string",
	KindBytes:           "bytes",
	KindInt:             "int",
	KindLong:            "long",
	KindFloat:           "float",
	KindDouble:          "double",
	KindBoolean:         "boolean",
	KindDecimal:         "decimal",
	KindDate:            "date",
	KindTimeMillis:      "time_millis",
	KindTimeMicros:      "time_micros",
	KindTimestampMillis: "timestamp_millis",
	KindTimestampMicros: "timestamp_micros",
	KindRecord:          "record",
	KindArray:           "array",
	KindMap:             "map",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Type is a portable field type. Nullable marks the single NULLABLE wrapper;
// there is no way to nest it.
type Type struct {
	Kind      Kind
	Nullable  bool
	Precision int
	Scale     int

	// Name and Fields describe a nested record.
	Name   string
	Fields []Field
	// Elem is the item type of an array or the value type of a map.
	Elem *Type
}

func Of(k Kind) Type {
	return Type{Kind: k}
}

func DecimalOf(precision, scale int) Type {
	return Type{Kind: KindDecimal, Precision: precision, Scale: scale}
}

func ArrayOf(items Type) Type {
	return Type{Kind: KindArray, Elem: &items}
}

func MapOf(values Type) Type {
	return Type{Kind: KindMap, Elem: &values}
}

func RecordOf(name string, fields ...Field) Type {
	return Type{Kind: KindRecord, Name: name, Fields: fields}
}

// AsNullable returns t wrapped as NULLABLE.
func (t Type) AsNullable() Type {
	t.Nullable = true
	return t
}

// NonNullable returns the underlying type of t.
func (t Type) NonNullable() Type {
	t.Nullable = false
	return t
}

// IsNumeric reports whether t belongs to the integer/decimal family that
// compatibility checks treat as interchangeable. DOUBLE and FLOAT are not part of it.
func (t Type) IsNumeric() bool {
	switch t.Kind {
	case KindInt, KindLong, KindDecimal:
		return true
	}
	return false
}

func (t Type) String() string {
	var s string
	switch t.Kind {
	case KindDecimal:
		s = fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
	case KindArray, KindMap:
		elem := "?"
		if t.Elem != nil {
			elem = t.Elem.String()
		}
		if t.Kind == KindArray {
			s = "array<" + elem + ">"
		} else {
			s = "map<string," + elem + ">"
		}
	case KindRecord:
		names := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			names[i] = f.Name + ":" + f.Type.String()
		}
		s = "record<" + strings.Join(names, ",") + ">"
	default:
		s = t.Kind.String()
	}
	if t.Nullable {
		return "nullable<" + s + ">"
	}
	return s
}
