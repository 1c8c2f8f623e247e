package schema

import (
	"fmt"

	"github.com/hamba/avro/v2"
)

// ParseRecord parses an Avro-style JSON record schema.
func ParseRecord(text string) (*Record, error) {
	// A fresh cache per call keeps record names from leaking between schemas.
	s, err := avro.ParseWithCache(text, "", &avro.SchemaCache{})
	if err != nil {
		return nil, err
	}
	rs, ok := s.(*avro.RecordSchema)
	if !ok {
		return nil, fmt.Errorf("schema must be a record, got %s", s.Type())
	}
	fields, err := fromAvroFields(rs.Fields())
	if err != nil {
		return nil, err
	}
	return NewRecord(rs.Name(), fields)
}

func fromAvroFields(in []*avro.Field) ([]Field, error) {
	fields := make([]Field, 0, len(in))
	for _, f := range in {
		t, err := fromAvro(f.Type())
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", f.Name(), err)
		}
		fields = append(fields, Field{Name: f.Name(), Type: t})
	}
	return fields, nil
}

func fromAvro(s avro.Schema) (Type, error) {
	switch v := s.(type) {
	case *avro.UnionSchema:
		if !v.Nullable() {
			return Type{}, fmt.Errorf("unsupported union %s", v.String())
		}
		_, typ := v.Indices()
		inner, err := fromAvro(v.Types()[typ])
		if err != nil {
			return Type{}, err
		}
		if inner.Nullable {
			return Type{}, fmt.Errorf("nested nullable union %s", v.String())
		}
		return inner.AsNullable(), nil
	case *avro.PrimitiveSchema:
		if t, ok := fromLogical(v.Logical()); ok {
			return t, nil
		}
		return fromPrimitive(v.Type())
	case *avro.FixedSchema:
		if t, ok := fromLogical(v.Logical()); ok {
			return t, nil
		}
		return Of(KindBytes), nil
	case *avro.EnumSchema:
		return Of(KindString), nil
	case *avro.RecordSchema:
		fields, err := fromAvroFields(v.Fields())
		if err != nil {
			return Type{}, err
		}
		return RecordOf(v.Name(), fields...), nil
	case *avro.ArraySchema:
		items, err := fromAvro(v.Items())
		if err != nil {
			return Type{}, err
		}
		return ArrayOf(items), nil
	case *avro.MapSchema:
		values, err := fromAvro(v.Values())
		if err != nil {
			return Type{}, err
		}
		return MapOf(values), nil
	case *avro.NullSchema:
		return Of(KindNull), nil
	}
	return Type{}, fmt.Errorf("unsupported schema type %s", s.Type())
}

func fromLogical(l avro.LogicalSchema) (Type, bool) {
	if l == nil {
		return Type{}, false
	}
	switch l.Type() {
	case avro.Decimal:
		d, ok := l.(*avro.DecimalLogicalSchema)
		if !ok {
			return Type{}, false
		}
		return DecimalOf(d.Precision(), d.Scale()), true
	case avro.Date:
		return Of(KindDate), true
	case avro.TimeMillis:
		return Of(KindTimeMillis), true
	case avro.TimeMicros:
		return Of(KindTimeMicros), true
	case avro.TimestampMillis:
		return Of(KindTimestampMillis), true
	case avro.TimestampMicros:
		return Of(KindTimestampMicros), true
	}
	return Type{}, false
}

func fromPrimitive(t avro.Type) (Type, error) {
	switch t {
	case avro.String:
		return Of(KindString), nil
	case avro.Bytes:
		return Of(KindBytes), nil
	case avro.Int:
		return Of(KindInt), nil
	case avro.Long:
		return Of(KindLong), nil
	case avro.Float:
		return Of(KindFloat), nil
	case avro.Double:
		return Of(KindDouble), nil
	case avro.Boolean:
		return Of(KindBoolean), nil
	case avro.Null:
		return Of(KindNull), nil
	}
	return Type{}, fmt.Errorf("unsupported primitive type %s", t)
}

// JSON renders the record as Avro-style JSON.
func (r *Record) JSON() (string, error) {
	rs, err := toAvroRecord(r.Name, r.Fields)
	if err != nil {
		return "", err
	}
	return rs.String(), nil
}

func (r *Record) String() string {
	s, err := r.JSON()
	if err != nil {
		return fmt.Sprintf("record %s %v", r.Name, r.FieldNames())
	}
	return s
}

func toAvroRecord(name string, fields []Field) (*avro.RecordSchema, error) {
	out := make([]*avro.Field, 0, len(fields))
	for _, f := range fields {
		s, err := toAvro(f.Name, f.Type)
		if err != nil {
			return nil, err
		}
		af, err := avro.NewField(f.Name, s)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", f.Name, err)
		}
		out = append(out, af)
	}
	return avro.NewRecordSchema(name, "", out)
}

func toAvro(fieldName string, t Type) (avro.Schema, error) {
	if t.Nullable {
		inner, err := toAvro(fieldName, t.NonNullable())
		if err != nil {
			return nil, err
		}
		return avro.NewUnionSchema([]avro.Schema{inner, avro.NewNullSchema()})
	}

	switch t.Kind {
	case KindString:
		return avro.NewPrimitiveSchema(avro.String, nil), nil
	case KindBytes:
		return avro.NewPrimitiveSchema(avro.Bytes, nil), nil
	case KindInt:
		return avro.NewPrimitiveSchema(avro.Int, nil), nil
	case KindLong:
		return avro.NewPrimitiveSchema(avro.Long, nil), nil
	case KindFloat:
		return avro.NewPrimitiveSchema(avro.Float, nil), nil
	case KindDouble:
		return avro.NewPrimitiveSchema(avro.Double, nil), nil
	case KindBoolean:
		return avro.NewPrimitiveSchema(avro.Boolean, nil), nil
	case KindNull:
		return avro.NewNullSchema(), nil
	case KindDecimal:
		return avro.NewPrimitiveSchema(avro.Bytes, avro.NewDecimalLogicalSchema(t.Precision, t.Scale)), nil
	case KindDate:
		return avro.NewPrimitiveSchema(avro.Int, avro.NewPrimitiveLogicalSchema(avro.Date)), nil
	case KindTimeMillis:
		return avro.NewPrimitiveSchema(avro.Int, avro.NewPrimitiveLogicalSchema(avro.TimeMillis)), nil
	case KindTimeMicros:
		return avro.NewPrimitiveSchema(avro.Long, avro.NewPrimitiveLogicalSchema(avro.TimeMicros)), nil
	case KindTimestampMillis:
		return avro.NewPrimitiveSchema(avro.Long, avro.NewPrimitiveLogicalSchema(avro.TimestampMillis)), nil
	case KindTimestampMicros:
		return avro.NewPrimitiveSchema(avro.Long, avro.NewPrimitiveLogicalSchema(avro.TimestampMicros)), nil
	case KindArray, KindMap:
		if t.Elem == nil {
			return nil, fmt.Errorf("field '%s': %s without element type", fieldName, t.Kind)
		}
		elem, err := toAvro(fieldName, *t.Elem)
		if err != nil {
			return nil, err
		}
		if t.Kind == KindArray {
			return avro.NewArraySchema(elem), nil
		}
		return avro.NewMapSchema(elem), nil
	case KindRecord:
		name := t.Name
		if name == "" {
			name = fieldName
		}
		return toAvroRecord(name, t.Fields)
	}
	return nil, fmt.Errorf("field '%s': unsupported type %s", fieldName, t)
}
