package codec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"snowflake-connector/internal/schema"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Cell is one encoded field of an outgoing row. Null cells carry no value.
type Cell struct {
	Name  string
	Value string
	Null  bool
}

// EncodeRecord converts a typed record into CSV cells in schema order.
func EncodeRecord(s *schema.Record, rec Record) ([]Cell, error) {
	cells := make([]Cell, len(s.Fields))
	for i, f := range s.Fields {
		v := rec[f.Name]
		out, ok, err := EncodeValue(f.Name, v, f.Type)
		if err != nil {
			return nil, &ValueError{Field: f.Name, Raw: v, Type: f.Type, Err: err}
		}
		cells[i] = Cell{Name: f.Name, Value: out, Null: !ok}
	}
	return cells, nil
}

// EncodeValue converts one typed value. The boolean result is false for null.
func EncodeValue(field string, v any, t schema.Type) (string, bool, error) {
	if v == nil {
		return "", false, nil
	}
	t = t.NonNullable()

	switch t.Kind {
	case schema.KindDate:
		if tv, isTime := v.(time.Time); isTime {
			return tv.UTC().Format(time.DateOnly), true, nil
		}
		days, err := cast.ToInt64E(v)
		if err != nil {
			return "", false, err
		}
		return time.Unix(days*secondsPerDay, 0).UTC().Format(time.DateOnly), true, nil
	case schema.KindTimestampMicros, schema.KindTimestampMillis:
		ts, err := toInstant(v, t.Kind == schema.KindTimestampMicros)
		if err != nil {
			return "", false, err
		}
		return ts.Format(time.RFC3339Nano), true, nil
	case schema.KindTimeMicros, schema.KindTimeMillis:
		ts, err := toTimeOfDay(v, t.Kind == schema.KindTimeMicros)
		if err != nil {
			return "", false, err
		}
		return ts.Format("15:04:05.999999"), true, nil
	case schema.KindDecimal:
		d, err := toDecimal(v, t.Scale)
		if err != nil {
			return "", false, err
		}
		unscaled, err := Rescale(d, t.Scale)
		if err != nil {
			return "", false, err
		}
		return decimal.NewFromBigInt(unscaled, -int32(t.Scale)).StringFixed(int32(t.Scale)), true, nil
	case schema.KindRecord, schema.KindArray, schema.KindMap:
		b, err := json.Marshal(v)
		if err != nil {
			return "", false, err
		}
		return string(b), true, nil
	case schema.KindBytes:
		var b []byte
		switch bv := v.(type) {
		case []byte:
			b = bv
		case string:
			b = []byte(bv)
		default:
			return "", false, fmt.Errorf("expected bytes, got %T", v)
		}
		return strings.ToUpper(hex.EncodeToString(b)), true, nil
	case schema.KindString, schema.KindInt, schema.KindLong, schema.KindFloat,
		schema.KindDouble, schema.KindBoolean:
		s, err := cast.ToStringE(v)
		if err != nil {
			return "", false, err
		}
		return s, true, nil
	}
	return "", false, &UnsupportedFieldTypeError{Field: field, Type: t}
}

func toInstant(v any, micros bool) (time.Time, error) {
	if tv, ok := v.(time.Time); ok {
		return tv.UTC(), nil
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return time.Time{}, err
	}
	if micros {
		return time.UnixMicro(n).UTC(), nil
	}
	return time.UnixMilli(n).UTC(), nil
}

// toTimeOfDay rejects integer times outside a single day.
func toTimeOfDay(v any, micros bool) (time.Time, error) {
	if _, ok := v.(time.Time); ok {
		return toInstant(v, micros)
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return time.Time{}, err
	}
	limit := int64(secondsPerDay) * 1000
	if micros {
		limit *= 1000
	}
	if n < 0 || n >= limit {
		return time.Time{}, fmt.Errorf("time of day %d is outside [0, 24h)", n)
	}
	return toInstant(n, micros)
}

func toDecimal(v any, scale int) (decimal.Decimal, error) {
	switch dv := v.(type) {
	case decimal.Decimal:
		return dv, nil
	case []byte:
		return DecimalFromBytes(dv, scale), nil
	case *big.Int:
		return decimal.NewFromBigInt(dv, -int32(scale)), nil
	case json.Number:
		return decimal.NewFromString(dv.String())
	case string:
		return decimal.NewFromString(dv)
	case float64:
		return decimal.NewFromFloat(dv), nil
	case float32:
		return decimal.NewFromFloat32(dv), nil
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("expected decimal, got %T", v)
	}
	return decimal.NewFromInt(n), nil
}
