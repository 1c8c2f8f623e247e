package codec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"snowflake-connector/internal/schema"

	"github.com/spf13/cast"
)

// Normalize converts a loosely typed JSON object (decoded with UseNumber)
// into the record representation EncodeRecord expects. Fields absent from
// the schema are dropped; a null or missing required field is an error.
func Normalize(s *schema.Record, in map[string]any) (Record, error) {
	rec := make(Record, len(s.Fields))
	for _, f := range s.Fields {
		raw := in[f.Name]
		if raw == nil {
			if !f.Type.Nullable {
				return nil, &ValueError{Field: f.Name, Raw: nil, Type: f.Type, Err: fmt.Errorf("null value for required field")}
			}
			rec[f.Name] = nil
			continue
		}
		v, err := normalizeValue(f.Name, raw, f.Type.NonNullable())
		if err != nil {
			return nil, &ValueError{Field: f.Name, Raw: raw, Type: f.Type, Err: err}
		}
		rec[f.Name] = v
	}
	return rec, nil
}

func normalizeValue(field string, v any, t schema.Type) (any, error) {
	switch t.Kind {
	case schema.KindString:
		return cast.ToStringE(v)
	case schema.KindInt:
		return cast.ToInt32E(v)
	case schema.KindLong:
		return cast.ToInt64E(v)
	case schema.KindFloat:
		return cast.ToFloat32E(v)
	case schema.KindDouble:
		return cast.ToFloat64E(v)
	case schema.KindBoolean:
		return cast.ToBoolE(v)
	case schema.KindBytes:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, &MalformedHexError{Raw: s, Err: err}
		}
		return b, nil
	case schema.KindDecimal:
		d, err := toDecimal(v, t.Scale)
		if err != nil {
			return nil, &NumberFormatError{Raw: fmt.Sprint(v), Err: err}
		}
		if _, err := Rescale(d, t.Scale); err != nil {
			return nil, err
		}
		return d, nil
	case schema.KindDate:
		if s, ok := v.(string); ok {
			d, err := time.Parse(time.DateOnly, s)
			if err != nil {
				return nil, err
			}
			return int32(d.Unix() / secondsPerDay), nil
		}
		return cast.ToInt32E(v)
	case schema.KindTimestampMicros, schema.KindTimestampMillis:
		if s, ok := v.(string); ok {
			ts, err := parseTimestamp(s)
			if err != nil {
				return nil, err
			}
			if t.Kind == schema.KindTimestampMicros {
				return ts.UnixMicro(), nil
			}
			return ts.UnixMilli(), nil
		}
		return cast.ToInt64E(v)
	case schema.KindTimeMicros, schema.KindTimeMillis:
		if s, ok := v.(string); ok {
			d, err := parseTimeOfDay(s)
			if err != nil {
				return nil, err
			}
			if t.Kind == schema.KindTimeMicros {
				return d.Microseconds(), nil
			}
			return d.Milliseconds(), nil
		}
		return cast.ToInt64E(v)
	case schema.KindRecord, schema.KindArray, schema.KindMap:
		return v, nil
	}
	return nil, &UnsupportedFieldTypeError{Field: field, Type: t}
}

// ToJSON renders a decoded record for JSON output. Decimals become exact JSON
// numbers, numbers and booleans stay native, everything else takes its
// encoded string form.
func ToJSON(s *schema.Record, rec Record) (map[string]any, error) {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		v := rec[f.Name]
		if v == nil {
			out[f.Name] = nil
			continue
		}
		switch f.Type.Kind {
		case schema.KindInt, schema.KindLong, schema.KindFloat, schema.KindDouble, schema.KindBoolean,
			schema.KindRecord, schema.KindArray, schema.KindMap:
			out[f.Name] = v
			continue
		}
		str, _, err := EncodeValue(f.Name, v, f.Type)
		if err != nil {
			return nil, &ValueError{Field: f.Name, Raw: v, Type: f.Type, Err: err}
		}
		if f.Type.Kind == schema.KindDecimal {
			out[f.Name] = json.Number(str)
			continue
		}
		out[f.Name] = str
	}
	return out, nil
}
