package codec

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"snowflake-connector/internal/schema"

	"github.com/shopspring/decimal"
)

const (
	secondsPerDay = 24 * 60 * 60
	timeLayout    = "15:04:05"

	timestampMinutesLayout = "2006-01-02T15:04Z07:00"
)

// Record is a decoded row keyed by field name.
type Record map[string]any

// Decoder converts staged CSV rows into typed records. A Decoder holds no
// mutable state; use one per concurrently processed split.
type Decoder struct {
	schema *schema.Record
}

func NewDecoder(s *schema.Record) *Decoder {
	return &Decoder{schema: s}
}

func (d *Decoder) Schema() *schema.Record {
	return d.schema
}

// DecodeRow converts a header-keyed CSV row. Columns missing from the schema
// are dropped; schema fields missing from the row decode to nil.
func (d *Decoder) DecodeRow(row map[string]string) (Record, error) {
	rec := make(Record, len(d.schema.Fields))
	for _, f := range d.schema.Fields {
		raw := row[f.Name]
		v, err := DecodeValue(f.Name, raw, f.Type)
		if err != nil {
			return nil, &ValueError{Field: f.Name, Raw: raw, Type: f.Type, Err: err}
		}
		rec[f.Name] = v
	}
	return rec, nil
}

// DecodeValue converts one raw CSV cell. An empty cell is null for every type.
func DecodeValue(field, raw string, t schema.Type) (any, error) {
	if raw == "" {
		return nil, nil
	}
	t = t.NonNullable()

	switch t.Kind {
	case schema.KindDate:
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, err
		}
		return int32(d.Unix() / secondsPerDay), nil
	case schema.KindTimestampMicros:
		ts, err := parseTimestamp(raw)
		if err != nil {
			return nil, err
		}
		return ts.UnixMicro(), nil
	case schema.KindTimeMicros:
		d, err := parseTimeOfDay(raw)
		if err != nil {
			return nil, err
		}
		return d.Microseconds(), nil
	case schema.KindDecimal:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, &NumberFormatError{Raw: raw, Err: err}
		}
		unscaled, err := Rescale(d, t.Scale)
		if err != nil {
			return nil, err
		}
		return UnscaledBytes(unscaled), nil
	case schema.KindBytes:
		b, err := hex.DecodeString(raw)
		if err != nil {
			return nil, &MalformedHexError{Raw: raw, Err: err}
		}
		return b, nil
	case schema.KindBoolean:
		return strings.EqualFold(raw, "true"), nil
	case schema.KindDouble:
		f, err := parseDouble(raw)
		if err != nil {
			return nil, &NumberFormatError{Raw: raw, Err: err}
		}
		return f, nil
	case schema.KindString:
		return raw, nil
	}
	return nil, &UnsupportedFieldTypeError{Field: field, Type: t}
}

// parseTimestamp accepts an offset date-time with optional seconds.
func parseTimestamp(raw string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err == nil {
		return ts, nil
	}
	if short, shortErr := time.Parse(timestampMinutesLayout, raw); shortErr == nil {
		return short, nil
	}
	return time.Time{}, err
}

// parseDouble accepts base-10 literals only.
func parseDouble(raw string) (float64, error) {
	digits := strings.TrimLeft(raw, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, fmt.Errorf("hexadecimal literal %q", raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("non-numeric literal %q", raw)
	}
	return f, nil
}

// parseTimeOfDay accepts HH:MM:SS with an optional fraction, or HH:MM.
func parseTimeOfDay(raw string) (time.Duration, error) {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		var shortErr error
		if t, shortErr = time.Parse("15:04", raw); shortErr != nil {
			return 0, err
		}
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return t.Sub(midnight), nil
}
