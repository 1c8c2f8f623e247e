package codec_test

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"snowflake-connector/internal/codec"
	"snowflake-connector/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *schema.Record {
	t.Helper()
	rec, err := schema.NewRecord("data", []schema.Field{
		{Name: "COLUMN_DATE", Type: schema.Of(schema.KindDate).AsNullable()},
		{Name: "COLUMN_TIMESTAMP", Type: schema.Of(schema.KindTimestampMicros).AsNullable()},
		{Name: "COLUMN_TIME", Type: schema.Of(schema.KindTimeMicros).AsNullable()},
		{Name: "COLUMN_BINARY", Type: schema.Of(schema.KindBytes).AsNullable()},
		{Name: "COLUMN_BOOLEAN", Type: schema.Of(schema.KindBoolean)},
		{Name: "COLUMN_DOUBLE", Type: schema.Of(schema.KindDouble).AsNullable()},
		{Name: "COLUMN_NUMBER", Type: schema.DecimalOf(38, 1).AsNullable()},
		{Name: "COLUMN_STRING", Type: schema.Of(schema.KindString).AsNullable()},
	})
	require.NoError(t, err)
	return rec
}

func TestDecodeRow(t *testing.T) {
	d := codec.NewDecoder(testSchema(t))

	rec, err := d.DecodeRow(map[string]string{
		"COLUMN_DATE":      "2019-01-01",
		"COLUMN_TIMESTAMP": "2019-01-01T01:01:01+00:00",
		"COLUMN_TIME":      "01:01:01",
		"COLUMN_BINARY":    "746578745F313137",
		"COLUMN_BOOLEAN":   "true",
		"COLUMN_DOUBLE":    "1.5",
		"COLUMN_NUMBER":    "113.1",
		"COLUMN_STRING":    "text_117",
		"NOT_IN_SCHEMA":    "dropped",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(17897), rec["COLUMN_DATE"])
	assert.Equal(t, int64(1546304461000000), rec["COLUMN_TIMESTAMP"])
	assert.Equal(t, int64(3661000000), rec["COLUMN_TIME"])
	assert.Equal(t, []byte("text_117"), rec["COLUMN_BINARY"])
	assert.Equal(t, true, rec["COLUMN_BOOLEAN"])
	assert.Equal(t, 1.5, rec["COLUMN_DOUBLE"])
	assert.Equal(t, []byte{0x04, 0x6B}, rec["COLUMN_NUMBER"])
	assert.Equal(t, "text_117", rec["COLUMN_STRING"])
	assert.NotContains(t, rec, "NOT_IN_SCHEMA")
}

func TestDecodeRow_EmptyIsNull(t *testing.T) {
	d := codec.NewDecoder(testSchema(t))

	// COLUMN_BOOLEAN is not nullable; the empty cell still decodes to nil.
	rec, err := d.DecodeRow(map[string]string{"COLUMN_BOOLEAN": "", "COLUMN_DATE": ""})
	require.NoError(t, err)
	assert.Nil(t, rec["COLUMN_BOOLEAN"])
	assert.Nil(t, rec["COLUMN_DATE"])
	assert.Nil(t, rec["COLUMN_STRING"])
}

func TestDecodeValue_Boolean(t *testing.T) {
	typ := schema.Of(schema.KindBoolean)
	for raw, want := range map[string]bool{"true": true, "TRUE": true, "false": false, "yes": false, "1": false} {
		v, err := codec.DecodeValue("B", raw, typ)
		require.NoError(t, err)
		assert.Equal(t, want, v, raw)
	}
}

func TestDecodeValue_TimestampWithOffset(t *testing.T) {
	v, err := codec.DecodeValue("TS", "2019-01-01T03:01:01.123456+02:00", schema.Of(schema.KindTimestampMicros))
	require.NoError(t, err)
	assert.Equal(t, int64(1546304461123456), v)
}

func TestDecodeValue_TimeWithFraction(t *testing.T) {
	v, err := codec.DecodeValue("T", "01:01:01.5", schema.Of(schema.KindTimeMicros))
	require.NoError(t, err)
	assert.Equal(t, int64(3661500000), v)
}

func TestDecodeValue_DecimalTwosComplement(t *testing.T) {
	cases := map[string][]byte{
		"0":    {0x00},
		"-1":   {0xFF},
		"127":  {0x7F},
		"128":  {0x00, 0x80},
		"-128": {0x80},
		"-129": {0xFF, 0x7F},
	}
	for raw, want := range cases {
		v, err := codec.DecodeValue("N", raw, schema.DecimalOf(38, 0))
		require.NoError(t, err, raw)
		assert.Equal(t, want, v, raw)
	}
}

func TestDecodeValue_DecimalRescalesUp(t *testing.T) {
	v, err := codec.DecodeValue("N", "1.5", schema.DecimalOf(38, 9))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1500000000), codec.FromUnscaledBytes(v.([]byte)))
}

func TestDecodeValue_DecimalNeedsRounding(t *testing.T) {
	_, err := codec.DecodeValue("N", "1.25", schema.DecimalOf(38, 1))
	require.Error(t, err)
}

func TestDecodeRow_Errors(t *testing.T) {
	d := codec.NewDecoder(testSchema(t))

	_, err := d.DecodeRow(map[string]string{"COLUMN_BINARY": "ABC"})
	var hexErr *codec.MalformedHexError
	require.ErrorAs(t, err, &hexErr)

	_, err = d.DecodeRow(map[string]string{"COLUMN_BINARY": "ZZ"})
	require.ErrorAs(t, err, &hexErr)

	_, err = d.DecodeRow(map[string]string{"COLUMN_DOUBLE": "one"})
	var numErr *codec.NumberFormatError
	require.ErrorAs(t, err, &numErr)

	var valErr *codec.ValueError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "COLUMN_DOUBLE", valErr.Field)
	assert.Equal(t, "one", valErr.Raw)
	assert.Contains(t, err.Error(), "double")
}

func TestDecodeValue_UnsupportedType(t *testing.T) {
	for _, typ := range []schema.Type{schema.Of(schema.KindInt), schema.Of(schema.KindLong), schema.ArrayOf(schema.Of(schema.KindString))} {
		_, err := codec.DecodeValue("F", "1", typ)
		var ute *codec.UnsupportedFieldTypeError
		require.ErrorAs(t, err, &ute, typ.String())
		assert.Equal(t, "F", ute.Field)
	}
}

func TestEncodeValue(t *testing.T) {
	cases := []struct {
		name string
		v    any
		typ  schema.Type
		want string
	}{
		{"date", int32(17897), schema.Of(schema.KindDate), "2019-01-01"},
		{"timestamp micros", int64(1546304461000000), schema.Of(schema.KindTimestampMicros), "2019-01-01T01:01:01Z"},
		{"timestamp millis", int64(1546304461500), schema.Of(schema.KindTimestampMillis), "2019-01-01T01:01:01.5Z"},
		{"time micros", int64(3661000000), schema.Of(schema.KindTimeMicros), "01:01:01"},
		{"time millis", int32(3661250), schema.Of(schema.KindTimeMillis), "01:01:01.25"},
		{"decimal bytes", []byte{0x04, 0x6B}, schema.DecimalOf(38, 1), "113.1"},
		{"decimal value", decimal.RequireFromString("113.1"), schema.DecimalOf(38, 1), "113.1"},
		{"decimal no exponent", decimal.New(1, -10), schema.DecimalOf(38, 10), "0.0000000001"},
		{"decimal big", decimal.New(1, 30), schema.DecimalOf(38, 0), "1" + strings.Repeat("0", 30)},
		{"bytes", []byte("text_117"), schema.Of(schema.KindBytes), "746578745F313137"},
		{"array", []any{"a", "b"}, schema.ArrayOf(schema.Of(schema.KindString)), `["a","b"]`},
		{"record", map[string]any{"x": 1}, schema.RecordOf("inner", schema.Field{Name: "x", Type: schema.Of(schema.KindInt)}), `{"x":1}`},
		{"double", 1.5, schema.Of(schema.KindDouble), "1.5"},
		{"long", int64(42), schema.Of(schema.KindLong), "42"},
		{"boolean", true, schema.Of(schema.KindBoolean).AsNullable(), "true"},
		{"string", "hello", schema.Of(schema.KindString), "hello"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, err := codec.EncodeValue("F", tc.v, tc.typ)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeValue_Null(t *testing.T) {
	_, ok, err := codec.EncodeValue("F", nil, schema.Of(schema.KindDate))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEncodeValue_Unsupported(t *testing.T) {
	_, _, err := codec.EncodeValue("F", "x", schema.Of(schema.KindNull))
	var ute *codec.UnsupportedFieldTypeError
	require.ErrorAs(t, err, &ute)
}

func TestEncodeRecord_Order(t *testing.T) {
	s := testSchema(t)
	cells, err := codec.EncodeRecord(s, codec.Record{
		"COLUMN_STRING": "last",
		"COLUMN_DATE":   int32(0),
	})
	require.NoError(t, err)
	require.Len(t, cells, len(s.Fields))

	assert.Equal(t, codec.Cell{Name: "COLUMN_DATE", Value: "1970-01-01"}, cells[0])
	assert.True(t, cells[1].Null)
	assert.Equal(t, codec.Cell{Name: "COLUMN_STRING", Value: "last"}, cells[7])
}

func TestDecimalRoundTrip(t *testing.T) {
	gofakeit.Seed(42)
	for i := 0; i < 500; i++ {
		x := big.NewInt(gofakeit.Int64())
		if gofakeit.Bool() {
			x.Mul(x, big.NewInt(gofakeit.Int64()))
		}
		scale := gofakeit.IntRange(0, 12)
		typ := schema.DecimalOf(38, scale)

		unscaled := codec.UnscaledBytes(x)
		require.Zero(t, codec.FromUnscaledBytes(unscaled).Cmp(x))

		s, ok, err := codec.EncodeValue("N", unscaled, typ)
		require.NoError(t, err)
		require.True(t, ok)

		back, err := codec.DecodeValue("N", s, typ)
		require.NoError(t, err)
		require.True(t, bytes.Equal(unscaled, back.([]byte)), "value %s scale %d", x, scale)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	gofakeit.Seed(7)
	for i := 0; i < 100; i++ {
		b := []byte(gofakeit.LetterN(uint(gofakeit.IntRange(1, 64))))
		s, _, err := codec.EncodeValue("B", b, schema.Of(schema.KindBytes))
		require.NoError(t, err)
		assert.Equal(t, strings.ToUpper(s), s)

		back, err := codec.DecodeValue("B", strings.ToLower(s), schema.Of(schema.KindBytes))
		require.NoError(t, err)
		assert.Equal(t, b, back)
	}
}

func TestNormalize(t *testing.T) {
	s, err := schema.NewRecord("data", []schema.Field{
		{Name: "ID", Type: schema.Of(schema.KindLong)},
		{Name: "PRICE", Type: schema.DecimalOf(38, 2)},
		{Name: "DAY", Type: schema.Of(schema.KindDate)},
		{Name: "AT", Type: schema.Of(schema.KindTimestampMicros)},
		{Name: "BIN", Type: schema.Of(schema.KindBytes).AsNullable()},
		{Name: "FLAG", Type: schema.Of(schema.KindBoolean)},
		{Name: "NAME", Type: schema.Of(schema.KindString).AsNullable()},
	})
	require.NoError(t, err)

	dec := json.NewDecoder(strings.NewReader(
		`{"ID": 42, "PRICE": 10.5, "DAY": "2019-01-01", "AT": "2019-01-01T01:01:01Z", "BIN": "746578745F313137", "FLAG": true, "NAME": null, "EXTRA": 1}`))
	dec.UseNumber()
	var in map[string]any
	require.NoError(t, dec.Decode(&in))

	rec, err := codec.Normalize(s, in)
	require.NoError(t, err)
	assert.NotContains(t, rec, "EXTRA")

	cells, err := codec.EncodeRecord(s, rec)
	require.NoError(t, err)

	got := make(map[string]string, len(cells))
	for _, c := range cells {
		if !c.Null {
			got[c.Name] = c.Value
		}
	}
	assert.Equal(t, map[string]string{
		"ID":    "42",
		"PRICE": "10.50",
		"DAY":   "2019-01-01",
		"AT":    "2019-01-01T01:01:01Z",
		"BIN":   "746578745F313137",
		"FLAG":  "true",
	}, got)
}

func TestNormalize_RequiredFieldMissing(t *testing.T) {
	s, err := schema.NewRecord("data", []schema.Field{{Name: "ID", Type: schema.Of(schema.KindLong)}})
	require.NoError(t, err)

	_, err = codec.Normalize(s, map[string]any{})
	var valErr *codec.ValueError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "ID", valErr.Field)
}

func TestToJSON(t *testing.T) {
	s := testSchema(t)
	rec, err := codec.NewDecoder(s).DecodeRow(map[string]string{
		"COLUMN_DATE":    "2019-01-01",
		"COLUMN_NUMBER":  "113.1",
		"COLUMN_BOOLEAN": "true",
		"COLUMN_DOUBLE":  "2.5",
	})
	require.NoError(t, err)

	out, err := codec.ToJSON(s, rec)
	require.NoError(t, err)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"COLUMN_DATE": "2019-01-01",
		"COLUMN_TIMESTAMP": null,
		"COLUMN_TIME": null,
		"COLUMN_BINARY": null,
		"COLUMN_BOOLEAN": true,
		"COLUMN_DOUBLE": 2.5,
		"COLUMN_NUMBER": 113.1,
		"COLUMN_STRING": null
	}`, string(b))
}

func TestEncodeValue_DecimalNeverRounds(t *testing.T) {
	for _, v := range []any{decimal.RequireFromString("1.25"), 1.26, "0.05"} {
		_, _, err := codec.EncodeValue("F", v, schema.DecimalOf(38, 1))
		assert.Error(t, err, "%v", v)
	}

	got, ok, err := codec.EncodeValue("F", decimal.RequireFromString("1.20"), schema.DecimalOf(38, 1))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1.2", got)

	rec, err := schema.NewRecord("in", []schema.Field{{Name: "PRICE", Type: schema.DecimalOf(10, 2)}})
	require.NoError(t, err)
	_, err = codec.EncodeRecord(rec, codec.Record{"PRICE": decimal.RequireFromString("9.999")})
	var ve *codec.ValueError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "PRICE", ve.Field)
}

func TestEncodeValue_TimeOfDayRange(t *testing.T) {
	micros := schema.Of(schema.KindTimeMicros)
	millis := schema.Of(schema.KindTimeMillis)

	got, _, err := codec.EncodeValue("F", int64(86_399_999_999), micros)
	require.NoError(t, err)
	assert.Equal(t, "23:59:59.999999", got)

	for _, tc := range []struct {
		v   int64
		typ schema.Type
	}{
		{86_400_000_000, micros},
		{-1, micros},
		{86_400_000, millis},
	} {
		_, _, err := codec.EncodeValue("F", tc.v, tc.typ)
		assert.Error(t, err, "%d", tc.v)
	}
}

func TestDecodeValue_DoubleIsBase10(t *testing.T) {
	for _, raw := range []string{"Infinity", "-inf", "NaN", "0x1p4", "-0X10", "1e999"} {
		_, err := codec.DecodeValue("F", raw, schema.Of(schema.KindDouble))
		var nfe *codec.NumberFormatError
		assert.ErrorAs(t, err, &nfe, raw)
	}

	v, err := codec.DecodeValue("F", "-1.5e3", schema.Of(schema.KindDouble))
	require.NoError(t, err)
	assert.Equal(t, -1500.0, v)
}

func TestDecodeValue_TimestampWithoutSeconds(t *testing.T) {
	v, err := codec.DecodeValue("F", "2019-01-01T10:00+01:00", schema.Of(schema.KindTimestampMicros))
	require.NoError(t, err)
	assert.Equal(t, int64(1546333200000000), v)

	_, err = codec.DecodeValue("F", "2019-01-01 10:00", schema.Of(schema.KindTimestampMicros))
	assert.Error(t, err)
}
