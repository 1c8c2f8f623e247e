package schema_test

import (
	"errors"
	"testing"

	"snowflake-connector/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapType_SupportedCodes(t *testing.T) {
	cases := map[int]schema.Type{
		schema.TypeVarchar:   schema.Of(schema.KindString),
		schema.TypeChar:      schema.Of(schema.KindString),
		schema.TypeBinary:    schema.Of(schema.KindBytes),
		schema.TypeInteger:   schema.Of(schema.KindInt),
		schema.TypeDecimal:   schema.DecimalOf(38, 9),
		schema.TypeDouble:    schema.Of(schema.KindDouble),
		schema.TypeTimestamp: schema.Of(schema.KindTimestampMicros),
		schema.TypeDate:      schema.Of(schema.KindDate),
		schema.TypeTime:      schema.Of(schema.KindTimeMicros),
		schema.TypeBoolean:   schema.Of(schema.KindBoolean),
		schema.TypeBigInt:    schema.DecimalOf(38, 0),
		schema.TypeSmallInt:  schema.DecimalOf(38, 0),
	}
	for code, want := range cases {
		got, err := schema.MapType(code)
		require.NoError(t, err, "code %d", code)
		assert.Equal(t, want, got, "code %d", code)
	}
}

func TestMapType_Unsupported(t *testing.T) {
	for _, code := range []int{-1000, schema.TypeOther, schema.TypeReal, schema.TypeTimestampTZ} {
		_, err := schema.MapType(code)
		var ute *schema.UnsupportedTypeError
		require.ErrorAs(t, err, &ute)
		assert.Equal(t, code, ute.Code)
	}
}

func TestDeriveSchema(t *testing.T) {
	rec, err := schema.DeriveSchema([]schema.ColumnDescriptor{
		{Name: "ID", TypeCode: schema.TypeBigInt},
		{Name: "NAME", TypeCode: schema.TypeVarchar, Nullable: true},
		{Name: "CREATED", TypeCode: schema.TypeTimestamp, Nullable: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "data", rec.Name)
	assert.Equal(t, []string{"ID", "NAME", "CREATED"}, rec.FieldNames())

	id, ok := rec.Field("ID")
	require.True(t, ok)
	assert.Equal(t, schema.DecimalOf(38, 0), id.Type)

	name, _ := rec.Field("NAME")
	assert.True(t, name.Type.Nullable)
	assert.Equal(t, schema.KindString, name.Type.Kind)
}

func TestDeriveSchema_UnsupportedColumn(t *testing.T) {
	_, err := schema.DeriveSchema([]schema.ColumnDescriptor{{Name: "GEO", TypeCode: schema.TypeOther}})
	var ute *schema.UnsupportedTypeError
	require.ErrorAs(t, err, &ute)
	assert.Contains(t, err.Error(), "GEO")
}

func TestNewRecord_DuplicateField(t *testing.T) {
	_, err := schema.NewRecord("data", []schema.Field{
		{Name: "A", Type: schema.Of(schema.KindString)},
		{Name: "A", Type: schema.Of(schema.KindInt)},
	})
	require.Error(t, err)
}

func TestResolveSchema_Declared(t *testing.T) {
	declared := `{"type":"record","name":"etlSchemaBody","fields":[
		{"name":"COLUMN_NUMBER","type":[{"type":"bytes","logicalType":"decimal","precision":38,"scale":0},"null"]},
		{"name":"COLUMN_DATE","type":[{"type":"int","logicalType":"date"},"null"]},
		{"name":"COLUMN_TS","type":{"type":"long","logicalType":"timestamp-micros"}},
		{"name":"COLUMN_TAGS","type":{"type":"array","items":"string"}},
		{"name":"COLUMN_STRING","type":"string"}]}`

	// Declared schema wins over described columns.
	rec, err := schema.ResolveSchema(declared, []schema.ColumnDescriptor{{Name: "OTHER", TypeCode: schema.TypeVarchar}})
	require.NoError(t, err)

	assert.Equal(t, "etlSchemaBody", rec.Name)
	assert.Equal(t, []string{"COLUMN_NUMBER", "COLUMN_DATE", "COLUMN_TS", "COLUMN_TAGS", "COLUMN_STRING"}, rec.FieldNames())

	num, _ := rec.Field("COLUMN_NUMBER")
	assert.Equal(t, schema.DecimalOf(38, 0).AsNullable(), num.Type)
	date, _ := rec.Field("COLUMN_DATE")
	assert.Equal(t, schema.Of(schema.KindDate).AsNullable(), date.Type)
	ts, _ := rec.Field("COLUMN_TS")
	assert.Equal(t, schema.Of(schema.KindTimestampMicros), ts.Type)
	tags, _ := rec.Field("COLUMN_TAGS")
	assert.Equal(t, schema.ArrayOf(schema.Of(schema.KindString)), tags.Type)
}

func TestResolveSchema_FromColumns(t *testing.T) {
	rec, err := schema.ResolveSchema("", []schema.ColumnDescriptor{{Name: "A", TypeCode: schema.TypeBoolean}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, rec.FieldNames())
}

func TestResolveSchema_Unknown(t *testing.T) {
	rec, err := schema.ResolveSchema("", nil)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestResolveSchema_Malformed(t *testing.T) {
	for _, declared := range []string{"{}", "{not json", `{"type":"string"}`} {
		_, err := schema.ResolveSchema(declared, nil)
		var pe *schema.ParseError
		assert.ErrorAs(t, err, &pe, declared)
	}
}

func TestRecordJSON_RoundTrip(t *testing.T) {
	derived, err := schema.DeriveSchema([]schema.ColumnDescriptor{
		{Name: "COLUMN_NUMBER", TypeCode: schema.TypeDecimal, Nullable: true},
		{Name: "COLUMN_TIME", TypeCode: schema.TypeTime},
		{Name: "COLUMN_BINARY", TypeCode: schema.TypeBinary, Nullable: true},
		{Name: "COLUMN_DOUBLE", TypeCode: schema.TypeDouble},
	})
	require.NoError(t, err)

	text, err := derived.JSON()
	require.NoError(t, err)

	parsed, err := schema.ParseRecord(text)
	require.NoError(t, err)
	assert.Equal(t, derived.Name, parsed.Name)
	assert.Equal(t, derived.Fields, parsed.Fields)
}

func record(t *testing.T, fields ...schema.Field) *schema.Record {
	t.Helper()
	r, err := schema.NewRecord("data", fields)
	require.NoError(t, err)
	return r
}

func TestCheckCompatible_NumericFamily(t *testing.T) {
	intRec := record(t, schema.Field{Name: "N", Type: schema.Of(schema.KindInt)})
	decRec := record(t, schema.Field{Name: "N", Type: schema.DecimalOf(38, 0)})
	longRec := record(t, schema.Field{Name: "N", Type: schema.Of(schema.KindLong)})

	assert.NoError(t, schema.CheckCompatible(intRec, decRec, true))
	assert.NoError(t, schema.CheckCompatible(decRec, intRec, true))
	assert.NoError(t, schema.CheckCompatible(decRec, longRec, true))
}

func TestCheckCompatible_DoubleIsNotNumericFamily(t *testing.T) {
	dbl := record(t, schema.Field{Name: "N", Type: schema.Of(schema.KindDouble)})
	dec := record(t, schema.Field{Name: "N", Type: schema.DecimalOf(38, 9)})

	err := schema.CheckCompatible(dec, dbl, false)
	errs := schema.CompatibilityErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, schema.TypeMismatch, errs[0].Violation)
	assert.Contains(t, err.Error(), "double")
	assert.Contains(t, err.Error(), "decimal(38,9)")
}

func TestCheckCompatible_MissingField(t *testing.T) {
	actual := record(t, schema.Field{Name: "A", Type: schema.Of(schema.KindString)})
	provided := record(t,
		schema.Field{Name: "A", Type: schema.Of(schema.KindString)},
		schema.Field{Name: "B", Type: schema.Of(schema.KindString)},
	)

	errs := schema.CompatibilityErrors(schema.CheckCompatible(actual, provided, false))
	require.Len(t, errs, 1)
	assert.Equal(t, "B", errs[0].Field)
	assert.Equal(t, schema.MissingField, errs[0].Violation)
}

func TestCheckCompatible_Nullability(t *testing.T) {
	str := schema.Of(schema.KindString)
	cases := []struct {
		name      string
		actual    schema.Type
		provided  schema.Type
		wantError bool
	}{
		{"both nullable", str.AsNullable(), str.AsNullable(), false},
		{"both required", str, str, false},
		{"actual required provided nullable", str, str.AsNullable(), false},
		{"actual nullable provided required", str.AsNullable(), str, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actual := record(t, schema.Field{Name: "S", Type: tc.actual})
			provided := record(t, schema.Field{Name: "S", Type: tc.provided})

			err := schema.CheckCompatible(actual, provided, true)
			if !tc.wantError {
				assert.NoError(t, err)
				return
			}
			errs := schema.CompatibilityErrors(err)
			require.Len(t, errs, 1)
			assert.Equal(t, schema.NotNullable, errs[0].Violation)

			// Without the nullability check the same pair passes.
			assert.NoError(t, schema.CheckCompatible(actual, provided, false))
		})
	}
}

func TestCheckCompatible_ReportsEveryField(t *testing.T) {
	actual := record(t,
		schema.Field{Name: "A", Type: schema.Of(schema.KindString)},
		schema.Field{Name: "B", Type: schema.Of(schema.KindBoolean).AsNullable()},
	)
	provided := record(t,
		schema.Field{Name: "A", Type: schema.Of(schema.KindDate)},
		schema.Field{Name: "B", Type: schema.Of(schema.KindBoolean)},
		schema.Field{Name: "C", Type: schema.Of(schema.KindBytes)},
	)

	err := schema.CheckCompatible(actual, provided, true)
	errs := schema.CompatibilityErrors(err)
	require.Len(t, errs, 3)
	assert.Equal(t, []schema.Violation{schema.TypeMismatch, schema.NotNullable, schema.MissingField},
		[]schema.Violation{errs[0].Violation, errs[1].Violation, errs[2].Violation})

	var ce *schema.CompatibilityError
	assert.True(t, errors.As(err, &ce))
}

func TestCheckCompatible_FieldNamesIgnoreCase(t *testing.T) {
	actual := record(t,
		schema.Field{Name: "COLUMN_A", Type: schema.Of(schema.KindString)},
		schema.Field{Name: "column_b", Type: schema.Of(schema.KindString)},
		schema.Field{Name: "COLUMN_B", Type: schema.Of(schema.KindBoolean)},
	)
	provided := record(t,
		schema.Field{Name: "column_a", Type: schema.Of(schema.KindString)},
		schema.Field{Name: "COLUMN_B", Type: schema.Of(schema.KindBoolean)},
	)

	assert.NoError(t, schema.CheckCompatible(actual, provided, true))

	f, ok := actual.FieldFold("Column_A")
	require.True(t, ok)
	assert.Equal(t, "COLUMN_A", f.Name)

	_, ok = actual.FieldFold("COLUMN_C")
	assert.False(t, ok)
}
