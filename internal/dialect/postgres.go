package dialect

import (
	"fmt"

	"snowflake-connector/internal/schema"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string {
	return "postgres"
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	switch t {
	case "INT4", "SERIAL":
		return "INTEGER"
	case "INT2":
		return "SMALLINT"
	case "INT8", "BIGSERIAL":
		return "BIGINT"
	case "FLOAT4":
		return "REAL"
	case "FLOAT8":
		return "DOUBLE"
	case "BPCHAR":
		return "CHAR"
	case "BOOL":
		return "BOOLEAN"
	default:
		return t
	}
}

func (d *PostgresDialect) TypeCode(sqlType string, scale int64) int {
	switch d.NormalizeType(sqlType) {
	case "VARCHAR", "TEXT", "NAME", "UUID", "JSON", "JSONB":
		return schema.TypeVarchar
	case "CHAR":
		return schema.TypeChar
	case "INTEGER":
		return schema.TypeInteger
	case "SMALLINT":
		return schema.TypeSmallInt
	case "BIGINT":
		return schema.TypeBigInt
	case "NUMERIC":
		return schema.TypeDecimal
	case "REAL":
		return schema.TypeReal
	case "DOUBLE":
		return schema.TypeDouble
	case "BOOLEAN":
		return schema.TypeBoolean
	case "DATE":
		return schema.TypeDate
	case "TIME":
		return schema.TypeTime
	case "TIMESTAMP":
		return schema.TypeTimestamp
	case "TIMESTAMPTZ":
		return schema.TypeTimestampTZ
	case "BYTEA":
		return schema.TypeBinary
	default:
		return schema.TypeOther
	}
}

func (d *PostgresDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("SELECT * FROM (%s) AS q LIMIT %d", RemoveSemicolon(query), limit)
}
