package dialect

import (
	"fmt"
	"regexp"

	"snowflake-connector/internal/schema"
)

type SnowflakeDialect struct{}

// Matches an existing "limit <n>", including the unlimited forms
// "limit ''", "limit $$$$" and "limit null".
var limitPattern = regexp.MustCompile(`(?i)LIMIT (''|\$\$\$\$|null|\d+)`)

func (d *SnowflakeDialect) Name() string {
	return "snowflake"
}

func (d *SnowflakeDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	switch t {
	case "NUMBER", "NUMERIC", "DECIMAL", "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "BYTEINT":
		return "FIXED"
	case "FLOAT", "FLOAT4", "FLOAT8", "DOUBLE", "DOUBLE PRECISION":
		return "REAL"
	case "VARCHAR", "CHAR", "CHARACTER", "STRING", "NVARCHAR", "NCHAR":
		return "TEXT"
	case "DATETIME", "TIMESTAMP":
		return "TIMESTAMP_NTZ"
	case "VARBINARY":
		return "BINARY"
	default:
		return t
	}
}

// TypeCode follows the Snowflake JDBC driver: FIXED columns without a scale
// are reported as BIGINT, semi-structured columns as VARCHAR.
func (d *SnowflakeDialect) TypeCode(sqlType string, scale int64) int {
	switch d.NormalizeType(sqlType) {
	case "FIXED":
		if scale == 0 {
			return schema.TypeBigInt
		}
		return schema.TypeDecimal
	case "REAL":
		return schema.TypeDouble
	case "TEXT", "VARIANT", "OBJECT", "ARRAY":
		return schema.TypeVarchar
	case "BINARY":
		return schema.TypeBinary
	case "BOOLEAN":
		return schema.TypeBoolean
	case "DATE":
		return schema.TypeDate
	case "TIME":
		return schema.TypeTime
	case "TIMESTAMP_LTZ", "TIMESTAMP_NTZ", "TIMESTAMP_TZ":
		return schema.TypeTimestamp
	default:
		return schema.TypeOther
	}
}

func (d *SnowflakeDialect) GetLimitRowQuery(query string, limit int) string {
	query = RemoveSemicolon(query)
	limitString := fmt.Sprintf("limit %d", limit)
	if limitPattern.MatchString(query) {
		return limitPattern.ReplaceAllString(query, limitString)
	}
	return fmt.Sprintf("%s %s", query, limitString)
}
