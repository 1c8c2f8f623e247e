package dialect

import (
	"fmt"
	"strings"

	"snowflake-connector/internal/schema"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string {
	return "oracle"
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := DefaultNormalizeType(sqlType)
	if strings.Contains(s, "CHAR") || strings.Contains(s, "CLOB") {
		return "VARCHAR"
	}
	if strings.HasPrefix(s, "TIMESTAMP") {
		if strings.Contains(s, "TIME ZONE") {
			return "TIMESTAMPTZ"
		}
		return "TIMESTAMP"
	}
	if s == "RAW" || s == "LONG RAW" || s == "BLOB" {
		return "BINARY"
	}
	return s
}

// TypeCode follows the Oracle driver, which reports DATE columns as TIMESTAMP.
func (d *OracleDialect) TypeCode(sqlType string, scale int64) int {
	switch d.NormalizeType(sqlType) {
	case "VARCHAR":
		return schema.TypeVarchar
	case "BINARY":
		return schema.TypeBinary
	case "NUMBER":
		return schema.TypeDecimal
	case "BINARY_DOUBLE", "FLOAT":
		return schema.TypeDouble
	case "BINARY_FLOAT":
		return schema.TypeReal
	case "DATE", "TIMESTAMP":
		return schema.TypeTimestamp
	case "TIMESTAMPTZ":
		return schema.TypeTimestampTZ
	default:
		return schema.TypeOther
	}
}

func (d *OracleDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("SELECT * FROM (%s) WHERE ROWNUM <= %d", RemoveSemicolon(query), limit)
}
