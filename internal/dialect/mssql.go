package dialect

import (
	"fmt"

	"snowflake-connector/internal/schema"
)

type MSSQLDialect struct{}

func (d *MSSQLDialect) Name() string {
	return "sqlserver"
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	switch t {
	case "NVARCHAR", "NTEXT", "TEXT", "UNIQUEIDENTIFIER", "XML", "SQL_VARIANT":
		return "VARCHAR"
	case "NCHAR":
		return "CHAR"
	case "BIT":
		return "BOOLEAN"
	case "NUMERIC", "MONEY", "SMALLMONEY":
		return "DECIMAL"
	case "FLOAT":
		return "DOUBLE"
	case "DATETIME", "DATETIME2", "SMALLDATETIME":
		return "TIMESTAMP"
	case "IMAGE", "VARBINARY":
		return "BINARY"
	default:
		return t
	}
}

func (d *MSSQLDialect) TypeCode(sqlType string, scale int64) int {
	switch d.NormalizeType(sqlType) {
	case "VARCHAR":
		return schema.TypeVarchar
	case "CHAR":
		return schema.TypeChar
	case "BINARY":
		return schema.TypeBinary
	case "INT":
		return schema.TypeInteger
	case "SMALLINT":
		return schema.TypeSmallInt
	case "TINYINT":
		return schema.TypeTinyInt
	case "BIGINT":
		return schema.TypeBigInt
	case "DECIMAL":
		return schema.TypeDecimal
	case "DOUBLE":
		return schema.TypeDouble
	case "REAL":
		return schema.TypeReal
	case "BOOLEAN":
		return schema.TypeBoolean
	case "DATE":
		return schema.TypeDate
	case "TIME":
		return schema.TypeTime
	case "TIMESTAMP":
		return schema.TypeTimestamp
	case "DATETIMEOFFSET":
		return schema.TypeTimestampTZ
	default:
		return schema.TypeOther
	}
}

// GetLimitRowQuery wraps the query because T-SQL has no LIMIT clause.
func (d *MSSQLDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("SELECT TOP %d * FROM (%s) AS q", limit, RemoveSemicolon(query))
}
