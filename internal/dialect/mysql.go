package dialect

import (
	"fmt"

	"snowflake-connector/internal/schema"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string {
	return "mysql"
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	switch t {
	case "UNSIGNED INT":
		return "BIGINT"
	case "UNSIGNED BIGINT":
		return "DECIMAL"
	case "TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "TEXT", "ENUM", "SET", "JSON":
		return "VARCHAR"
	case "VARBINARY", "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB":
		return "BINARY"
	case "DATETIME":
		return "TIMESTAMP"
	default:
		return t
	}
}

func (d *MysqlDialect) TypeCode(sqlType string, scale int64) int {
	switch d.NormalizeType(sqlType) {
	case "VARCHAR":
		return schema.TypeVarchar
	case "CHAR":
		return schema.TypeChar
	case "BINARY":
		return schema.TypeBinary
	case "INT", "MEDIUMINT":
		return schema.TypeInteger
	case "SMALLINT", "TINYINT":
		return schema.TypeSmallInt
	case "BIGINT":
		return schema.TypeBigInt
	case "DECIMAL":
		return schema.TypeDecimal
	case "DOUBLE":
		return schema.TypeDouble
	case "FLOAT":
		return schema.TypeReal
	case "BOOL", "BOOLEAN", "BIT":
		return schema.TypeBoolean
	case "DATE":
		return schema.TypeDate
	case "TIME":
		return schema.TypeTime
	case "TIMESTAMP":
		return schema.TypeTimestamp
	default:
		return schema.TypeOther
	}
}

func (d *MysqlDialect) GetLimitRowQuery(query string, limit int) string {
	return fmt.Sprintf("SELECT * FROM (%s) AS q LIMIT %d", RemoveSemicolon(query), limit)
}
