package dialect

// GetDialect returns the Dialect implementation for a driver name.
func GetDialect(driver string) Dialect {
	switch driver {
	case "postgres":
		return &PostgresDialect{}
	case "sqlserver", "mssql":
		return &MSSQLDialect{}
	case "oracle":
		return &OracleDialect{}
	case "mysql":
		return &MysqlDialect{}
	default:
		return &SnowflakeDialect{}
	}
}

// Ensure interface implementation
var _ Dialect = (*SnowflakeDialect)(nil)
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
var _ Dialect = (*MSSQLDialect)(nil)
var _ Dialect = (*OracleDialect)(nil)
