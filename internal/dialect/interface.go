package dialect

// Dialect abstracts driver-specific metadata handling.
type Dialect interface {
	// Name is the database/sql driver name.
	Name() string

	// Type Mapping
	NormalizeType(sqlType string) string
	TypeCode(sqlType string, scale int64) int // Returns a schema.Type* code

	// Query Generation
	GetLimitRowQuery(query string, limit int) string
}
