package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"snowflake-connector/internal/dialect"
	"snowflake-connector/internal/schema"

	"go.uber.org/zap"
)

// Accessor runs statements and metadata queries against one warehouse.
type Accessor struct {
	DB      *sql.DB
	Dialect dialect.Dialect
	Logger  *zap.Logger
}

func NewAccessor(db *sql.DB, d dialect.Dialect, logger *zap.Logger) *Accessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accessor{DB: db, Dialect: d, Logger: logger}
}

func (a *Accessor) Close() error {
	return a.DB.Close()
}

// CheckConnection verifies that the warehouse answers.
func (a *Accessor) CheckConnection(ctx context.Context) error {
	if err := a.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to communicate with snowflake: %w", err)
	}
	return nil
}

// Describe returns the output columns of query. Only one row is requested.
func (a *Accessor) Describe(ctx context.Context, query string) ([]schema.ColumnDescriptor, error) {
	probe := a.Dialect.GetLimitRowQuery(query, 1)
	a.Logger.Debug("describing query", zap.String("query", probe))

	rows, err := a.DB.QueryContext(ctx, probe)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	columns := make([]schema.ColumnDescriptor, 0, len(types))
	for _, ct := range types {
		var scale int64
		if _, s, ok := ct.DecimalSize(); ok {
			scale = s
		}
		nullable, ok := ct.Nullable()
		columns = append(columns, schema.ColumnDescriptor{
			Name:     ct.Name(),
			TypeCode: a.Dialect.TypeCode(ct.DatabaseTypeName(), scale),
			Nullable: ok && nullable,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return columns, nil
}

// Exec runs a statement that returns no rows of interest.
func (a *Accessor) Exec(ctx context.Context, statement string) error {
	a.Logger.Debug("running statement", zap.String("statement", statement))
	if _, err := a.DB.ExecContext(ctx, statement); err != nil {
		return fmt.Errorf("failed to run statement: %w", err)
	}
	return nil
}

// QueryColumn runs query and collects the named column of every row.
// The column is matched case-insensitively.
func (a *Accessor) QueryColumn(ctx context.Context, query, column string) ([]string, error) {
	a.Logger.Debug("running query", zap.String("query", query))
	rows, err := a.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	idx := -1
	for i, n := range names {
		if strings.EqualFold(n, column) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("column '%s' not found in result of '%s'", column, query)
	}

	var out []string
	values := make([]sql.NullString, len(names))
	dest := make([]any, len(names))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if values[idx].Valid {
			out = append(out, values[idx].String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}
