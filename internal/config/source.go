package config

import (
	"context"
	"fmt"
	"strings"

	"snowflake-connector/internal/schema"
)

const (
	PropertyImportQuery  = "importQuery"
	PropertyMaxSplitSize = "maxSplitSize"
	PropertySchema       = "schema"
	PropertyParallelism  = "parallelism"
)

// SourceConfig configures reading the result of a query.
type SourceConfig struct {
	Connection `mapstructure:",squash"`

	ImportQuery  string `mapstructure:"importQuery"`
	MaxSplitSize int64  `mapstructure:"maxSplitSize"` // Bytes per staged file, 0 for the server default
	Schema       string `mapstructure:"schema"`       // Optional declared output schema (JSON)
	Parallelism  int    `mapstructure:"parallelism"`
}

// Describer returns the column metadata of a query.
type Describer interface {
	Describe(ctx context.Context, query string) ([]schema.ColumnDescriptor, error)
}

func ValidateSource(c SourceConfig, fs *Failures) {
	ValidateConnection(c.Connection, fs)
	if strings.TrimSpace(c.ImportQuery) == "" {
		fs.Add("Import Query is not set.", "", PropertyImportQuery)
	}
	if c.MaxSplitSize < 0 {
		fs.Add(fmt.Sprintf("Maximum Split Size must be non-negative, got %d.", c.MaxSplitSize), "", PropertyMaxSplitSize)
	}
	if c.Parallelism < 0 {
		fs.Add(fmt.Sprintf("Parallelism must be non-negative, got %d.", c.Parallelism), "", PropertyParallelism)
	}
}

// ResolveOutputSchema returns the declared schema, or the schema described
// from the import query. Problems are recorded against the schema property
// and yield nil, as does a configuration with neither schema nor query.
func ResolveOutputSchema(ctx context.Context, c SourceConfig, d Describer, fs *Failures) *schema.Record {
	var columns []schema.ColumnDescriptor
	if strings.TrimSpace(c.Schema) == "" && strings.TrimSpace(c.ImportQuery) != "" && d != nil {
		cols, err := d.Describe(ctx, c.ImportQuery)
		if err != nil {
			addSchemaFailure(fs, err)
			return nil
		}
		columns = cols
	}

	rec, err := schema.ResolveSchema(c.Schema, columns)
	if err != nil {
		addSchemaFailure(fs, err)
		return nil
	}
	return rec
}

func addSchemaFailure(fs *Failures, err error) {
	fs.Add(fmt.Sprintf("Unable to retrieve output schema. Reason: '%s'", err), "", PropertySchema)
}
