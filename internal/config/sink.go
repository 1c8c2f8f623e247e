package config

import (
	"context"
	"fmt"
	"strings"

	"snowflake-connector/internal/schema"
)

const (
	PropertyTableName   = "tableName"
	PropertyMaxFileSize = "maxFileSize"
	PropertyCopyOptions = "copyOptions"
)

// SinkConfig configures writing records into a table.
type SinkConfig struct {
	Connection `mapstructure:",squash"`

	TableName   string `mapstructure:"tableName"`
	MaxFileSize int64  `mapstructure:"maxFileSize"` // Bytes per uploaded file, 0 for one file
	CopyOptions string `mapstructure:"copyOptions"` // "KEY:VALUE,KEY:VALUE"
}

// CopyOptionsClause renders CopyOptions in COPY syntax.
func (c SinkConfig) CopyOptionsClause() string {
	return strings.NewReplacer(",", " ", ":", "=").Replace(c.CopyOptions)
}

func ValidateSink(c SinkConfig, fs *Failures) {
	ValidateConnection(c.Connection, fs)
	if strings.TrimSpace(c.TableName) == "" {
		fs.Add("Table Name is not set.", "", PropertyTableName)
	}
	if c.MaxFileSize < 0 {
		fs.Add(fmt.Sprintf("Maximum File Size must be non-negative, got %d.", c.MaxFileSize), "", PropertyMaxFileSize)
	}
}

// ValidateInputSchema checks that the destination table can hold records of
// the input schema. A nil input schema is not checked.
func ValidateInputSchema(ctx context.Context, c SinkConfig, input *schema.Record, d Describer, fs *Failures) {
	if input == nil || strings.TrimSpace(c.TableName) == "" {
		return
	}

	columns, err := d.Describe(ctx, "SELECT * FROM "+c.TableName)
	if err != nil {
		fs.Add(fmt.Sprintf("Unable to describe table '%s': %v", c.TableName, err), "", PropertyTableName)
		return
	}
	expected, err := schema.DeriveSchema(columns)
	if err != nil {
		fs.Add(fmt.Sprintf("Unable to derive schema of table '%s': %v", c.TableName, err), "", PropertyTableName)
		return
	}

	for _, ce := range schema.CompatibilityErrors(schema.CheckCompatible(expected, input, true)) {
		fs.Add(fmt.Sprintf("Input schema does not correspond with schema of actual table. %s", ce.Error()), "", ce.Field)
	}
}
