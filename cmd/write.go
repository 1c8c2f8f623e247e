package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"snowflake-connector/internal/codec"
	"snowflake-connector/internal/config"
	"snowflake-connector/internal/engine"
	"snowflake-connector/internal/schema"
	"snowflake-connector/internal/warehouse"

	"github.com/spf13/cobra"
)

var (
	writeTable      string
	writeInput      string
	writeSchemaFile string
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write JSON lines into a table through the user stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		sink, err := sinkConfig()
		if err != nil {
			return err
		}
		if writeTable != "" {
			sink.TableName = writeTable
		}

		acc, input, err := openSink(ctx, sink, writeSchemaFile)
		if err != nil {
			return err
		}
		defer acc.Close()

		var in io.Reader = os.Stdin
		if writeInput != "" {
			f, err := os.Open(writeInput)
			if err != nil {
				return fmt.Errorf("failed to open input file: %w", err)
			}
			defer f.Close()
			in = f
		}

		start := time.Now()
		w := newSinkWriter(acc, sink, input)
		n, err := writeJSONLines(ctx, w, input, in)
		if err == nil {
			err = w.Close(ctx)
		}
		if err != nil {
			_ = w.Stage.RemoveDir(context.Background())
			return err
		}
		if err := w.Commit(ctx); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "✓ %d records written to %s in %d file(s)\n", n, sink.TableName, w.Files())
		log.Printf("Write Done! Time Elapsed: %s", time.Since(start))
		return nil
	},
}

func sinkConfig() (config.SinkConfig, error) {
	var sink config.SinkConfig
	conn, err := GetActiveConnection(profile)
	if err != nil {
		return sink, err
	}
	if err := loadSection("sink", &sink); err != nil {
		return sink, err
	}
	sink.Connection = *conn
	return sink, nil
}

// openSink connects and returns the input schema: the declared one from
// schemaFile, checked against the table, or the table's own schema.
func openSink(ctx context.Context, sink config.SinkConfig, schemaFile string) (*warehouse.Accessor, *schema.Record, error) {
	var fs config.Failures
	config.ValidateSink(sink, &fs)
	if err := fs.Err(); err != nil {
		return nil, nil, err
	}

	acc, err := openWarehouse(ctx, sink.Connection)
	if err != nil {
		return nil, nil, err
	}

	var input *schema.Record
	if schemaFile != "" {
		b, err := os.ReadFile(schemaFile)
		if err != nil {
			acc.Close()
			return nil, nil, fmt.Errorf("failed to read schema file: %w", err)
		}
		if input, err = schema.ParseRecord(string(b)); err != nil {
			acc.Close()
			return nil, nil, err
		}
		config.ValidateInputSchema(ctx, sink, input, acc, &fs)
	} else {
		columns, err := acc.Describe(ctx, "SELECT * FROM "+sink.TableName)
		if err != nil {
			acc.Close()
			return nil, nil, err
		}
		if input, err = schema.DeriveSchema(columns); err != nil {
			acc.Close()
			return nil, nil, err
		}
	}
	if err := fs.Err(); err != nil {
		acc.Close()
		return nil, nil, err
	}
	return acc, input, nil
}

func newSinkWriter(acc *warehouse.Accessor, sink config.SinkConfig, input *schema.Record) *engine.Sink {
	return &engine.Sink{
		Stage:       warehouse.NewStage(acc, warehouse.SinkPrefix),
		Schema:      input,
		Table:       sink.TableName,
		CopyOptions: sink.CopyOptionsClause(),
		MaxFileSize: sink.MaxFileSize,
		Logger:      Logger,
	}
}

// writeJSONLines normalizes every JSON object read from r and writes it.
func writeJSONLines(ctx context.Context, w *engine.Sink, s *schema.Record, r io.Reader) (int, error) {
	dec := json.NewDecoder(bufio.NewReader(r))
	dec.UseNumber()

	n := 0
	for {
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, fmt.Errorf("failed to decode record %d: %w", n+1, err)
		}
		rec, err := codec.Normalize(s, obj)
		if err != nil {
			return n, fmt.Errorf("record %d: %w", n+1, err)
		}
		if err := w.Write(ctx, rec); err != nil {
			return n, fmt.Errorf("record %d: %w", n+1, err)
		}
		n++
	}
}

func init() {
	RootCmd.AddCommand(writeCmd)

	writeCmd.Flags().StringVarP(&writeTable, "table", "t", "", "destination table (overrides sink.tableName)")
	writeCmd.Flags().StringVarP(&writeInput, "input", "i", "", "input JSON lines file (default stdin)")
	writeCmd.Flags().StringVar(&writeSchemaFile, "schema-file", "", "declared input schema, checked against the table")
}
