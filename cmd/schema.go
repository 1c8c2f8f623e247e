package cmd

import (
	"context"
	"fmt"
	"os"

	"snowflake-connector/internal/config"
	"snowflake-connector/internal/schema"

	"github.com/spf13/cobra"
)

var (
	schemaQuery string
	schemaTable string
	schemaFile  string
	checkFile   string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the record schema of a query, a table or a declared schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var src config.SourceConfig
		if err := loadSection("source", &src); err != nil {
			return err
		}
		if schemaQuery != "" {
			src.ImportQuery = schemaQuery
		}
		if schemaTable != "" {
			src.ImportQuery = "SELECT * FROM " + schemaTable
		}
		if schemaFile != "" {
			b, err := os.ReadFile(schemaFile)
			if err != nil {
				return fmt.Errorf("failed to read schema file: %w", err)
			}
			src.Schema = string(b)
		}
		if src.ImportQuery == "" && src.Schema == "" {
			return fmt.Errorf("nothing to describe: set --query, --table, --schema-file or source.importQuery")
		}

		var describer config.Describer
		if src.Schema == "" {
			conn, err := GetActiveConnection(profile)
			if err != nil {
				return err
			}
			acc, err := openWarehouse(ctx, *conn)
			if err != nil {
				return err
			}
			defer acc.Close()
			describer = acc
		}

		var fs config.Failures
		rec := config.ResolveOutputSchema(ctx, src, describer, &fs)
		if err := fs.Err(); err != nil {
			return err
		}

		out, err := rec.JSON()
		if err != nil {
			return err
		}
		fmt.Println(out)

		if checkFile == "" {
			return nil
		}
		return checkAgainst(rec, checkFile)
	},
}

// checkAgainst reports every field of the schema in path that rec cannot hold.
func checkAgainst(rec *schema.Record, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	provided, err := schema.ParseRecord(string(b))
	if err != nil {
		return err
	}

	problems := schema.CompatibilityErrors(schema.CheckCompatible(rec, provided, true))
	if len(problems) == 0 {
		fmt.Fprintln(os.Stderr, "✓ compatible")
		return nil
	}
	for i, p := range problems {
		fmt.Fprintf(os.Stderr, "[!] [%02d/%02d] %-20s : %s\n", i+1, len(problems), p.Field, p.Error())
	}
	return fmt.Errorf("%d incompatible field(s)", len(problems))
}

func init() {
	RootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringVarP(&schemaQuery, "query", "q", "", "query to describe (overrides source.importQuery)")
	schemaCmd.Flags().StringVarP(&schemaTable, "table", "t", "", "table to describe")
	schemaCmd.Flags().StringVar(&schemaFile, "schema-file", "", "declared schema file, used instead of describing")
	schemaCmd.Flags().StringVar(&checkFile, "check", "", "schema file to check against the resolved schema")
}
