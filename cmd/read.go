package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"snowflake-connector/internal/codec"
	"snowflake-connector/internal/config"
	"snowflake-connector/internal/engine"
	"snowflake-connector/internal/warehouse"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	readQuery  string
	readOutput string
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the result of a query as JSON lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		conn, err := GetActiveConnection(profile)
		if err != nil {
			return err
		}
		var src config.SourceConfig
		if err := loadSection("source", &src); err != nil {
			return err
		}
		src.Connection = *conn
		if readQuery != "" {
			src.ImportQuery = readQuery
		}
		if cmd.Flags().Changed("parallelism") || src.Parallelism == 0 {
			src.Parallelism = viper.GetInt("settings.parallelism")
		}

		var fs config.Failures
		config.ValidateSource(src, &fs)
		if err := fs.Err(); err != nil {
			return err
		}

		acc, err := openWarehouse(ctx, src.Connection)
		if err != nil {
			return err
		}
		defer acc.Close()

		rec := config.ResolveOutputSchema(ctx, src, acc, &fs)
		if err := fs.Err(); err != nil {
			return err
		}

		var out io.Writer = os.Stdout
		if readOutput != "" {
			f, err := os.Create(readOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		start := time.Now()
		stage := warehouse.NewStage(acc, warehouse.SourcePrefix)
		defer func() {
			if err := stage.RemoveDir(context.Background()); err != nil {
				Logger.Warn("failed to remove stage dir", zap.String("stage", stage.Path), zap.Error(err))
			}
		}()

		splits, err := stage.Unload(ctx, src.ImportQuery, src.MaxSplitSize)
		if err != nil {
			return err
		}
		log.Printf("Reading %d split(s) from %s", len(splits), stage.Path)

		uiprogress.Start()
		bar := uiprogress.AddBar(max(len(splits), 1)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Reading: "
		})

		enc := json.NewEncoder(out)
		source := &engine.Source{
			Splits:      engine.StageSplits(stage),
			Schema:      rec,
			Parallelism: src.Parallelism,
			Logger:      Logger,
		}
		results, runErr := source.Run(ctx, splits, func(r codec.Record) error {
			obj, err := codec.ToJSON(rec, r)
			if err != nil {
				return err
			}
			return enc.Encode(obj)
		}, func() {
			bar.Incr()
		})

		uiprogress.Stop()

		printResults(results, time.Since(start))
		return runErr
	},
}

// printResults writes the per-split summary report to stderr.
func printResults(results []engine.Result, elapsed time.Duration) {
	fmt.Fprintln(os.Stderr, "\n📊 Summary Report:")
	total := 0
	for i, r := range results {
		icon := "✓"
		if r.Status != engine.StatusOK {
			icon = "!"
		}
		status := r.Status
		if status == "" {
			status = "SKIPPED"
		}
		fmt.Fprintf(os.Stderr, "[%s] [%02d/%02d] %-20s : %d rows - %s\n",
			icon, i+1, len(results), r.Split, r.Rows, status)
		if r.ErrorMsg != "" {
			fmt.Fprintf(os.Stderr, "    └ Error: %s\n", r.ErrorMsg)
		}
		total += r.Rows
	}
	fmt.Fprintln(os.Stderr, "--------------------------------------------------")
	fmt.Fprintf(os.Stderr, "Total Rows: %d\n", total)
	log.Printf("Read Done! Time Elapsed: %s", elapsed)
}

func init() {
	RootCmd.AddCommand(readCmd)

	readCmd.Flags().StringVarP(&readQuery, "query", "q", "", "query to read (overrides source.importQuery)")
	readCmd.Flags().StringVarP(&readOutput, "output", "o", "", "output file (default stdout)")
	readCmd.Flags().Int("parallelism", 0, "splits read in parallel (overrides source.parallelism)")

	viper.BindPFlag("settings.parallelism", readCmd.Flags().Lookup("parallelism"))
	viper.SetDefault("settings.parallelism", engine.DefaultParallelism)
}
