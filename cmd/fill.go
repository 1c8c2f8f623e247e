package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"snowflake-connector/internal/engine"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	count  int
	seed   int64
	dryRun bool
)

var fillCmd = &cobra.Command{
	Use:   "fill [table]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Fill a table with random records through the write path",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		sink, err := sinkConfig()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			sink.TableName = args[0]
		}

		acc, input, err := openSink(ctx, sink, "")
		if err != nil {
			return err
		}
		defer acc.Close()

		targetCount := viper.GetInt("settings.default_count")
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		gen := engine.NewGenerator(seed)

		if dryRun {
			log.Println("[SIMULATION] Dry-Run Mode Active: No data will be written.")
			fmt.Printf("🔍 Schema of %s:\n%s\n", sink.TableName, input)
			for i := 0; i < min(targetCount, 3); i++ {
				fmt.Printf("[%02d] %v\n", i+1, gen.Record(input))
			}
			return nil
		}

		log.Printf("Starting fill with count=%d (seed %d)...", targetCount, seed)
		start := time.Now()

		uiprogress.Start()
		bar := uiprogress.AddBar(max(targetCount, 1)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Generating: "
		})

		w := newSinkWriter(acc, sink, input)
		for i := 0; i < targetCount; i++ {
			if err = w.Write(ctx, gen.Record(input)); err != nil {
				break
			}
			bar.Incr()
		}
		if err == nil {
			err = w.Close(ctx)
		}
		uiprogress.Stop()
		if err != nil {
			_ = w.Stage.RemoveDir(context.Background())
			return err
		}
		if err := w.Commit(ctx); err != nil {
			return err
		}

		fmt.Println("\n📊 Summary Report:")
		fmt.Printf("[✓] %-20s : %d rows in %d file(s)\n", sink.TableName, targetCount, w.Files())
		log.Printf("Fill Done! Time Elapsed: %s", time.Since(start))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(fillCmd)

	fillCmd.Flags().IntVar(&count, "count", 0, "Number of records to generate (overrides config)")
	fillCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (default: current time)")
	fillCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print sample records without writing")

	viper.BindPFlag("settings.default_count", fillCmd.Flags().Lookup("count"))
	viper.SetDefault("settings.default_count", 100)
}
