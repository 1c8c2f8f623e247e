package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"snowflake-connector/internal/action"
	"snowflake-connector/internal/config"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Run COPY INTO <table> from staged or external files",
	RunE: func(cmd *cobra.Command, args []string) error {
		var c config.LoadConfig
		if err := loadSection("load", &c); err != nil {
			return err
		}
		return runAction(cmd, &c.Connection, func(ctx context.Context, exec action.Executor) error {
			return action.Load(ctx, exec, c, Logger)
		})
	},
}

var unloadCmd = &cobra.Command{
	Use:   "unload",
	Short: "Run COPY INTO <location> from a table or a query",
	RunE: func(cmd *cobra.Command, args []string) error {
		var c config.UnloadConfig
		if err := loadSection("unload", &c); err != nil {
			return err
		}
		return runAction(cmd, &c.Connection, func(ctx context.Context, exec action.Executor) error {
			return action.Unload(ctx, exec, c, Logger)
		})
	},
}

// runAction fills conn from the selected connection, connects and runs fn.
func runAction(cmd *cobra.Command, conn *config.Connection, fn func(context.Context, action.Executor) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	active, err := GetActiveConnection(profile)
	if err != nil {
		return err
	}
	*conn = *active

	acc, err := openWarehouse(ctx, *conn)
	if err != nil {
		return err
	}
	defer acc.Close()

	start := time.Now()
	if err := fn(ctx, acc.DB); err != nil {
		return err
	}
	fmt.Printf("[✓] %s done\n", cmd.Name())
	log.Printf("Time Elapsed: %s", time.Since(start))
	return nil
}

func init() {
	RootCmd.AddCommand(loadCmd)
	RootCmd.AddCommand(unloadCmd)
}
