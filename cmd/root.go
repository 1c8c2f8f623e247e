package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	profile string
	verbose bool
	Logger  *zap.Logger
)

var RootCmd = &cobra.Command{
	Use:   "snowflake-connector",
	Short: "Move records between Snowflake and batch pipelines",
	Long: `
snowflake-connector reads query results out of Snowflake through the user
stage, writes records back through staged CSV files, and runs COPY load and
unload actions.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			Logger, err = zap.NewDevelopment()
		} else {
			Logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if Logger != nil {
			_ = Logger.Sync()
		}
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./snowflake-connector.yaml)")
	RootCmd.PersistentFlags().StringVar(&profile, "profile", "", "connection name to use instead of the active one")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "development logging")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Executable directory first, then the working directory.
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")

		viper.SetConfigName("snowflake-connector")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SFC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
