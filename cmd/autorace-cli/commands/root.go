package commands

import (
	"autorace-crawler/internal/components/telemetry"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath *string
var verbose *bool

var rootCmd = &cobra.Command{
	Use:           "autorace-cli",
	Short:         "autorace-cli collects the race result links published on autorace.jp.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if *verbose {
			telemetry.InitSlog(true)
		}
	},
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "autorace.json5", "The config file to read, <name>.local.json5 is merged on top of it.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every request.")
}

func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}
