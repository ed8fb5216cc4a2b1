package cmd

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

var (
	// Default values may be set at compile time.
	version          = "0.1.0"
	buildDate        = "2024-01-01T00:00+0000"
	stackDumpOnPanic bool
)

var rootCmd = &cobra.Command{
	Use:   "dpu",
	Short: "Data platform utilities",
	Long: `dpu bundles the utilities used by the data platform's scheduled jobs:

- sync tables from operational databases into the warehouse, in full or from a watermark
- send email notifications through SES with optional S3 attachments
- post pipeline success and failure cards to Microsoft Teams
- move files between S3 and Windows file shares

Run it with command-line flags, or set DPU_12FACTOR_MODE to drive it from environment
variables (see 'dpu 12f').`,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.PersistentFlags().BoolVar(&stackDumpOnPanic, "print-stack", false, "Print a stack dump if there is a panic")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if twelveFactorMode { // if we are running based on environment variables...
		if lambdaMode {
			lambda.Start(func() error { return execute12FactorMode(twelveFactorActions) })
		} else {
			if err := execute12FactorMode(twelveFactorActions); err != nil {
				// execute12FactorMode logs the error.
				os.Exit(1)
			}
		}
	} else {
		if err := rootCmd.Execute(); err != nil {
			// Execute() prints the error.
			os.Exit(1)
		}
	}
}
