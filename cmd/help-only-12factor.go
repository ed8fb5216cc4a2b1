package cmd

import (
	"fmt"
	"strings"

	"github.com/relloyd/dpu/constants"
	"github.com/spf13/cobra"
)

var twelveFactorCmd = &cobra.Command{
	Use:   "12f",
	Short: `View help notes for running in Twelve-Factor mode`,
	Long: fmt.Sprintf(`
dpu can be controlled by environment variables, which suits scheduled containers
and AWS Lambda.

To enable Twelve-Factor mode, set environment variable %[1]s_12FACTOR_MODE=1, or
%[1]s_12FACTOR_MODE=lambda to run as a Lambda handler. Choose the action with
%[1]s_COMMAND and %[1]s_SUBCOMMAND. To supply flags documented by the regular
command-line usage, set an equivalent environment variable using the convention:

<%[1]s>_<flag long-name in upper case>

For example, this will run a table sync:

export %[1]s_12FACTOR_MODE=1
export %[1]s_LOG_LEVEL=info
export %[1]s_COMMAND=sync
export %[1]s_SUBCOMMAND=tables
export %[1]s_TABLE_LIST=s3://config-bucket/sync/tables.yaml
export %[1]s_JOB_NAME=daily-table-sync
export %[1]s_SOURCE_CONNECTION=erp
export %[1]s_TARGET_CONNECTION=warehouse

Then execute the CLI tool without any arguments or flags to kick off the action.
Run 'dpu 12f <command> <subcommand>' to list the variables an action reads.
`, constants.EnvVarPrefix),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		target, _, err := rootCmd.Find(args)
		if err != nil {
			return err
		}
		if target == rootCmd {
			return fmt.Errorf("unknown command %q", strings.Join(args, " "))
		}
		for _, v := range envVarsForFlags(target.Flags()) {
			fmt.Println(v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(twelveFactorCmd)
}
