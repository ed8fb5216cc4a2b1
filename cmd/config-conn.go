package cmd

import (
	"fmt"

	c "github.com/relloyd/dpu/constants"
	"github.com/spf13/cobra"
)

var configConnCmd = &cobra.Command{
	Use:     "connections",
	Aliases: []string{"conn"},
	Short:   "Inspect the connection registry",
	Long: fmt.Sprintf(`Inspect the connection registry, a YAML file of the form:

connections:
  <name>:
    type: mysql | oracle | sqlserver | postgres | snowflake
    secret: <Secrets Manager secret id holding jdbc, username and password>

The file is read from $%v or ~/.dpu/connections.yaml unless --connections-file is given.`,
		c.EnvVarConnectionsFile),
}

func init() {
	configCmd.AddCommand(configConnCmd)
	initConnList()
}
