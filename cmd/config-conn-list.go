package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configConnListCfg = struct {
	ConnectionsFile string
}{}

var configConnListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all connections",
	Long:  `List connections in the registry by printing them all to STDOUT, sorted by name`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadRegistry(configConnListCfg.ConnectionsFile)
		if err != nil {
			return err
		}
		for _, k := range r.Names() {
			conn, _ := r.Get(k)
			fmt.Println(conn)
		}
		return nil
	},
}

func initConnList() {
	configConnCmd.AddCommand(configConnListCmd)
	switches.addFlag(configConnListCmd, &configConnListCfg.ConnectionsFile, "connections-file", "", false, "")
}
