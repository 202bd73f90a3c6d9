package config

import (
	"github.com/spf13/cobra"
)

// ConfigCmd は設定を扱うコマンド
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "Get, set and inspect layered configuration (defaults, user, project, environment, flags).",
}

func init() {
	ConfigCmd.AddCommand(getCmd)
	ConfigCmd.AddCommand(setCmd)
	ConfigCmd.AddCommand(listCmd)
	ConfigCmd.AddCommand(pathCmd)
}
