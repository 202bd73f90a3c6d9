package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/config"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value.

Examples:
  danmaku config get wordcloud.font_path
  danmaku config get sentiment.positive_threshold
  danmaku config get server.port`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(c *cobra.Command, args []string) error {
	key := args[0]

	cfg, err := config.Load(c.Context())
	if err != nil {
		return &cmdutil.ConfigError{Err: err}
	}

	value := cfg.Get(key)
	if value == nil {
		return &cmdutil.ConfigError{Err: fmt.Errorf("unknown config key: %s", key)}
	}

	fmt.Println(value)
	return nil
}
