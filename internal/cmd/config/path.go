package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/config"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file paths",
	RunE:  runPath,
}

func runPath(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return &cmdutil.ConfigError{Err: err}
	}

	fmt.Printf("Config:  %s\n", cfg.GetUserConfigPath())
	if projectPath := cfg.GetProjectConfigPath(); projectPath != "" {
		fmt.Printf("Project: %s\n", projectPath)
	}
	if cacheDir, err := cfg.Cache().GetCacheDir(); err == nil {
		fmt.Printf("Cache:   %s\n", cacheDir)
	}
	return nil
}
