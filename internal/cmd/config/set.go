package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/config"
	"github.com/yacchi/danmaku-cli/internal/ui"
)

var setProject bool

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

By default, saves to user config (~/.config/danmaku/config.yaml).
Use --project to save to project config (.danmaku.yaml).

Examples:
  danmaku config set wordcloud.font_path /usr/share/fonts/noto/NotoSansCJK-Regular.ttc
  danmaku config set analysis.histogram_bins 30
  danmaku config set --project analysis.segmenter simple`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	setCmd.Flags().BoolVarP(&setProject, "project", "p", false, "Save to project config (.danmaku.yaml)")
}

func runSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := parseConfigValue(args[1])

	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return &cmdutil.ConfigError{Err: err}
	}
	if cfg.Get(key) == nil {
		return &cmdutil.ConfigError{Err: fmt.Errorf("unknown config key: %s", key)}
	}

	if setProject {
		ui.Info("Writing to project config: %s", cfg.GetProjectConfigPath())
		err = cfg.SetToLayer(config.LayerProject, key, value)
	} else {
		err = cfg.Set(key, value)
	}
	if err != nil {
		return &cmdutil.ConfigError{Err: err}
	}

	if err := cfg.Save(ctx); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	ui.Success("Set %s = %v", key, value)
	return nil
}

// parseConfigValue は真偽値と数値を型付きの値に変換する
func parseConfigValue(value string) any {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.Atoi(normalized); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(normalized, 64); err == nil {
		return f
	}
	return value
}
