package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/yacchi/jubako"

	configcmd "github.com/yacchi/danmaku-cli/internal/cmd/config"
	"github.com/yacchi/danmaku-cli/internal/cmd/serve"
	"github.com/yacchi/danmaku-cli/internal/cmd/text"
	"github.com/yacchi/danmaku-cli/internal/cmd/video"
	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/config"
	"github.com/yacchi/danmaku-cli/internal/debug"
	"github.com/yacchi/danmaku-cli/internal/ui"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "danmaku",
	Short: "Danmaku CLI - fetch and analyze bilibili danmaku",
	Long: `Danmaku CLI fetches the bullet comments (danmaku) of a bilibili video
and analyzes them: word frequency, sentiment, word cloud and timeline.

It also cleans and analyzes arbitrary text files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// デバッグモードの有効化
		if debugFlag, _ := cmd.Flags().GetBool("debug"); debugFlag {
			debug.Enable()
		}

		ctx := cmd.Context()
		cfg, err := config.Load(ctx)
		if err != nil {
			return &cmdutil.ConfigError{Err: err}
		}

		// グローバルフラグを取得してArgsレイヤーに適用
		var setOptions []jubako.SetOption
		if output, _ := cmd.Flags().GetString("output"); output != "" {
			setOptions = append(setOptions, jubako.String(config.PathDisplayOutput, output))
		}
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			setOptions = append(setOptions, jubako.String(config.PathDisplayColor, "never"))
		}
		if len(setOptions) > 0 {
			if err := cfg.SetFlagsLayer(setOptions); err != nil {
				return &cmdutil.ConfigError{Err: err}
			}
		}

		// カラー設定
		switch strings.ToLower(cfg.Display().Color) {
		case "never":
			ui.SetColorEnabled(false)
		case "always":
			ui.SetColorEnabled(true)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// グローバルフラグ
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table, json)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	// サブコマンド登録
	rootCmd.AddCommand(configcmd.ConfigCmd)
	rootCmd.AddCommand(serve.ServeCmd)
	rootCmd.AddCommand(text.TextCmd)
	rootCmd.AddCommand(video.VideoCmd)
}
