package video

import (
	"github.com/spf13/cobra"
)

// VideoCmd は動画の弾幕に関するコマンド
var VideoCmd = &cobra.Command{
	Use:   "video",
	Short: "Fetch and analyze danmaku of a bilibili video",
	Long:  "Fetch the danmaku of a bilibili video page and run analyses on them.",
}

func init() {
	VideoCmd.AddCommand(fetchCmd)
	VideoCmd.AddCommand(analyzeCmd)
}
