package text

import (
	"github.com/spf13/cobra"
)

// TextCmd は汎用テキストに関するコマンド
var TextCmd = &cobra.Command{
	Use:   "text",
	Short: "Clean and analyze arbitrary text",
	Long:  "Clean, analyze and summarize text read from a file or standard input.",
}

func init() {
	TextCmd.AddCommand(cleanCmd)
	TextCmd.AddCommand(analyzeCmd)
	TextCmd.AddCommand(summaryCmd)
}
