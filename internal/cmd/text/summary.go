package text

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/summary"
	"github.com/yacchi/danmaku-cli/internal/ui"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [file]",
	Short: "Summarize text",
	Long: `Extract the most representative sentences of a text (LexRank with MMR).

Examples:
  danmaku text summary article.txt --lines 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

var summaryLines int

func init() {
	summaryCmd.Flags().IntVarP(&summaryLines, "lines", "n", 0, "Number of sentences (default: text.summary_lines)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := cmdutil.GetConfigStore(cmd)
	if err != nil {
		return err
	}
	input, err := cmdutil.ReadInput(argOrEmpty(args), os.Stdin, cfg.Text().MaxBytes)
	if err != nil {
		return err
	}

	lines := summaryLines
	if lines <= 0 {
		lines = cfg.Text().SummaryLines
	}
	sentences, err := summary.Summarize(input, lines)
	if err != nil {
		return err
	}

	if cmdutil.IsJSONOutput(cfg) {
		return cmdutil.OutputJSONToStdout(map[string][]string{"summary": sentences}, "")
	}
	if len(sentences) == 0 {
		ui.Info("Nothing to summarize")
		return nil
	}
	for _, s := range sentences {
		fmt.Println(s)
	}
	return nil
}
