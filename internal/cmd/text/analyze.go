package text

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yacchi/danmaku-cli/internal/analysis"
	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/export"
	"github.com/yacchi/danmaku-cli/internal/ui"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze text",
	Long: `Analyze text read from a file or standard input.

Available analyses: freq, stats, wordcloud, summary.
Word frequency here keeps every token (no stopwords, no limit).

Examples:
  danmaku text analyze article.txt --analysis freq,stats
  danmaku text analyze article.txt --out-dir result`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzePasses []string
	analyzeOutDir string
	analyzeJQ     string
	analyzeTop    int
)

func init() {
	analyzeCmd.Flags().StringSliceVarP(&analyzePasses, "analysis", "a", nil, "Analyses to run (freq, stats, wordcloud, summary)")
	_ = analyzeCmd.RegisterFlagCompletionFunc("analysis", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return analysis.Strings(analysis.TextPasses), cobra.ShellCompDirectiveNoFileComp
	})
	analyzeCmd.Flags().StringVar(&analyzeOutDir, "out-dir", "", "Write results (CSV, PNG) into this directory")
	analyzeCmd.Flags().StringVar(&analyzeJQ, "jq", "", "Filter JSON output using a jq expression")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 30, "Number of frequency rows to print in table output (0 for all)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	passes, err := cmdutil.SelectPasses(analyzePasses, analysis.TextPasses)
	if err != nil {
		return err
	}

	cfg, err := cmdutil.GetConfigStore(cmd)
	if err != nil {
		return err
	}
	input, err := cmdutil.ReadInput(argOrEmpty(args), os.Stdin, cfg.Text().MaxBytes)
	if err != nil {
		return err
	}

	runner, closeRunner, err := cmdutil.GetRunner(cfg)
	if err != nil {
		return err
	}
	defer closeRunner()

	report := runner.RunText(cmd.Context(), input, passes)

	var written []string
	if analyzeOutDir != "" {
		if written, err = writeReport(analyzeOutDir, report); err != nil {
			return err
		}
	}

	if cmdutil.IsJSONOutput(cfg) || analyzeJQ != "" {
		if err := cmdutil.OutputJSONToStdout(report, analyzeJQ); err != nil {
			return err
		}
	} else {
		printReport(report)
	}

	for _, f := range report.Failures {
		ui.Warning("%s analysis failed: %v", f.Pass, f.Err)
	}
	for _, path := range written {
		ui.Success("Wrote %s", path)
	}

	if n := len(report.Failures); n > 0 {
		return fmt.Errorf("%d of %d analyses failed", n, len(passes))
	}
	return nil
}

func writeReport(outDir string, report *analysis.TextReport) ([]string, error) {
	type target struct {
		name  string
		write func(w io.Writer) error
	}
	var targets []target
	if report.Frequency != nil {
		targets = append(targets, target{export.FrequencyCSVName, func(w io.Writer) error {
			return export.WriteFrequencyCSV(w, report.Frequency)
		}})
	}
	if report.Stats != nil {
		targets = append(targets, target{export.StatsCSVName, func(w io.Writer) error {
			return export.WriteStatsCSV(w, *report.Stats)
		}})
	}
	if report.Wordcloud != nil {
		targets = append(targets, target{export.WordcloudPNGName, func(w io.Writer) error {
			_, err := w.Write(report.Wordcloud.PNG)
			return err
		}})
	}
	if report.Summary != nil {
		targets = append(targets, target{export.SummaryTextName, func(w io.Writer) error {
			_, err := io.WriteString(w, strings.Join(report.Summary, "\n")+"\n")
			return err
		}})
	}

	written := make([]string, 0, len(targets))
	for _, t := range targets {
		path := filepath.Join(outDir, t.name)
		if err := export.WriteFile(path, t.write); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func printReport(report *analysis.TextReport) {
	if report.Stats != nil {
		fmt.Printf("%s %d\n", ui.Bold("Characters:"), report.Stats.Characters)
		fmt.Printf("%s %d\n", ui.Bold("Words:"), report.Stats.Words)
	}

	if report.Frequency != nil {
		fmt.Printf("\n%s (%d distinct)\n", ui.Bold("Word frequency"), len(report.Frequency))
		table := ui.NewTable("WORD", "COUNT").AlignRight(1)
		for _, e := range report.Frequency.Top(analyzeTop) {
			table.AddRow(e.Word, fmt.Sprint(e.Count))
		}
		table.Render(os.Stdout)
	}

	if report.Wordcloud != nil {
		fmt.Printf("\n%s %d words rendered\n", ui.Bold("Word cloud:"), report.Wordcloud.Words)
	}

	if report.Summary != nil {
		fmt.Printf("\n%s\n", ui.Bold("Summary"))
		for _, line := range report.Summary {
			fmt.Printf("  - %s\n", line)
		}
	}
}
