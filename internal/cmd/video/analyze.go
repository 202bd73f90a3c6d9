package video

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/yacchi/jubako"

	"github.com/yacchi/danmaku-cli/internal/analysis"
	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/config"
	"github.com/yacchi/danmaku-cli/internal/danmaku"
	"github.com/yacchi/danmaku-cli/internal/export"
	"github.com/yacchi/danmaku-cli/internal/histogram"
	"github.com/yacchi/danmaku-cli/internal/sentiment"
	"github.com/yacchi/danmaku-cli/internal/ui"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze danmaku of a video",
	Long: `Fetch the danmaku of a bilibili video and run the selected analyses.

Available analyses: freq, sentiment, wordcloud, timeline, summary.
When --analysis is omitted on a terminal, you are asked to pick them.

Examples:
  danmaku video analyze https://www.bilibili.com/video/BV1xx411c7mD
  danmaku video analyze https://www.bilibili.com/video/BV1xx411c7mD --analysis freq,sentiment
  danmaku video analyze --xml list.xml --out-dir result --web`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeXML      string
	analyzePasses   []string
	analyzeOutDir   string
	analyzeWeb      bool
	analyzeJQ       string
	analyzeFontPath string
	analyzeBins     int
	analyzeSeg      string
	analyzeSeed     int
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeXML, "xml", "", "Read a saved comment list instead of fetching (- for stdin)")
	analyzeCmd.Flags().StringSliceVarP(&analyzePasses, "analysis", "a", nil, "Analyses to run (freq, sentiment, wordcloud, timeline, summary)")
	_ = analyzeCmd.RegisterFlagCompletionFunc("analysis", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return analysis.Strings(analysis.DanmakuPasses), cobra.ShellCompDirectiveNoFileComp
	})
	analyzeCmd.Flags().StringVar(&analyzeOutDir, "out-dir", "", "Write results (CSV, PNG, HTML) into this directory")
	analyzeCmd.Flags().BoolVarP(&analyzeWeb, "web", "w", false, "Open the rendered word cloud and timeline in the browser")
	analyzeCmd.Flags().StringVar(&analyzeJQ, "jq", "", "Filter JSON output using a jq expression")
	analyzeCmd.Flags().StringVar(&analyzeFontPath, "font", "", "Font file for the word cloud (overrides wordcloud.font_path)")
	analyzeCmd.Flags().IntVar(&analyzeBins, "bins", 0, "Number of timeline bins (overrides analysis.histogram_bins)")
	analyzeCmd.Flags().StringVar(&analyzeSeg, "segmenter", "", "Tokenizer: jieba or simple (overrides analysis.segmenter)")
	analyzeCmd.Flags().IntVar(&analyzeSeed, "seed", 0, "Word cloud layout seed (overrides wordcloud.seed)")
}

// analyzeOverrides は設定を上書きする解析系フラグ
type analyzeOverrides struct {
	FontPath  string
	Segmenter string
	Bins      int
	// Seed は --seed が指定されたときだけ非nil
	Seed *int
}

// argsLayerStore は Args レイヤーへの書き込みと再解決ができる設定ストア
type argsLayerStore interface {
	SetFlagsLayer(options []jubako.SetOption) error
	SetToLayer(layerName, key string, value any) error
	Reload(ctx context.Context) error
}

// apply はフラグを Args レイヤーに積んで設定として解決させる
func (o analyzeOverrides) apply(ctx context.Context, cfg argsLayerStore) error {
	var setOptions []jubako.SetOption
	if o.FontPath != "" {
		setOptions = append(setOptions, jubako.String(config.PathWordcloudFontPath, o.FontPath))
	}
	if o.Segmenter != "" {
		setOptions = append(setOptions, jubako.String(config.PathAnalysisSegmenter, o.Segmenter))
	}
	if len(setOptions) > 0 {
		if err := cfg.SetFlagsLayer(setOptions); err != nil {
			return &cmdutil.ConfigError{Err: err}
		}
	}

	reload := false
	if o.Bins > 0 {
		if err := cfg.SetToLayer(config.LayerArgs, config.PathAnalysisHistogramBin, o.Bins); err != nil {
			return &cmdutil.ConfigError{Err: err}
		}
		reload = true
	}
	if o.Seed != nil {
		if err := cfg.SetToLayer(config.LayerArgs, config.PathWordcloudSeed, *o.Seed); err != nil {
			return &cmdutil.ConfigError{Err: err}
		}
		reload = true
	}
	if reload {
		if err := cfg.Reload(ctx); err != nil {
			return &cmdutil.ConfigError{Err: err}
		}
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	passes, err := cmdutil.SelectPasses(analyzePasses, analysis.DanmakuPasses)
	if err != nil {
		return err
	}

	result, cfg, err := ingest(cmd, args, analyzeXML)
	if err != nil {
		return err
	}

	overrides := analyzeOverrides{
		FontPath:  analyzeFontPath,
		Segmenter: analyzeSeg,
		Bins:      analyzeBins,
	}
	if cmd.Flags().Changed("seed") {
		overrides.Seed = &analyzeSeed
	}
	if err := overrides.apply(cmd.Context(), cfg); err != nil {
		return err
	}

	runner, closeRunner, err := cmdutil.GetRunner(cfg)
	if err != nil {
		return err
	}
	defer closeRunner()

	report := runner.RunDanmaku(cmd.Context(), result.Corpus, passes)
	report.Warnings = result.WarningMessages()

	outDir := analyzeOutDir
	if outDir == "" && analyzeWeb {
		if outDir, err = os.MkdirTemp("", "danmaku-"); err != nil {
			return err
		}
	}
	var written []string
	if outDir != "" {
		if written, err = writeReport(outDir, result.Corpus, report); err != nil {
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

	if analyzeWeb {
		for _, path := range written {
			if strings.HasSuffix(path, ".html") || strings.HasSuffix(path, ".png") {
				if err := browser.OpenFile(path); err != nil {
					ui.Warning("failed to open %s: %v", path, err)
				}
			}
		}
	}

	if n := len(report.Failures); n > 0 {
		return fmt.Errorf("%d of %d analyses failed", n, len(passes))
	}
	return nil
}

// writeReport は成功したパスの結果を outDir に書き出し、書いたパスを返す
func writeReport(outDir string, corpus danmaku.Corpus, report *analysis.DanmakuReport) ([]string, error) {
	type target struct {
		name  string
		write func(w io.Writer) error
	}
	targets := []target{
		{export.CommentsCSVName, func(w io.Writer) error { return export.WriteCommentsCSV(w, corpus) }},
	}
	if report.Frequency != nil {
		targets = append(targets, target{export.FrequencyCSVName, func(w io.Writer) error {
			return export.WriteFrequencyCSV(w, report.Frequency)
		}})
	}
	if report.Sentiment != nil {
		targets = append(targets, target{export.SentimentCSVName, func(w io.Writer) error {
			return export.WriteSentimentCSV(w, *report.Sentiment)
		}})
	}
	if report.Wordcloud != nil {
		targets = append(targets, target{export.WordcloudPNGName, func(w io.Writer) error {
			_, err := w.Write(report.Wordcloud.PNG)
			return err
		}})
	}
	if report.Timeline != nil {
		targets = append(targets, target{export.TimelineHTMLName, func(w io.Writer) error {
			return export.HistogramChart(w, *report.Timeline, "Danmaku timeline")
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

func printReport(report *analysis.DanmakuReport) {
	fmt.Printf("%s %d\n", ui.Bold("Comments:"), report.Comments)

	if report.Frequency != nil {
		fmt.Printf("\n%s\n", ui.Bold("Word frequency"))
		if len(report.Frequency) == 0 {
			fmt.Println(ui.Gray("  (no words)"))
		} else {
			table := ui.NewTable("WORD", "COUNT").AlignRight(1)
			for _, e := range report.Frequency {
				table.AddRow(e.Word, fmt.Sprint(e.Count))
			}
			table.Render(os.Stdout)
		}
	}

	if report.Sentiment != nil {
		b := report.Sentiment
		fmt.Printf("\n%s\n", ui.Bold("Sentiment"))
		table := ui.NewTable("LABEL", "COUNT", "SHARE").AlignRight(1, 2)
		rows := []struct {
			label sentiment.Label
			count int
		}{
			{sentiment.LabelPositive, b.Positive},
			{sentiment.LabelNeutral, b.Neutral},
			{sentiment.LabelNegative, b.Negative},
		}
		for _, row := range rows {
			share := "-"
			if b.Scored() > 0 {
				share = fmt.Sprintf("%.1f%%", float64(row.count)*100/float64(b.Scored()))
			}
			table.AddRow(ui.SentimentColor(string(row.label)), fmt.Sprint(row.count), share)
		}
		table.Render(os.Stdout)
		if b.Skipped > 0 {
			fmt.Println(ui.Gray(fmt.Sprintf("  %d comments skipped (no scorable words)", b.Skipped)))
		}
	}

	if report.Wordcloud != nil {
		fmt.Printf("\n%s %d words rendered\n", ui.Bold("Word cloud:"), report.Wordcloud.Words)
	}

	if report.Timeline != nil {
		fmt.Printf("\n%s\n", ui.Bold("Timeline"))
		printTimeline(*report.Timeline)
	}

	if report.Summary != nil {
		fmt.Printf("\n%s\n", ui.Bold("Summary"))
		for _, line := range report.Summary {
			fmt.Printf("  - %s\n", line)
		}
	}
}

func printTimeline(h histogram.Histogram) {
	const barWidth = 40
	maxCount := h.Max()
	table := ui.NewTable("RANGE", "COUNT", "").AlignRight(1)
	for _, b := range h.Bins {
		bar := ""
		if maxCount > 0 {
			bar = strings.Repeat("█", b.Count*barWidth/maxCount)
		}
		table.AddRow(
			fmt.Sprintf("%s-%s", danmaku.FormatClock(b.Lower), danmaku.FormatClock(b.Upper)),
			fmt.Sprint(b.Count),
			ui.Cyan(bar),
		)
	}
	table.Render(os.Stdout)
}
