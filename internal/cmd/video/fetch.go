package video

import (
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/danmaku"
	"github.com/yacchi/danmaku-cli/internal/export"
	"github.com/yacchi/danmaku-cli/internal/ui"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch danmaku of a video",
	Long: `Fetch the danmaku of a bilibili video and print them in playback order.

Examples:
  danmaku video fetch https://www.bilibili.com/video/BV1xx411c7mD
  danmaku video fetch https://www.bilibili.com/video/BV1xx411c7mD --csv danmaku.csv --xlsx danmaku.xlsx
  danmaku video fetch --xml list.xml -o json --jq '.comments | length'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

var (
	fetchXML   string
	fetchCSV   string
	fetchXLSX  string
	fetchJQ    string
	fetchLimit int
)

func init() {
	fetchCmd.Flags().StringVar(&fetchXML, "xml", "", "Read a saved comment list instead of fetching (- for stdin)")
	fetchCmd.Flags().StringVar(&fetchCSV, "csv", "", "Write comments to a CSV file")
	fetchCmd.Flags().StringVar(&fetchXLSX, "xlsx", "", "Write comments to an XLSX file")
	fetchCmd.Flags().StringVar(&fetchJQ, "jq", "", "Filter JSON output using a jq expression")
	fetchCmd.Flags().IntVarP(&fetchLimit, "limit", "L", 0, "Maximum number of comments to print (0 for all)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	result, cfg, err := ingest(cmd, args, fetchXML)
	if err != nil {
		return err
	}

	if err := writeExports(result.Corpus); err != nil {
		return err
	}

	if cmdutil.IsJSONOutput(cfg) || fetchJQ != "" {
		return cmdutil.OutputJSONToStdout(result, fetchJQ)
	}

	printComments(result.Corpus, fetchLimit)
	return nil
}

func writeExports(corpus danmaku.Corpus) error {
	targets := []struct {
		path  string
		write func(w io.Writer) error
	}{
		{fetchCSV, func(w io.Writer) error { return export.WriteCommentsCSV(w, corpus) }},
		{fetchXLSX, func(w io.Writer) error { return export.WriteCommentsXLSX(w, corpus) }},
	}
	for _, t := range targets {
		if t.path == "" {
			continue
		}
		ok, err := cmdutil.ConfirmOverwrite(t.path)
		if err != nil {
			return err
		}
		if !ok {
			ui.Info("Skipped %s", t.path)
			continue
		}
		if err := export.WriteFile(t.path, t.write); err != nil {
			return err
		}
		ui.Success("Wrote %d comments to %s", len(corpus), t.path)
	}
	return nil
}

func printComments(corpus danmaku.Corpus, limit int) {
	if len(corpus) == 0 {
		ui.Info("No danmaku found")
		return
	}

	shown := corpus
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}

	table := ui.NewTable("TIME", "SECONDS", "TEXT").AlignRight(1)
	for _, r := range shown {
		table.AddRow(r.Display, strconv.FormatFloat(r.Seconds, 'f', 3, 64), ui.Truncate(r.Text, 60))
	}
	table.Render(os.Stdout)

	if len(shown) < len(corpus) {
		ui.Info("Showing %d of %d comments", len(shown), len(corpus))
	}
}
