package text

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/export"
	"github.com/yacchi/danmaku-cli/internal/textclean"
	"github.com/yacchi/danmaku-cli/internal/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Clean text",
	Long: `Clean text read from a file or standard input.

Rules are applied in this order: normalize (NFKC), remove punctuation,
remove digits, lowercase, collapse spaces. Without any rule flag, every
rule except normalize is applied.

Examples:
  danmaku text clean comments.txt --punct --spaces
  cat comments.txt | danmaku text clean --lower --out cleaned.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

var (
	cleanOpts textclean.Options
	cleanOut  string
)

func init() {
	cleanCmd.Flags().BoolVar(&cleanOpts.RemovePunctuation, "punct", false, "Remove punctuation")
	cleanCmd.Flags().BoolVar(&cleanOpts.RemoveDigits, "digits", false, "Remove digits")
	cleanCmd.Flags().BoolVar(&cleanOpts.Lowercase, "lower", false, "Convert to lowercase")
	cleanCmd.Flags().BoolVar(&cleanOpts.CollapseSpaces, "spaces", false, "Collapse runs of whitespace")
	cleanCmd.Flags().BoolVar(&cleanOpts.Normalize, "normalize", false, "Apply Unicode NFKC normalization")
	cleanCmd.Flags().StringVar(&cleanOut, "out", "", "Write cleaned text to a file instead of stdout")
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := cmdutil.GetConfigStore(cmd)
	if err != nil {
		return err
	}
	input, err := cmdutil.ReadInput(argOrEmpty(args), os.Stdin, cfg.Text().MaxBytes)
	if err != nil {
		return err
	}

	opts := cleanOpts
	if opts == (textclean.Options{}) {
		opts = textclean.DefaultOptions()
	}
	result := textclean.Clean(input, opts)

	if cleanOut != "" {
		if err := export.WriteFile(cleanOut, func(w io.Writer) error {
			_, err := io.WriteString(w, result.Text)
			return err
		}); err != nil {
			return err
		}
		ui.Success("Wrote cleaned text to %s", cleanOut)
	}

	if cmdutil.IsJSONOutput(cfg) {
		return cmdutil.OutputJSONToStdout(result, "")
	}
	if cleanOut == "" {
		fmt.Println(result.Text)
	}
	if len(result.Rules) > 0 {
		rules := make([]string, len(result.Rules))
		for i, r := range result.Rules {
			rules[i] = string(r)
		}
		ui.Info("Applied: %s", strings.Join(rules, ", "))
	}
	return nil
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
