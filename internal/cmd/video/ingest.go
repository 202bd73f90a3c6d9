package video

import (
	"os"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/config"
	"github.com/yacchi/danmaku-cli/internal/danmaku"
	"github.com/yacchi/danmaku-cli/internal/ui"
)

// ingest は URL または --xml のファイルから弾幕を読み込み、警告を表示する
func ingest(cmd *cobra.Command, args []string, xmlPath string) (*danmaku.IngestResult, *config.Store, error) {
	var (
		result *danmaku.IngestResult
		cfg    *config.Store
		err    error
	)

	switch {
	case xmlPath != "":
		cfg, err = cmdutil.GetConfigStore(cmd)
		if err != nil {
			return nil, nil, err
		}
		body, err := cmdutil.ReadInput(xmlPath, os.Stdin, cfg.Text().MaxBytes)
		if err != nil {
			return nil, nil, err
		}
		result = danmaku.IngestBody(cmd.Context(), body, xmlPath)
	case len(args) == 1:
		client, c, err := cmdutil.GetClient(cmd)
		if err != nil {
			return nil, nil, err
		}
		cfg = c
		if result, err = danmaku.Ingest(cmd.Context(), client, args[0]); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, errors.New("a video URL or --xml is required")
	}

	for _, msg := range result.WarningMessages() {
		ui.Warning("%s", msg)
	}
	return result, cfg, nil
}
