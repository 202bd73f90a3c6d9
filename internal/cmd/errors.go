package cmd

import (
	"errors"

	"github.com/yacchi/danmaku-cli/internal/bilibili"
	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/ui"
)

// ExitCode はエラーの終了コード
type ExitCode int

const (
	ExitOK       ExitCode = 0
	ExitError    ExitCode = 1
	ExitNotFound ExitCode = 3
	ExitConfig   ExitCode = 4
	ExitNetwork  ExitCode = 5
)

// HandleError はエラーを処理して適切なメッセージを表示する
func HandleError(err error) ExitCode {
	if err == nil {
		return ExitOK
	}

	var notFound *bilibili.IdentifierNotFoundError
	if errors.As(err, &notFound) {
		ui.Error("%v", err)
		ui.Info("Check that the URL points to a bilibili video page.")
		return ExitNotFound
	}

	var netErr *bilibili.NetworkError
	if errors.As(err, &netErr) {
		ui.Error("%v", err)
		return ExitNetwork
	}

	var cfgErr *cmdutil.ConfigError
	if errors.As(err, &cfgErr) {
		ui.Error("%v", err)
		return ExitConfig
	}

	ui.Error("%v", err)
	return ExitError
}
