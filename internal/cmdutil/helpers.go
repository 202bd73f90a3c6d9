package cmdutil

import (
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/yacchi/danmaku-cli/internal/analysis"
	"github.com/yacchi/danmaku-cli/internal/bilibili"
	"github.com/yacchi/danmaku-cli/internal/config"
	"github.com/yacchi/danmaku-cli/internal/ui"
)

// GetConfigStore はConfigStoreを取得する
// グローバルフラグはrootCmd.PersistentPreRunEで適用済み
func GetConfigStore(cmd *cobra.Command) (*config.Store, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return cfg, nil
}

// ConfigError は設定の読み込み・検証に失敗したことを示す
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "failed to load config: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// GetClient は設定から弾幕取得クライアントを作成する
func GetClient(cmd *cobra.Command) (*bilibili.Client, *config.Store, error) {
	cfg, err := GetConfigStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	client, err := bilibili.NewClientFromConfig(cfg)
	if err != nil {
		return nil, nil, &ConfigError{Err: err}
	}
	return client, cfg, nil
}

// GetRunner は設定から解析器一式を作成する
// 返り値の close は必ず呼ぶ
func GetRunner(cfg *config.Store) (*analysis.Runner, func(), error) {
	runner, closeFn, err := analysis.NewRunnerFromConfig(cfg)
	if err != nil {
		return nil, nil, &ConfigError{Err: err}
	}
	return runner, closeFn, nil
}

// ReadInput はファイルまたは標準入力（path が空か "-"）からテキストを読む
// maxBytes を超える入力はエラー
func ReadInput(path string, stdin io.Reader, maxBytes int64) (string, error) {
	var r io.Reader = stdin
	name := "stdin"
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", errors.Wrap(err, "open input")
		}
		defer f.Close()
		r = f
		name = path
	}

	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", name)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", errors.Errorf("%s exceeds %d bytes", name, maxBytes)
	}
	return string(data), nil
}

// SelectPasses は --analysis の値から解析パスを決める
// 未指定かつ対話端末なら複数選択プロンプトを出し、非対話なら全パス
func SelectPasses(values []string, allowed []analysis.Pass) ([]analysis.Pass, error) {
	if len(values) == 0 && ui.IsInteractive() {
		names := analysis.Strings(allowed)
		selected, err := ui.MultiSelect("Select analyses:", names, func(name string) string {
			return analysis.Pass(name).Describe()
		})
		if err != nil {
			return nil, err
		}
		values = selected
	}
	return analysis.ParsePasses(values, allowed)
}

// ConfirmOverwrite は既存ファイルを上書きしてよいか確認する
// 非対話環境では常に上書きする
func ConfirmOverwrite(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return true, nil
	}
	if !ui.IsInteractive() {
		return true, nil
	}
	return ui.Confirm("Overwrite "+path+"?", false)
}

// IsJSONOutput は出力形式が JSON かどうかを返す
func IsJSONOutput(cfg *config.Store) bool {
	return strings.EqualFold(cfg.Display().Output, "json")
}
