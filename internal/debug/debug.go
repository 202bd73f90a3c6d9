// Package debug は --debug 指定時だけ出力される診断ログを扱う
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// level は Enable/Disable で切り替える。既定では Debug を出さない
var level = func() *slog.LevelVar {
	v := new(slog.LevelVar)
	v.Set(slog.LevelInfo)
	return v
}()

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(NewLogger(os.Stderr, level))
}

// NewLogger は tint ハンドラーの slog.Logger を作る
// 出力先が端末でなければ色を付けない
func NewLogger(w io.Writer, lv slog.Leveler) *slog.Logger {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lv,
		TimeFormat: time.TimeOnly,
		NoColor:    !color,
	}))
}

func Enable() { level.Set(slog.LevelDebug) }
func Disable() { level.Set(slog.LevelInfo) }

// IsEnabled は Debug レベルが出力されるかを返す
func IsEnabled() bool {
	return level.Level() <= slog.LevelDebug
}

// SetOutput はログの出力先を差し替える
func SetOutput(w io.Writer) {
	logger.Store(NewLogger(w, level))
}

// Log は Debug レベルで出力する。無効時は何もしない
func Log(msg string, args ...any) {
	logger.Load().Debug(msg, args...)
}
