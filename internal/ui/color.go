package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Messages は Success / Error / Warning / Info の出力先
// JSON出力と混ざらないよう標準エラー出力にしている
var Messages io.Writer = os.Stderr

var colorEnabled = detectColor()

// detectColor は NO_COLOR が未設定かつ標準出力が端末なら true を返す
func detectColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetColorEnabled は色の有効/無効を設定する
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// IsColorEnabled は色が有効かどうかを返す
func IsColorEnabled() bool {
	return colorEnabled
}

// IsInteractive は対話プロンプトを出してよいか（標準入出力がともに端末か）を返す
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// style は SGR パラメータ
type style string

const (
	styleBold   style = "1"
	styleRed    style = "31"
	styleGreen  style = "32"
	styleYellow style = "33"
	styleBlue   style = "34"
	styleCyan   style = "36"
	styleGray   style = "90"
)

func (st style) paint(s string) string {
	if !colorEnabled || s == "" {
		return s
	}
	return "\033[" + string(st) + "m" + s + "\033[0m"
}

func Bold(s string) string { return styleBold.paint(s) }
func Red(s string) string { return styleRed.paint(s) }
func Green(s string) string { return styleGreen.paint(s) }
func Cyan(s string) string { return styleCyan.paint(s) }
func Gray(s string) string { return styleGray.paint(s) }

// SentimentColor は感情ラベルを色付けする
func SentimentColor(label string) string {
	switch label {
	case "positive":
		return Green(label)
	case "negative":
		return Red(label)
	case "skipped":
		return Gray(label)
	}
	return label
}

func message(st style, mark, format string, args ...any) {
	fmt.Fprintf(Messages, "%s %s\n", st.paint(mark), fmt.Sprintf(format, args...))
}

// Success は成功メッセージを出力する
func Success(format string, args ...any) { message(styleGreen, "✓", format, args...) }

// Error はエラーメッセージを出力する
func Error(format string, args ...any) { message(styleRed, "✗", format, args...) }

// Warning は警告メッセージを出力する
func Warning(format string, args ...any) { message(styleYellow, "!", format, args...) }

// Info は情報メッセージを出力する
func Info(format string, args ...any) { message(styleBlue, "ℹ", format, args...) }
