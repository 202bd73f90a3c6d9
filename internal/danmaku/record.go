// Package danmaku は弾幕リストの解析・正規化と、取得から正規化までのパイプラインを提供する
package danmaku

import (
	"fmt"
	"math"
)

// RawComment はパーサーが抽出した正規化前の弾幕
type RawComment struct {
	Seconds float64
	Text    string
}

// Record は正規化済みの弾幕1件
// 生成後に変更しない
type Record struct {
	Seconds float64 `json:"time_seconds"`
	Display string  `json:"time"`
	Text    string  `json:"text"`
}

// Corpus は再生位置の昇順に並んだ弾幕列
// 同時刻の弾幕は抽出順を保つ
type Corpus []Record

// Texts は本文のみを順に返す
func (c Corpus) Texts() []string {
	texts := make([]string, len(c))
	for i, r := range c {
		texts[i] = r.Text
	}
	return texts
}

// Seconds は再生位置（秒）のみを順に返す
func (c Corpus) Seconds() []float64 {
	secs := make([]float64, len(c))
	for i, r := range c {
		secs[i] = r.Seconds
	}
	return secs
}

// Duration は最後の弾幕の再生位置を返す。空なら 0
func (c Corpus) Duration() float64 {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1].Seconds
}

// FormatClock は秒を MM:SS 形式にする
// 分は60で折り返さないため、100分以上は3桁になる
func FormatClock(seconds float64) string {
	minutes := int(math.Floor(seconds / 60))
	remaining := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%02d:%02d", minutes, remaining)
}
