// Package analysis は選択された解析パスを順に実行し、結果を1つのレポートにまとめる
// 1つのパスの失敗は他のパスに影響しない
package analysis

import (
	"slices"
	"strings"

	"github.com/go-faster/errors"
)

// Pass は解析パスの識別子
type Pass string

const (
	PassFrequency Pass = "freq"
	PassSentiment Pass = "sentiment"
	PassWordcloud Pass = "wordcloud"
	PassTimeline  Pass = "timeline"
	PassSummary   Pass = "summary"
	PassStats     Pass = "stats"
)

// DanmakuPasses は弾幕に対して選べるパス（実行順）
var DanmakuPasses = []Pass{PassFrequency, PassSentiment, PassWordcloud, PassTimeline, PassSummary}

// TextPasses は汎用テキストに対して選べるパス（実行順）
var TextPasses = []Pass{PassFrequency, PassStats, PassWordcloud, PassSummary}

var passAliases = map[string]Pass{
	"frequency":  PassFrequency,
	"histogram":  PassTimeline,
	"statistics": PassStats,
}

var passDescriptions = map[Pass]string{
	PassFrequency: "word frequency table",
	PassSentiment: "positive / neutral / negative counts",
	PassWordcloud: "word cloud PNG",
	PassTimeline:  "comment count over video time",
	PassSummary:   "representative sentences",
	PassStats:     "character and word counts",
}

// Describe はパスの短い説明を返す
func (p Pass) Describe() string {
	return passDescriptions[p]
}

// Strings はパス名の一覧を返す
func Strings(passes []Pass) []string {
	out := make([]string, len(passes))
	for i, p := range passes {
		out[i] = string(p)
	}
	return out
}

// ParsePasses は名前の列を allowed の順に並んだパス列にする
// カンマ区切りの要素も受け付ける。空なら allowed 全体
func ParsePasses(names []string, allowed []Pass) ([]Pass, error) {
	selected := make(map[Pass]bool)
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			p := Pass(part)
			if alias, ok := passAliases[part]; ok {
				p = alias
			}
			if !slices.Contains(allowed, p) {
				return nil, errors.Errorf("unknown analysis %q (available: %s)", part, strings.Join(Strings(allowed), ", "))
			}
			selected[p] = true
		}
	}
	if len(selected) == 0 {
		return slices.Clone(allowed), nil
	}

	passes := make([]Pass, 0, len(selected))
	for _, p := range allowed {
		if selected[p] {
			passes = append(passes, p)
		}
	}
	return passes, nil
}
