// Package summary は LexRank-MMR による抽出型要約を行う
package summary

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/ramenjuniti/lexrankmmr"
)

// DefaultLines は既定の要約行数
const DefaultLines = 5

// maxCharacters は lexrankmmr に渡す文字数上限
const maxCharacters = 100000

// Summarize はテキストから lines 文を抽出する
// 空または空白のみのテキストは nil を返す
func Summarize(text string, lines int) ([]string, error) {
	return summarize(splitSentences(text), lines)
}

// SummarizeLines は弾幕本文など1行1文の列から lines 文を抽出する
// 同じ文は最初の1回だけ残す
func SummarizeLines(texts []string, lines int) ([]string, error) {
	seen := make(map[string]struct{}, len(texts))
	var sentences []string
	for _, text := range texts {
		for _, s := range splitSentences(text) {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			sentences = append(sentences, s)
		}
	}
	return summarize(sentences, lines)
}

func summarize(sentences []string, lines int) ([]string, error) {
	if len(sentences) == 0 {
		return nil, nil
	}
	if lines <= 0 {
		lines = DefaultLines
	}
	// 文数が要求以下なら順序を保ってそのまま返す
	if len(sentences) <= lines {
		return sentences, nil
	}

	data, err := lexrankmmr.New(
		lexrankmmr.MaxLines(lines),
		lexrankmmr.MaxCharacters(maxCharacters),
	)
	if err != nil {
		return nil, errors.Wrap(err, "init lexrankmmr")
	}

	// lexrankmmr は「。」で文を区切り、末尾の空要素を捨てる
	if err := data.Summarize(strings.Join(sentences, "。") + "。"); err != nil {
		return nil, errors.Wrap(err, "summarize")
	}

	out := make([]string, 0, len(data.LineLimitedSummary))
	for _, score := range data.LineLimitedSummary {
		if s := strings.TrimSpace(score.Sentence); s != "" {
			out = append(out, strings.TrimSuffix(s, "。"))
		}
	}
	return out, nil
}

var sentenceBreaks = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"。", "\n",
	"！", "\n",
	"？", "\n",
	"!", "\n",
	"?", "\n",
)

// splitSentences は改行と文末記号で文に分け、空の文を除く
// 空の文が残ると lexrankmmr がゼロベクトルでエラーになる
func splitSentences(text string) []string {
	var sentences []string
	for _, line := range strings.Split(sentenceBreaks.Replace(text), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			sentences = append(sentences, line)
		}
	}
	return sentences
}
