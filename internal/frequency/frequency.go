// Package frequency は分かち書き結果から語の出現頻度表を作る
package frequency

import (
	"sort"
	"unicode/utf8"

	"github.com/yacchi/danmaku-cli/internal/segment"
)

// DefaultStopwords は弾幕の頻度集計で除外する機能語
var DefaultStopwords = []string{"的", "了", "是", "啊", "吧", "吗", "在", "和", "就", "都", "这", "有", "我", "你", "他"}

// Entry は頻度表の1行
type Entry struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Table は出現回数の降順に並んだ頻度表
// 同数の語は最初に現れた順を保つ
type Table []Entry

// Map は語→回数の対応を返す
func (t Table) Map() map[string]int {
	m := make(map[string]int, len(t))
	for _, e := range t {
		m[e.Word] = e.Count
	}
	return m
}

// Top は先頭 n 件を返す。n <= 0 なら全件
func (t Table) Top(n int) Table {
	if n <= 0 || n >= len(t) {
		return t
	}
	return t[:n]
}

// Total は全出現回数の合計を返す
func (t Table) Total() int {
	total := 0
	for _, e := range t {
		total += e.Count
	}
	return total
}

// Options は集計時のフィルタと件数
type Options struct {
	// Stopwords に含まれる語は除外する
	Stopwords []string
	// MinLength 未満（コードポイント数）の語は除外する。0 なら除外しない
	MinLength int
	// Limit は出力件数の上限。0 なら無制限
	Limit int
}

// DanmakuOptions は弾幕向けの既定値（機能語除外、1文字語除外、上位20件）
func DanmakuOptions() Options {
	return Options{
		Stopwords: DefaultStopwords,
		MinLength: 2,
		Limit:     20,
	}
}

// Analyzer は分かち書き器とフィルタ設定を束ねた頻度集計器
// 生成後は読み取り専用で、複数の呼び出しから共有できる
type Analyzer struct {
	seg       segment.Segmenter
	stopwords map[string]struct{}
	minLength int
	limit     int
}

// NewAnalyzer は頻度集計器を作成する
func NewAnalyzer(seg segment.Segmenter, opts Options) *Analyzer {
	stop := make(map[string]struct{}, len(opts.Stopwords))
	for _, w := range opts.Stopwords {
		stop[w] = struct{}{}
	}
	return &Analyzer{
		seg:       seg,
		stopwords: stop,
		minLength: opts.MinLength,
		limit:     opts.Limit,
	}
}

// Tokens は全テキストを分かち書きし、フィルタを通過した語を出現順に返す
func (a *Analyzer) Tokens(texts []string) []string {
	var tokens []string
	for _, text := range texts {
		for _, tok := range a.seg.Cut(text) {
			if a.keep(tok) {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}

// Analyze は頻度表を作り、Limit 件に切り詰めて返す
func (a *Analyzer) Analyze(texts []string) Table {
	return Count(a.Tokens(texts)).Top(a.limit)
}

func (a *Analyzer) keep(tok string) bool {
	if _, stop := a.stopwords[tok]; stop {
		return false
	}
	if a.minLength > 0 && utf8.RuneCountInString(tok) < a.minLength {
		return false
	}
	return true
}

// Count は語の列から頻度表を作る
// 回数の降順、同数は最初に現れた順
func Count(tokens []string) Table {
	index := make(map[string]int)
	table := Table{}
	for _, tok := range tokens {
		if i, ok := index[tok]; ok {
			table[i].Count++
			continue
		}
		index[tok] = len(table)
		table = append(table, Entry{Word: tok, Count: 1})
	}
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Count > table[j].Count
	})
	return table
}
