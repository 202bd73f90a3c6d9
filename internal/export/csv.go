// Package export は解析結果をファイル形式（CSV / XLSX / PNG / HTML）に書き出す
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/yacchi/danmaku-cli/internal/danmaku"
	"github.com/yacchi/danmaku-cli/internal/frequency"
	"github.com/yacchi/danmaku-cli/internal/sentiment"
	"github.com/yacchi/danmaku-cli/internal/textclean"
)

// utf8BOM は表計算ソフトに UTF-8 と認識させるための BOM
const utf8BOM = "\uFEFF"

// CommentColumns は弾幕のCSV/XLSXの列名
var CommentColumns = []string{"time", "time_seconds", "text"}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return errors.Wrap(err, "write bom")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write header")
	}
	if err := cw.WriteAll(rows); err != nil {
		return errors.Wrap(err, "write rows")
	}
	return nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCommentsCSV は弾幕を BOM 付き UTF-8 の CSV で書き出す
func WriteCommentsCSV(w io.Writer, corpus danmaku.Corpus) error {
	rows := make([][]string, 0, len(corpus))
	for _, r := range corpus {
		rows = append(rows, []string{r.Display, formatSeconds(r.Seconds), r.Text})
	}
	return writeCSV(w, CommentColumns, rows)
}

// WriteFrequencyCSV は頻度表を書き出す
func WriteFrequencyCSV(w io.Writer, table frequency.Table) error {
	rows := make([][]string, 0, len(table))
	for _, e := range table {
		rows = append(rows, []string{e.Word, strconv.Itoa(e.Count)})
	}
	return writeCSV(w, []string{"word", "count"}, rows)
}

// WriteStatsCSV は文字数・語数を1行で書き出す
func WriteStatsCSV(w io.Writer, stats textclean.Stats) error {
	return writeCSV(w, []string{"characters", "words"}, [][]string{
		{strconv.Itoa(stats.Characters), strconv.Itoa(stats.Words)},
	})
}

// WriteSentimentCSV は感情分布を1行で書き出す
func WriteSentimentCSV(w io.Writer, b sentiment.Buckets) error {
	return writeCSV(w, []string{"positive", "neutral", "negative", "skipped"}, [][]string{
		{strconv.Itoa(b.Positive), strconv.Itoa(b.Neutral), strconv.Itoa(b.Negative), strconv.Itoa(b.Skipped)},
	})
}
