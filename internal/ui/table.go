package ui

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

const columnGap = "  "

// Table は表示幅で桁を揃えて出力する表
// 中国語の弾幕本文が混ざるため、全角文字は幅2として数える
type Table struct {
	headers []string
	rows    [][]string
	right   map[int]bool
}

// NewTable は見出しを指定して表を作る
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, right: map[int]bool{}}
}

// AlignRight は指定した列を右寄せにする
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

// AddRow は行を追加する。列数が足りない分は空欄になる
func (t *Table) AddRow(values ...string) {
	t.rows = append(t.rows, values)
}

// Render は見出しと行を w に書く
func (t *Table) Render(w io.Writer) {
	widths := t.columnWidths()
	var b strings.Builder

	writeLine := func(cells []string, paint func(string) string) {
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i > 0 {
				b.WriteString(columnGap)
			}
			pad := strings.Repeat(" ", max(widths[i]-displayWidth(cell), 0))
			switch {
			case t.right[i]:
				b.WriteString(pad + paint(cell))
			case i == len(widths)-1:
				b.WriteString(paint(cell))
			default:
				b.WriteString(paint(cell) + pad)
			}
		}
		b.WriteByte('\n')
	}

	writeLine(t.headers, Bold)
	for _, row := range t.rows {
		writeLine(row, func(s string) string { return s })
	}
	_, _ = io.WriteString(w, b.String())
}

func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], displayWidth(row[i]))
		}
	}
	return widths
}

var sgrPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// displayWidth は SGR シーケンスを除いた端末上の表示幅を返す
func displayWidth(s string) int {
	n := 0
	for _, r := range sgrPattern.ReplaceAllString(s, "") {
		n += runeWidth(r)
	}
	return n
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// Truncate は表示幅が limit を超える文字列を末尾 … で切り詰める
func Truncate(s string, limit int) string {
	if limit <= 0 || displayWidth(s) <= limit {
		return s
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		rw := runeWidth(r)
		if n+rw > limit-1 {
			break
		}
		b.WriteRune(r)
		n += rw
	}
	return b.String() + "…"
}
