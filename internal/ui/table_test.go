package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"abc", 3},
		{"弹幕", 4},
		{"00:01", 5},
		{"ｈｉ", 4},
		{"\x1b[1mbold\x1b[0m", 4},
		{"", 0},
	}
	for _, tt := range tests {
		if got := displayWidth(tt.in); got != tt.want {
			t.Errorf("displayWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTableRenderAlignsWideRunes(t *testing.T) {
	tbl := NewTable("WORD", "COUNT")
	tbl.AddRow("弹幕", "3")
	tbl.AddRow("ok", "12")

	var buf bytes.Buffer
	tbl.Render(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), buf.String())
	}
	// 2列目の開始位置（表示幅）がすべての行で一致する
	want := displayWidth("WORD") + 2
	for _, line := range lines[1:] {
		idx := strings.LastIndex(line, "  ")
		if got := displayWidth(line[:idx+2]); got != want {
			t.Errorf("column offset of %q = %d, want %d", line, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 6, "hello…"},
		{"弹幕弹幕弹幕", 5, "弹幕…"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestTableAlignRight(t *testing.T) {
	old := colorEnabled
	t.Cleanup(func() { colorEnabled = old })
	SetColorEnabled(false)

	tbl := NewTable("LABEL", "COUNT", "SHARE").AlignRight(1, 2)
	tbl.AddRow("positive", "7", "70.0%")
	tbl.AddRow("neutral", "12")

	var buf bytes.Buffer
	tbl.Render(&buf)

	want := "LABEL     COUNT  SHARE\n" +
		"positive      7  70.0%\n" +
		"neutral      12       \n"
	if got := buf.String(); got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}
