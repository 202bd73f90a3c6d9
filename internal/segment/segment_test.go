package segment

import (
	"reflect"
	"slices"
	"testing"
)

func TestSimpleSegmenter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"han runes split", "好好看", []string{"好", "好", "看"}},
		{"mixed scripts", "up主yyds 666！", []string{"up", "主", "yyds", "666"}},
		{"punctuation and spaces dropped", "  哈哈, ok?  ", []string{"哈", "哈", "ok"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimpleSegmenter{}.Cut(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Cut(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	s, err := New("simple", JiebaOptions{})
	if err != nil {
		t.Fatalf("New(simple) error = %v", err)
	}
	if _, ok := s.(SimpleSegmenter); !ok {
		t.Errorf("New(simple) = %T, want SimpleSegmenter", s)
	}

	if _, err := New("mecab", JiebaOptions{}); err == nil {
		t.Error("New(mecab) error = nil, want error")
	}
}

func TestJiebaSegmenter(t *testing.T) {
	s := NewJieba(JiebaOptions{})
	defer s.Close()

	got := s.Cut("我来到北京清华大学")
	if !slices.Contains(got, "清华大学") {
		t.Errorf("Cut() = %q, want to contain %q", got, "清华大学")
	}

	// 重ね字は辞書にある「好好」だけが複数文字の語として残る
	if got, want := s.Cut("的的的好好好"), []string{"的", "的", "的", "好", "好好"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Cut(%q) = %q, want %q", "的的的好好好", got, want)
	}

	for _, tok := range s.Cut("hello world  你好") {
		if tok == " " || tok == "  " {
			t.Errorf("Cut() returned blank token %q", tok)
		}
	}
}

func TestJiebaSegmenterAfterClose(t *testing.T) {
	s := NewJieba(JiebaOptions{})
	s.Close()
	s.Close() // 二重解放しない

	got := s.Cut("好看")
	want := []string{"好", "看"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Cut() after Close = %q, want %q", got, want)
	}
}
