package sentiment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yacchi/danmaku-cli/internal/segment"
)

type fieldSegmenter struct{}

func (fieldSegmenter) Cut(text string) []string { return strings.Fields(text) }

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	corpus := Corpus{
		Positive: []string{"好看 喜欢", "喜欢 精彩", "精彩 好看 感动"},
		Negative: []string{"难看 无聊", "无聊 垃圾", "垃圾 难看 失望"},
	}
	a, err := NewAnalyzer(fieldSegmenter{}, corpus, DefaultThresholds())
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	return a
}

func TestThresholdsClassify(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		score float64
		want  Label
	}{
		{0.0, LabelNegative},
		{0.39, LabelNegative},
		{0.4, LabelNeutral},
		{0.5, LabelNeutral},
		{0.6, LabelNeutral},
		{0.61, LabelPositive},
		{1.0, LabelPositive},
	}
	for _, tt := range tests {
		if got := th.Classify(tt.score); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestScore(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name string
		text string
		want Label
	}{
		{"positive words", "好看 喜欢 精彩", LabelPositive},
		{"negative words", "垃圾 无聊 难看", LabelNegative},
		{"unknown words fall back to priors", "路过 打卡", LabelNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := a.Score(tt.text)
			if o.Skipped {
				t.Fatalf("Score(%q) skipped: %v", tt.text, o.Err)
			}
			if o.Score < 0 || o.Score > 1 {
				t.Errorf("Score(%q) = %v, out of [0,1]", tt.text, o.Score)
			}
			if got := a.Thresholds().Classify(o.Score); got != tt.want {
				t.Errorf("Score(%q) = %v (%v), want %v", tt.text, o.Score, got, tt.want)
			}
		})
	}
}

func TestScoreSkipsEmptyText(t *testing.T) {
	a := newTestAnalyzer(t)
	for _, text := range []string{"", "   ", "\n\t"} {
		o := a.Score(text)
		if !o.Skipped {
			t.Errorf("Score(%q) not skipped", text)
		}
		if !errors.Is(o.Err, ErrUnscorable) {
			t.Errorf("Score(%q).Err = %v, want ErrUnscorable", text, o.Err)
		}
	}
}

func TestAnalyzeBucketsSumToScored(t *testing.T) {
	a := newTestAnalyzer(t)
	texts := []string{"好看 喜欢", "垃圾", "", "路过", "精彩 感动", "  ", "失望 无聊"}

	b := a.Analyze(context.Background(), texts)
	if b.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", b.Skipped)
	}
	if b.Scored() != len(texts)-b.Skipped {
		t.Errorf("Scored() = %d, want %d", b.Scored(), len(texts)-b.Skipped)
	}
	if b.Positive != 2 || b.Negative != 2 || b.Neutral != 1 {
		t.Errorf("Buckets = %+v, want {Positive:2 Neutral:1 Negative:2}", b)
	}
}

func TestNewAnalyzerValidation(t *testing.T) {
	if _, err := NewAnalyzer(fieldSegmenter{}, Corpus{Positive: []string{"好"}}, DefaultThresholds()); err == nil {
		t.Error("NewAnalyzer() with empty negative class: error = nil")
	}
	bad := Thresholds{Positive: 0.3, Negative: 0.7}
	if _, err := NewAnalyzer(fieldSegmenter{}, Corpus{Positive: []string{"a"}, Negative: []string{"b"}}, bad); err == nil {
		t.Error("NewAnalyzer() with inverted thresholds: error = nil")
	}
}

func TestDefaultCorpus(t *testing.T) {
	c := DefaultCorpus()
	if len(c.Positive) < 50 || len(c.Negative) < 50 {
		t.Errorf("DefaultCorpus() sizes = (%d, %d), want >= 50 each", len(c.Positive), len(c.Negative))
	}

	a, err := NewAnalyzer(segment.SimpleSegmenter{}, c, DefaultThresholds())
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	if o := a.Score("太好看了 好喜欢"); o.Skipped || o.Score <= 0.6 {
		t.Errorf("Score(positive) = %+v, want > 0.6", o)
	}
	if o := a.Score("垃圾 太恶心了"); o.Skipped || o.Score >= 0.4 {
		t.Errorf("Score(negative) = %+v, want < 0.4", o)
	}
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "positive.txt"), []byte("好看\n\n喜欢\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "negative.txt"), []byte("难看\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCorpus(dir)
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}
	if len(c.Positive) != 2 || len(c.Negative) != 1 {
		t.Errorf("LoadCorpus() = %+v", c)
	}

	if _, err := LoadCorpus(t.TempDir()); err == nil {
		t.Error("LoadCorpus(empty dir) error = nil")
	}
}
