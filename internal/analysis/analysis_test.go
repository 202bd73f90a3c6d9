package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/yacchi/danmaku-cli/internal/danmaku"
	"github.com/yacchi/danmaku-cli/internal/frequency"
	"github.com/yacchi/danmaku-cli/internal/segment"
	"github.com/yacchi/danmaku-cli/internal/sentiment"
	"github.com/yacchi/danmaku-cli/internal/wordcloud"
)

func testRunnerOptions() Options {
	cloud := wordcloud.DefaultOptions()
	cloud.FontData = goregular.TTF
	cloud.Width, cloud.Height = 300, 150
	cloud.MaxFontSize = 40

	return Options{
		Segmenter:        segment.SimpleSegmenter{},
		DanmakuFrequency: frequency.DanmakuOptions(),
		Sentiment: sentiment.Corpus{
			Positive: []string{"great", "love it"},
			Negative: []string{"boring", "hate it"},
		},
		Thresholds:    sentiment.DefaultThresholds(),
		DanmakuCloud:  cloud,
		TextCloud:     cloud,
		HistogramBins: 4,
		SummaryLines:  5,
	}
}

var testCorpus = danmaku.Corpus{
	{Seconds: 1, Display: "00:01", Text: "great opening"},
	{Seconds: 5, Display: "00:05", Text: "great great"},
	{Seconds: 30, Display: "00:30", Text: "boring part"},
	{Seconds: 61, Display: "01:01", Text: "love it"},
}

func failedPasses(failures []Failure) []Pass {
	var passes []Pass
	for _, f := range failures {
		passes = append(passes, f.Pass)
	}
	return passes
}

func TestParsePasses(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		allowed []Pass
		want    []Pass
		wantErr bool
	}{
		{name: "empty selects all", in: nil, allowed: DanmakuPasses, want: DanmakuPasses},
		{name: "comma separated keeps canonical order", in: []string{"timeline,freq"}, allowed: DanmakuPasses, want: []Pass{PassFrequency, PassTimeline}},
		{name: "aliases", in: []string{"frequency", "histogram"}, allowed: DanmakuPasses, want: []Pass{PassFrequency, PassTimeline}},
		{name: "duplicates collapse", in: []string{"stats", "STATS"}, allowed: TextPasses, want: []Pass{PassStats}},
		{name: "not allowed for text", in: []string{"sentiment"}, allowed: TextPasses, wantErr: true},
		{name: "unknown", in: []string{"topics"}, allowed: DanmakuPasses, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePasses(tt.in, tt.allowed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePasses() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePasses() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunDanmakuAllPasses(t *testing.T) {
	r := NewRunner(testRunnerOptions())
	report := r.RunDanmaku(context.Background(), testCorpus, DanmakuPasses)

	if len(report.Failures) != 0 {
		t.Fatalf("Failures = %v", report.Failures)
	}
	if report.Comments != 4 {
		t.Errorf("Comments = %d, want 4", report.Comments)
	}
	if len(report.Frequency) == 0 || report.Frequency[0] != (frequency.Entry{Word: "great", Count: 3}) {
		t.Errorf("Frequency = %v, want great x3 first", report.Frequency)
	}
	if report.Sentiment == nil || report.Sentiment.Scored()+report.Sentiment.Skipped != 4 {
		t.Errorf("Sentiment = %+v, want 4 comments accounted", report.Sentiment)
	}
	if report.Sentiment != nil && report.Sentiment.Positive == 0 {
		t.Errorf("Sentiment = %+v, want positives", report.Sentiment)
	}
	if report.Wordcloud == nil || report.Wordcloud.Words == 0 || len(report.Wordcloud.PNG) == 0 {
		t.Errorf("Wordcloud = %+v, want rendered png", report.Wordcloud)
	}
	if report.Timeline == nil || len(report.Timeline.Bins) != 4 || report.Timeline.Total() != 4 {
		t.Errorf("Timeline = %+v, want 4 bins with 4 comments", report.Timeline)
	}
	// 要約行数以下の弾幕はそのまま返る
	if len(report.Summary) != 4 {
		t.Errorf("Summary = %q, want 4 lines", report.Summary)
	}
}

func TestRunDanmakuSelectedPassesOnly(t *testing.T) {
	r := NewRunner(testRunnerOptions())
	report := r.RunDanmaku(context.Background(), testCorpus, []Pass{PassTimeline})

	if report.Timeline == nil {
		t.Fatal("Timeline is nil")
	}
	if report.Frequency != nil || report.Sentiment != nil || report.Wordcloud != nil || report.Summary != nil {
		t.Errorf("unselected passes produced output: %+v", report)
	}
}

func TestRunDanmakuFailureIsolation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		want   []Pass
	}{
		{
			name: "missing font fails only wordcloud",
			modify: func(o *Options) {
				o.DanmakuCloud.FontData = nil
				o.DanmakuCloud.FontPath = "/nonexistent/font.ttf"
			},
			want: []Pass{PassWordcloud},
		},
		{
			name:   "empty sentiment corpus fails only sentiment",
			modify: func(o *Options) { o.Sentiment = sentiment.Corpus{} },
			want:   []Pass{PassSentiment},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testRunnerOptions()
			tt.modify(&opts)
			report := NewRunner(opts).RunDanmaku(context.Background(), testCorpus, DanmakuPasses)

			if got := failedPasses(report.Failures); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("failed passes = %v, want %v", got, tt.want)
			}
			if report.Frequency == nil || report.Timeline == nil || report.Summary == nil {
				t.Errorf("other passes did not run: %+v", report)
			}
		})
	}
}

func TestRunDanmakuEmptyCorpus(t *testing.T) {
	r := NewRunner(testRunnerOptions())
	report := r.RunDanmaku(context.Background(), nil, DanmakuPasses)

	if got := failedPasses(report.Failures); !reflect.DeepEqual(got, []Pass{PassWordcloud}) {
		t.Fatalf("failed passes = %v, want [wordcloud]", got)
	}
	var rerr *wordcloud.RenderError
	if !errors.As(report.Failures[0].Err, &rerr) {
		t.Errorf("wordcloud failure = %v, want *RenderError", report.Failures[0].Err)
	}
	if len(report.Frequency) != 0 {
		t.Errorf("Frequency = %v, want empty", report.Frequency)
	}
	if report.Sentiment == nil || *report.Sentiment != (sentiment.Buckets{}) {
		t.Errorf("Sentiment = %+v, want zero buckets", report.Sentiment)
	}
	if report.Timeline == nil || len(report.Timeline.Bins) != 4 || report.Timeline.Total() != 0 {
		t.Errorf("Timeline = %+v, want 4 empty bins", report.Timeline)
	}
}

func TestRunText(t *testing.T) {
	r := NewRunner(testRunnerOptions())
	text := "the cat and the dog. a cat again!"
	report := r.RunText(context.Background(), text, TextPasses)

	if len(report.Failures) != 0 {
		t.Fatalf("Failures = %v", report.Failures)
	}
	// 汎用テキストは除外語・1文字語を落とさない
	freq := report.Frequency.Map()
	if freq["the"] != 2 || freq["cat"] != 2 || freq["a"] != 1 {
		t.Errorf("Frequency = %v", report.Frequency)
	}
	if report.Stats == nil || report.Stats.Words != 8 {
		t.Errorf("Stats = %+v, want 8 words", report.Stats)
	}
	if report.Wordcloud == nil || len(report.Wordcloud.PNG) == 0 {
		t.Errorf("Wordcloud = %+v", report.Wordcloud)
	}
	if len(report.Summary) != 2 {
		t.Errorf("Summary = %q, want 2 sentences", report.Summary)
	}
}

func TestFailureJSON(t *testing.T) {
	data, err := json.Marshal(Failure{Pass: PassWordcloud, Err: errors.New(`font "x" missing`)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got["pass"] != "wordcloud" || !strings.Contains(got["error"], `font "x" missing`) {
		t.Errorf("json = %s", data)
	}
}
