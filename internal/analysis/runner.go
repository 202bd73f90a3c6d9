package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/yacchi/danmaku-cli/internal/config"
	"github.com/yacchi/danmaku-cli/internal/danmaku"
	"github.com/yacchi/danmaku-cli/internal/debug"
	"github.com/yacchi/danmaku-cli/internal/frequency"
	"github.com/yacchi/danmaku-cli/internal/histogram"
	"github.com/yacchi/danmaku-cli/internal/segment"
	"github.com/yacchi/danmaku-cli/internal/sentiment"
	"github.com/yacchi/danmaku-cli/internal/summary"
	"github.com/yacchi/danmaku-cli/internal/textclean"
	"github.com/yacchi/danmaku-cli/internal/wordcloud"
)

const instrumentationName = "github.com/yacchi/danmaku-cli/internal/analysis"

var (
	tracer          = otel.Tracer(instrumentationName)
	failuresCounter metric.Int64Counter
)

func init() {
	c, err := otel.Meter(instrumentationName).Int64Counter(
		"danmaku.analysis.failures",
		metric.WithDescription("Number of analysis passes that failed"),
	)
	if err == nil {
		failuresCounter = c
	}
}

// Failure は失敗したパスとその理由
type Failure struct {
	Pass Pass  `json:"pass"`
	Err  error `json:"-"`
}

// MarshalJSON は Err をメッセージ文字列として出力する
func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Pass  Pass   `json:"pass"`
		Error string `json:"error"`
	}{Pass: f.Pass, Error: f.Err.Error()})
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %v", f.Pass, f.Err)
}

// Wordcloud はワードクラウドの描画結果
// JSON では PNG が base64 になる
type Wordcloud struct {
	Words int    `json:"words"`
	PNG   []byte `json:"png"`
}

// DanmakuReport は弾幕に対する解析結果
// 選択されなかったパスと失敗したパスのフィールドは空のまま
type DanmakuReport struct {
	Comments  int                  `json:"comments"`
	Warnings  []string             `json:"warnings,omitempty"`
	Frequency frequency.Table      `json:"frequency,omitempty"`
	Sentiment *sentiment.Buckets   `json:"sentiment,omitempty"`
	Wordcloud *Wordcloud           `json:"wordcloud,omitempty"`
	Timeline  *histogram.Histogram `json:"timeline,omitempty"`
	Summary   []string             `json:"summary,omitempty"`
	Failures  []Failure            `json:"failures,omitempty"`
}

// TextReport は汎用テキストに対する解析結果
type TextReport struct {
	Frequency frequency.Table  `json:"frequency,omitempty"`
	Stats     *textclean.Stats `json:"stats,omitempty"`
	Wordcloud *Wordcloud       `json:"wordcloud,omitempty"`
	Summary   []string         `json:"summary,omitempty"`
	Failures  []Failure        `json:"failures,omitempty"`
}

// Runner は解析器一式を束ね、パスを実行する
// 生成後は読み取り専用で、並行に呼び出せる
type Runner struct {
	seg              segment.Segmenter
	danmakuFrequency *frequency.Analyzer
	textFrequency    *frequency.Analyzer
	sentiment        *sentiment.Analyzer
	sentimentErr     error
	danmakuCloud     *wordcloud.Renderer
	textCloud        *wordcloud.Renderer
	histogramBins    int
	summaryLines     int
}

// Options は Runner の構成
type Options struct {
	Segmenter segment.Segmenter
	// DanmakuFrequency は弾幕の頻度集計条件（上位件数を含む）
	DanmakuFrequency frequency.Options
	Sentiment        sentiment.Corpus
	Thresholds       sentiment.Thresholds
	DanmakuCloud     wordcloud.Options
	TextCloud        wordcloud.Options
	HistogramBins    int
	SummaryLines     int
}

// NewRunner は解析器を構築する
// 感情分析器の構築に失敗した場合は sentiment パスだけが失敗する
func NewRunner(opts Options) *Runner {
	r := &Runner{
		seg:              opts.Segmenter,
		danmakuFrequency: frequency.NewAnalyzer(opts.Segmenter, opts.DanmakuFrequency),
		textFrequency:    frequency.NewAnalyzer(opts.Segmenter, frequency.Options{}),
		danmakuCloud:     wordcloud.NewRenderer(opts.DanmakuCloud),
		textCloud:        wordcloud.NewRenderer(opts.TextCloud),
		histogramBins:    opts.HistogramBins,
		summaryLines:     opts.SummaryLines,
	}
	r.sentiment, r.sentimentErr = sentiment.NewAnalyzer(opts.Segmenter, opts.Sentiment, opts.Thresholds)
	return r
}

// NewRunnerFromConfig は設定から Runner を構築する
// 返り値の close で分かち書き器を解放する
func NewRunnerFromConfig(cfg *config.Store) (*Runner, func(), error) {
	a := cfg.Analysis()
	seg, err := segment.New(a.Segmenter, segment.JiebaOptions{DictDir: a.DictDir, UserDict: a.UserDict})
	if err != nil {
		return nil, nil, errors.Wrap(err, "segmenter")
	}

	corpus := sentiment.DefaultCorpus()
	if dir := cfg.Sentiment().CorpusDir; dir != "" {
		if corpus, err = sentiment.LoadCorpus(dir); err != nil {
			segment.Close(seg)
			return nil, nil, errors.Wrap(err, "load sentiment corpus")
		}
	}

	wc := cfg.Wordcloud()
	base := wordcloud.Options{
		Width:       wc.Width,
		Height:      wc.Height,
		Background:  wc.Background,
		MaxFontSize: float64(wc.MaxFontSize),
		MinFontSize: float64(wc.MinFontSize),
		FontPath:    wc.FontPath,
		Seed:        wc.Seed,
	}
	danmakuCloud, textCloud := base, base
	danmakuCloud.MaxWords = wc.DanmakuMaxWords
	textCloud.MaxWords = wc.TextMaxWords
	textCloud.MaxFontSize = float64(wc.TextMaxFontSize)

	s := cfg.Sentiment()
	r := NewRunner(Options{
		Segmenter: seg,
		DanmakuFrequency: frequency.Options{
			Stopwords: a.Stopwords,
			MinLength: a.MinTokenLength,
			Limit:     a.DanmakuTopN,
		},
		Sentiment:     corpus,
		Thresholds:    sentiment.Thresholds{Positive: s.PositiveThreshold, Negative: s.NegativeThreshold},
		DanmakuCloud:  danmakuCloud,
		TextCloud:     textCloud,
		HistogramBins: a.HistogramBins,
		SummaryLines:  cfg.Text().SummaryLines,
	})
	return r, func() { segment.Close(seg) }, nil
}

// run は1パスをスパン内で実行し、エラーとパニックを Failure にする
func run(ctx context.Context, pass Pass, failures *[]Failure, fn func(ctx context.Context) error) {
	ctx, span := tracer.Start(ctx, "analysis."+string(pass), trace.WithAttributes(attribute.String("analysis.pass", string(pass))))
	defer span.End()

	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = errors.Errorf("panic: %v", rec)
			}
		}()
		return fn(ctx)
	}()
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if failuresCounter != nil {
		failuresCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("analysis.pass", string(pass))))
	}
	debug.Log("analysis pass failed", "pass", pass, "error", err)
	*failures = append(*failures, Failure{Pass: pass, Err: err})
}

func renderCloud(r *wordcloud.Renderer, table frequency.Table) (*Wordcloud, error) {
	var buf bytes.Buffer
	placements, err := r.RenderPNGWithLayout(&buf, table)
	if err != nil {
		return nil, err
	}
	return &Wordcloud{Words: len(placements), PNG: buf.Bytes()}, nil
}

// RunDanmaku は弾幕コーパスに passes を適用する
func (r *Runner) RunDanmaku(ctx context.Context, corpus danmaku.Corpus, passes []Pass) *DanmakuReport {
	report := &DanmakuReport{Comments: len(corpus)}
	texts := corpus.Texts()

	for _, pass := range passes {
		switch pass {
		case PassFrequency:
			run(ctx, pass, &report.Failures, func(context.Context) error {
				report.Frequency = r.danmakuFrequency.Analyze(texts)
				return nil
			})
		case PassSentiment:
			run(ctx, pass, &report.Failures, func(ctx context.Context) error {
				if r.sentimentErr != nil {
					return r.sentimentErr
				}
				b := r.sentiment.Analyze(ctx, texts)
				report.Sentiment = &b
				return nil
			})
		case PassWordcloud:
			run(ctx, pass, &report.Failures, func(context.Context) error {
				// 上位件数で切らず、フィルタ済みの全語から描画する
				cloud, err := renderCloud(r.danmakuCloud, frequency.Count(r.danmakuFrequency.Tokens(texts)))
				if err != nil {
					return err
				}
				report.Wordcloud = cloud
				return nil
			})
		case PassTimeline:
			run(ctx, pass, &report.Failures, func(context.Context) error {
				h := histogram.Compute(corpus.Seconds(), r.histogramBins)
				report.Timeline = &h
				return nil
			})
		case PassSummary:
			run(ctx, pass, &report.Failures, func(context.Context) error {
				lines, err := summary.SummarizeLines(texts, r.summaryLines)
				if err != nil {
					return err
				}
				report.Summary = lines
				return nil
			})
		default:
			report.Failures = append(report.Failures, Failure{Pass: pass, Err: errors.Errorf("analysis %q is not available for danmaku", pass)})
		}
	}
	return report
}

// RunText は汎用テキストに passes を適用する
// 頻度表は除外語・件数の制限なし
func (r *Runner) RunText(ctx context.Context, text string, passes []Pass) *TextReport {
	report := &TextReport{}
	texts := []string{text}

	for _, pass := range passes {
		switch pass {
		case PassFrequency:
			run(ctx, pass, &report.Failures, func(context.Context) error {
				report.Frequency = r.textFrequency.Analyze(texts)
				return nil
			})
		case PassStats:
			run(ctx, pass, &report.Failures, func(context.Context) error {
				s := textclean.Compute(text)
				report.Stats = &s
				return nil
			})
		case PassWordcloud:
			run(ctx, pass, &report.Failures, func(context.Context) error {
				cloud, err := renderCloud(r.textCloud, r.textFrequency.Analyze(texts))
				if err != nil {
					return err
				}
				report.Wordcloud = cloud
				return nil
			})
		case PassSummary:
			run(ctx, pass, &report.Failures, func(context.Context) error {
				lines, err := summary.Summarize(text, r.summaryLines)
				if err != nil {
					return err
				}
				report.Summary = lines
				return nil
			})
		default:
			report.Failures = append(report.Failures, Failure{Pass: pass, Err: errors.Errorf("analysis %q is not available for text", pass)})
		}
	}
	return report
}
