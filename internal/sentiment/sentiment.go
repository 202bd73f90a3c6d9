// Package sentiment は弾幕ごとの極性スコアを計算し、3分類で集計する
package sentiment

import (
	"bufio"
	"context"
	"embed"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jbrukh/bayesian"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/yacchi/danmaku-cli/internal/segment"
)

const (
	// Positive は肯定クラス
	Positive bayesian.Class = "positive"
	// Negative は否定クラス
	Negative bayesian.Class = "negative"
)

// Label は3分類の結果
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// ErrUnscorable は分かち書きの結果が空でスコアを付けられないことを示す
var ErrUnscorable = errors.New("no scorable tokens")

//go:embed data/*.txt
var corpusFS embed.FS

var skippedCounter metric.Int64Counter

func init() {
	c, err := otel.Meter("github.com/yacchi/danmaku-cli/internal/sentiment").Int64Counter(
		"danmaku.sentiment.skipped",
		metric.WithDescription("Number of texts that could not be scored"),
	)
	if err == nil {
		skippedCounter = c
	}
}

// Thresholds は3分類の境界
// score > Positive なら肯定、score < Negative なら否定、それ以外は中立
type Thresholds struct {
	Positive float64
	Negative float64
}

// DefaultThresholds は 0.6 / 0.4
func DefaultThresholds() Thresholds {
	return Thresholds{Positive: 0.6, Negative: 0.4}
}

// Classify はスコアを3分類する
func (t Thresholds) Classify(score float64) Label {
	switch {
	case score > t.Positive:
		return LabelPositive
	case score < t.Negative:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Corpus はラベル付きの学習文
type Corpus struct {
	Positive []string
	Negative []string
}

// DefaultCorpus は組み込みの弾幕コーパスを返す
func DefaultCorpus() Corpus {
	c, err := loadCorpus(corpusFS, "data")
	if err != nil {
		// 組み込みファイルが読めないのはビルドの問題
		panic(err)
	}
	return c
}

// LoadCorpus は dir 配下の positive.txt / negative.txt を1行1文として読む
func LoadCorpus(dir string) (Corpus, error) {
	return loadCorpus(os.DirFS(dir), ".")
}

func loadCorpus(fsys fs.FS, dir string) (Corpus, error) {
	pos, err := readLines(fsys, filepath.ToSlash(filepath.Join(dir, "positive.txt")))
	if err != nil {
		return Corpus{}, err
	}
	neg, err := readLines(fsys, filepath.ToSlash(filepath.Join(dir, "negative.txt")))
	if err != nil {
		return Corpus{}, err
	}
	return Corpus{Positive: pos, Negative: neg}, nil
}

func readLines(fsys fs.FS, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return lines, nil
}

// Outcome は1件ごとのスコア結果
// Skipped の場合 Score は意味を持たず、Err に理由が入る
type Outcome struct {
	Score   float64
	Skipped bool
	Err     error
}

// Scored は成功した結果を作る
func Scored(score float64) Outcome {
	return Outcome{Score: score}
}

// Skip はスキップした結果を作る
func Skip(err error) Outcome {
	return Outcome{Skipped: true, Err: err}
}

// Buckets は3分類の件数とスキップ件数
type Buckets struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
	Skipped  int `json:"skipped"`
}

// Scored はスコアを付けられた件数を返す
func (b Buckets) Scored() int {
	return b.Positive + b.Neutral + b.Negative
}

// Add は結果を1件集計する
func (b *Buckets) Add(o Outcome, t Thresholds) {
	if o.Skipped {
		b.Skipped++
		return
	}
	switch t.Classify(o.Score) {
	case LabelPositive:
		b.Positive++
	case LabelNegative:
		b.Negative++
	default:
		b.Neutral++
	}
}

// Analyzer は2クラスのナイーブベイズ分類器で肯定確率をスコアとする
// 生成後は読み取り専用
type Analyzer struct {
	seg        segment.Segmenter
	clf        *bayesian.Classifier
	thresholds Thresholds
}

// NewAnalyzer はコーパスで分類器を学習させて作成する
// どちらかのクラスが空の場合はエラー
func NewAnalyzer(seg segment.Segmenter, corpus Corpus, t Thresholds) (*Analyzer, error) {
	if len(corpus.Positive) == 0 || len(corpus.Negative) == 0 {
		return nil, errors.New("sentiment corpus needs both positive and negative examples")
	}
	if t.Negative > t.Positive {
		return nil, errors.Errorf("negative threshold %v exceeds positive threshold %v", t.Negative, t.Positive)
	}

	clf := bayesian.NewClassifier(Positive, Negative)
	for _, doc := range corpus.Positive {
		clf.Learn(seg.Cut(doc), Positive)
	}
	for _, doc := range corpus.Negative {
		clf.Learn(seg.Cut(doc), Negative)
	}

	return &Analyzer{seg: seg, clf: clf, thresholds: t}, nil
}

// Thresholds は分類の境界を返す
func (a *Analyzer) Thresholds() Thresholds {
	return a.thresholds
}

// Score は1件のテキストの肯定確率を [0,1] で返す
// 対数尤度で計算するため長文でもアンダーフローしない
func (a *Analyzer) Score(text string) Outcome {
	tokens := a.seg.Cut(strings.TrimSpace(text))
	if len(tokens) == 0 {
		return Skip(ErrUnscorable)
	}

	scores, _, _ := a.clf.LogScores(tokens)
	pos, neg := scores[0], scores[1]
	if math.IsInf(pos, -1) && math.IsInf(neg, -1) || math.IsNaN(pos) || math.IsNaN(neg) {
		return Skip(errors.Errorf("degenerate likelihoods for %q", text))
	}

	// P(pos) = 1 / (1 + exp(logNeg - logPos))
	p := 1 / (1 + math.Exp(neg-pos))
	if math.IsNaN(p) {
		return Skip(errors.Errorf("score is NaN for %q", text))
	}
	return Scored(p)
}

// Analyze は全件をスコアリングして3分類の件数を返す
// 個々の失敗は Skipped として数え、集計は中断しない
func (a *Analyzer) Analyze(ctx context.Context, texts []string) Buckets {
	var b Buckets
	for _, text := range texts {
		b.Add(a.Score(text), a.thresholds)
	}
	if skippedCounter != nil && b.Skipped > 0 {
		skippedCounter.Add(ctx, int64(b.Skipped))
	}
	return b
}
