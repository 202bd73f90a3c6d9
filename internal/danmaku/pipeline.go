package danmaku

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/yacchi/danmaku-cli/internal/debug"
)

var parsedCounter metric.Int64Counter

func init() {
	c, err := otel.Meter("github.com/yacchi/danmaku-cli/internal/danmaku").Int64Counter(
		"danmaku.comments.parsed",
		metric.WithDescription("Number of comments extracted from comment-list payloads"),
	)
	if err == nil {
		parsedCounter = c
	}
}

// Source は動画ページURLから弾幕リスト本文を取得する
// *bilibili.Client が実装する
type Source interface {
	FetchComments(ctx context.Context, pageURL string) (string, error)
}

// EmptyResultWarning は弾幕が1件も抽出できなかったことを示す警告
// エラーではなく、パイプラインは空のコーパスで続行する
type EmptyResultWarning struct {
	Source string
}

func (w EmptyResultWarning) String() string {
	if w.Source == "" {
		return "no danmaku found"
	}
	return fmt.Sprintf("no danmaku found in %s", w.Source)
}

// IngestResult は取得から正規化までの結果
type IngestResult struct {
	Corpus   Corpus               `json:"comments"`
	Warnings []EmptyResultWarning `json:"-"`
}

// WarningMessages は警告を表示用の文字列にする
func (r *IngestResult) WarningMessages() []string {
	msgs := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		msgs = append(msgs, w.String())
	}
	return msgs
}

// Ingest は動画ページURLから弾幕を取得し、解析・正規化したコーパスを返す
// 取得段階のエラー（NetworkError / IdentifierNotFoundError）はそのまま返る
func Ingest(ctx context.Context, src Source, pageURL string) (*IngestResult, error) {
	body, err := src.FetchComments(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return IngestBody(ctx, body, pageURL), nil
}

// IngestBody は取得済みの弾幕リスト本文を解析・正規化する
// sourceName は警告メッセージに使う
func IngestBody(ctx context.Context, body, sourceName string) *IngestResult {
	raw := Parse(body)
	if parsedCounter != nil {
		parsedCounter.Add(ctx, int64(len(raw)))
	}
	debug.Log("parsed danmaku", "source", sourceName, "count", len(raw))

	result := &IngestResult{Corpus: Normalize(raw)}
	if len(raw) == 0 {
		result.Warnings = append(result.Warnings, EmptyResultWarning{Source: sourceName})
	}
	return result
}
