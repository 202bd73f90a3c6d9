package config

import (
	stderrors "errors"
	"time"

	"github.com/go-faster/errors"
)

// ResolvedConfig は全レイヤーをマージし、デフォルト適用後の設定
// jubakoのmaterializationはJSONを使用するため、jsonタグが必須
type ResolvedConfig struct {
	Fetch     ResolvedFetch     `json:"fetch"`
	Analysis  ResolvedAnalysis  `json:"analysis"`
	Sentiment ResolvedSentiment `json:"sentiment"`
	Wordcloud ResolvedWordcloud `json:"wordcloud"`
	Text      ResolvedText      `json:"text"`
	Display   ResolvedDisplay   `json:"display"`
	Cache     ResolvedCache     `json:"cache"`
	Server    ResolvedServer    `json:"server"`
}

// ResolvedFetch は弾幕取得時のHTTP設定
type ResolvedFetch struct {
	UserAgent       string `json:"user_agent" jubako:"/fetch/user_agent,env:FETCH_USER_AGENT"`
	Referer         string `json:"referer" jubako:"/fetch/referer,env:FETCH_REFERER"`
	CommentEndpoint string `json:"comment_endpoint" jubako:"/fetch/comment_endpoint,env:FETCH_COMMENT_ENDPOINT"`
	Timeout         int    `json:"timeout" jubako:"/fetch/timeout,env:FETCH_TIMEOUT"`
}

// TimeoutDuration はタイムアウトをtime.Durationで返す
func (f *ResolvedFetch) TimeoutDuration() time.Duration {
	return time.Duration(f.Timeout) * time.Second
}

// ResolvedAnalysis は分かち書きと頻度解析の設定
type ResolvedAnalysis struct {
	Segmenter      string   `json:"segmenter" jubako:"/analysis/segmenter,env:SEGMENTER"`
	DictDir        string   `json:"dict_dir" jubako:"/analysis/dict_dir,env:DICT_DIR"`
	UserDict       string   `json:"user_dict" jubako:"/analysis/user_dict,env:USER_DICT"`
	Stopwords      []string `json:"stopwords" jubako:"/analysis/stopwords"`
	MinTokenLength int      `json:"min_token_length" jubako:"/analysis/min_token_length,env:MIN_TOKEN_LENGTH"`
	DanmakuTopN    int      `json:"danmaku_top_n" jubako:"/analysis/danmaku_top_n,env:DANMAKU_TOP_N"`
	HistogramBins  int      `json:"histogram_bins" jubako:"/analysis/histogram_bins,env:HISTOGRAM_BINS"`
}

// ResolvedSentiment は感情分析の閾値設定
type ResolvedSentiment struct {
	PositiveThreshold float64 `json:"positive_threshold" jubako:"/sentiment/positive_threshold,env:SENTIMENT_POSITIVE_THRESHOLD"`
	NegativeThreshold float64 `json:"negative_threshold" jubako:"/sentiment/negative_threshold,env:SENTIMENT_NEGATIVE_THRESHOLD"`
	// 学習コーパスのディレクトリ (positive.txt / negative.txt)。空なら組み込みコーパス
	CorpusDir string `json:"corpus_dir" jubako:"/sentiment/corpus_dir,env:SENTIMENT_CORPUS_DIR"`
}

// ResolvedWordcloud はワードクラウド描画の設定
type ResolvedWordcloud struct {
	FontPath        string `json:"font_path" jubako:"/wordcloud/font_path,env:FONT_PATH"`
	Width           int    `json:"width" jubako:"/wordcloud/width,env:WORDCLOUD_WIDTH"`
	Height          int    `json:"height" jubako:"/wordcloud/height,env:WORDCLOUD_HEIGHT"`
	Background      string `json:"background" jubako:"/wordcloud/background,env:WORDCLOUD_BACKGROUND"`
	MaxFontSize     int    `json:"max_font_size" jubako:"/wordcloud/max_font_size"`
	MinFontSize     int    `json:"min_font_size" jubako:"/wordcloud/min_font_size"`
	Seed            int64  `json:"seed" jubako:"/wordcloud/seed,env:WORDCLOUD_SEED"`
	DanmakuMaxWords int    `json:"danmaku_max_words" jubako:"/wordcloud/danmaku_max_words"`
	TextMaxWords    int    `json:"text_max_words" jubako:"/wordcloud/text_max_words"`
	TextMaxFontSize int    `json:"text_max_font_size" jubako:"/wordcloud/text_max_font_size"`
}

// ResolvedText は汎用テキスト処理の設定
type ResolvedText struct {
	MaxBytes     int64 `json:"max_bytes" jubako:"/text/max_bytes,env:TEXT_MAX_BYTES"`
	SummaryLines int   `json:"summary_lines" jubako:"/text/summary_lines,env:SUMMARY_LINES"`
}

// ResolvedDisplay は表示設定
type ResolvedDisplay struct {
	Output string `json:"output" jubako:"/display/output,env:OUTPUT"`
	Color  string `json:"color" jubako:"/display/color,env:COLOR"`
}

// ResolvedCache はcid解決結果のキャッシュ設定
type ResolvedCache struct {
	Enabled bool   `json:"enabled" jubako:"/cache/enabled,env:CACHE_ENABLED"`
	Dir     string `json:"dir" jubako:"/cache/dir,env:CACHE_DIR"`
	TTL     int    `json:"ttl" jubako:"/cache/ttl,env:CACHE_TTL"`
}

// GetCacheDir returns the cache directory.
// If Dir is not specified, it returns the default cache directory.
func (c *ResolvedCache) GetCacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	return defaultCacheDir()
}

// TTLDuration はTTLをtime.Durationで返す
func (c *ResolvedCache) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// ResolvedServer はHTTP APIサーバーの設定
type ResolvedServer struct {
	Host             string `json:"host" jubako:"/server/host,env:SERVER_HOST"`
	Port             int    `json:"port" jubako:"/server/port,env:SERVER_PORT"`
	HTTPReadTimeout  int    `json:"http_read_timeout" jubako:"/server/http/read_timeout,env:HTTP_READ_TIMEOUT"`
	HTTPWriteTimeout int    `json:"http_write_timeout" jubako:"/server/http/write_timeout,env:HTTP_WRITE_TIMEOUT"`
	HTTPIdleTimeout  int    `json:"http_idle_timeout" jubako:"/server/http/idle_timeout,env:HTTP_IDLE_TIMEOUT"`

	// 許可するクライアントのCIDRまたはIP。空なら制限なし
	AllowedCIDRs []string `json:"allowed_cidrs" jubako:"/server/allowed_cidrs"`

	// 上流へのアクセスを伴うエンドポイントのレートリミット
	RateLimitEnabled           bool `json:"rate_limit_enabled" jubako:"/server/rate_limit/enabled,env:RATE_LIMIT_ENABLED"`
	RateLimitRequestsPerMinute int  `json:"rate_limit_requests_per_minute" jubako:"/server/rate_limit/requests_per_minute,env:RATE_LIMIT_RPM"`
	RateLimitBurst             int  `json:"rate_limit_burst" jubako:"/server/rate_limit/burst,env:RATE_LIMIT_BURST"`
}

// Validate は解決済み設定の値の範囲を確認する
func (c *ResolvedConfig) Validate() error {
	var errs []error
	s := c.Sentiment
	if s.NegativeThreshold < 0 || s.PositiveThreshold > 1 || s.NegativeThreshold > s.PositiveThreshold {
		errs = append(errs, errors.Errorf("sentiment thresholds must satisfy 0 <= negative (%v) <= positive (%v) <= 1",
			s.NegativeThreshold, s.PositiveThreshold))
	}
	if c.Analysis.HistogramBins < 1 {
		errs = append(errs, errors.Errorf("analysis.histogram_bins must be positive, got %d", c.Analysis.HistogramBins))
	}
	if c.Wordcloud.Width < 1 || c.Wordcloud.Height < 1 {
		errs = append(errs, errors.Errorf("wordcloud size must be positive, got %dx%d", c.Wordcloud.Width, c.Wordcloud.Height))
	}
	switch c.Display.Output {
	case "", "table", "json":
	default:
		errs = append(errs, errors.Errorf("display.output must be table or json, got %q", c.Display.Output))
	}
	return stderrors.Join(errs...)
}
