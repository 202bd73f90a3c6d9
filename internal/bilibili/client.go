package bilibili

import (
	"bufio"
	"compress/flate"
	"compress/zlib"
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yacchi/danmaku-cli/internal/cache"
	"github.com/yacchi/danmaku-cli/internal/config"
	"github.com/yacchi/danmaku-cli/internal/debug"
)

const (
	// DefaultUserAgent はブラウザを模した User-Agent
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// DefaultReferer は bilibili の弾幕APIが要求する Referer
	DefaultReferer = "https://www.bilibili.com"
	// DefaultCommentEndpoint は弾幕リスト取得エンドポイント
	DefaultCommentEndpoint = "https://api.bilibili.com/x/v1/dm/list.so"
)

var tracer = otel.Tracer("github.com/yacchi/danmaku-cli/internal/bilibili")

// cidPattern はページ本文中の content identifier を抽出する
var cidPattern = regexp.MustCompile(`"cid":(\d+)`)

// Client は bilibili の動画ページと弾幕APIのクライアント
// リトライは行わない。1回の失敗はそのまま呼び出し元に返る
type Client struct {
	httpClient      *http.Client
	commentEndpoint string

	cidCache cache.Store[string]
}

// ClientOption はクライアントオプション
type ClientOption func(*Client)

// WithHTTPClient は使用する http.Client を差し替える
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCommentEndpoint は弾幕リストのエンドポイントを差し替える
func WithCommentEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.commentEndpoint = endpoint
	}
}

// WithCIDCache はページURL → cid の解決結果をキャッシュする
func WithCIDCache(cc cache.Store[string]) ClientOption {
	return func(c *Client) {
		c.cidCache = cc
	}
}

// NewClient は新しいクライアントを作成する
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &HeaderTransport{
				UserAgent: DefaultUserAgent,
				Referer:   DefaultReferer,
			},
		},
		commentEndpoint: DefaultCommentEndpoint,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig は設定からクライアントを作成する
func NewClientFromConfig(cfg *config.Store) (*Client, error) {
	fetch := cfg.Fetch()

	opts := []ClientOption{
		WithHTTPClient(&http.Client{
			Timeout: fetch.TimeoutDuration(),
			Transport: &HeaderTransport{
				UserAgent: fetch.UserAgent,
				Referer:   fetch.Referer,
			},
		}),
	}
	if fetch.CommentEndpoint != "" {
		opts = append(opts, WithCommentEndpoint(fetch.CommentEndpoint))
	}

	if cc := cfg.Cache(); cc.Enabled {
		dir, err := cc.GetCacheDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolve cache dir")
		}
		fc, err := cache.NewFile[string](dir, cc.TTLDuration())
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithCIDCache(fc))
	}

	return NewClient(opts...), nil
}

// FetchComments は動画ページURLから cid を解決し、弾幕リストの本文を返す
func (c *Client) FetchComments(ctx context.Context, pageURL string) (string, error) {
	cid, err := c.ResolveCID(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return c.FetchCommentList(ctx, cid)
}

// ResolveCID は動画ページを取得し、最初に現れる "cid":<digits> を返す
func (c *Client) ResolveCID(ctx context.Context, pageURL string) (string, error) {
	cacheKey := "cid:" + pageURL
	if c.cidCache != nil {
		if cid, ok, err := c.cidCache.Get(cacheKey); err == nil && ok {
			debug.Log("cid cache hit", "url", pageURL, "cid", cid)
			return cid, nil
		}
	}

	ctx, span := tracer.Start(ctx, "bilibili.fetch_page", trace.WithAttributes(attribute.String("url", pageURL)))
	defer span.End()

	body, err := c.get(ctx, pageURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	cid, ok := ExtractCID(body)
	if !ok {
		err := &IdentifierNotFoundError{URL: pageURL}
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.String("cid", cid))
	debug.Log("resolved cid", "url", pageURL, "cid", cid)

	if c.cidCache != nil {
		if err := c.cidCache.Put(cacheKey, cid); err != nil {
			debug.Log("failed to cache cid", "error", err)
		}
	}
	return cid, nil
}

// FetchCommentList は cid に対応する弾幕リストの本文を返す
func (c *Client) FetchCommentList(ctx context.Context, cid string) (string, error) {
	endpoint, err := url.Parse(c.commentEndpoint)
	if err != nil {
		return "", errors.Wrapf(err, "parse comment endpoint %q", c.commentEndpoint)
	}
	q := endpoint.Query()
	q.Set("oid", cid)
	endpoint.RawQuery = q.Encode()

	ctx, span := tracer.Start(ctx, "bilibili.fetch_comments", trace.WithAttributes(attribute.String("cid", cid)))
	defer span.End()

	body, err := c.get(ctx, endpoint.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("body.bytes", len(body)))
	return body, nil
}

// ExtractCID は本文から最初の "cid":<digits> の数字部分を返す
func ExtractCID(body string) (string, bool) {
	m := cidPattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// get は GET を発行し、UTF-8 として解釈した本文を返す
func (c *Client) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &NetworkError{URL: rawURL, Err: err}
	}

	debug.Log("GET", "url", rawURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if err := CheckResponse(resp); err != nil {
		return "", err
	}

	r, err := decodeBody(resp)
	if err != nil {
		return "", &NetworkError{URL: rawURL, Err: errors.Wrap(err, "decode body")}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &NetworkError{URL: rawURL, Err: errors.Wrap(err, "read body")}
	}
	debug.Log("response", "url", rawURL, "status", resp.StatusCode, "bytes", len(data))

	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

// decodeBody は Content-Encoding: deflate の本文を展開する
// 弾幕APIは zlib ヘッダーなしの raw DEFLATE を返すが、zlib 形式にも対応する
// gzip は net/http が透過的に展開する
func decodeBody(resp *http.Response) (io.Reader, error) {
	if !strings.EqualFold(resp.Header.Get("Content-Encoding"), "deflate") {
		return resp.Body, nil
	}

	br := bufio.NewReader(resp.Body)
	head, err := br.Peek(2)
	if err != nil && len(head) < 2 {
		return br, nil
	}
	// zlib ヘッダー: CMF=0x?8 かつ (CMF*256+FLG) が 31 の倍数
	if head[0]&0x0f == 8 && (uint16(head[0])<<8|uint16(head[1]))%31 == 0 {
		return zlib.NewReader(br)
	}
	return flate.NewReader(br), nil
}
