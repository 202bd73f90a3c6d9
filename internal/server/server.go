// Package server は弾幕・テキスト解析を HTTP API として提供する
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/yacchi/danmaku-cli/internal/analysis"
	"github.com/yacchi/danmaku-cli/internal/config"
	"github.com/yacchi/danmaku-cli/internal/danmaku"
)

// Options はサーバーの構成
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// MaxBodyBytes はリクエストボディの上限。0 なら無制限
	MaxBodyBytes int64
	AllowedCIDRs []string

	RateLimitEnabled           bool
	RateLimitRequestsPerMinute int
	RateLimitBurst             int
}

// Server は解析APIサーバー
type Server struct {
	opts          Options
	runner        *analysis.Runner
	source        danmaku.Source
	httpServer    *http.Server
	ipRestriction *IPRestriction
	rateLimiter   *RateLimiter
}

// NewServer は新しいサーバーを作成する
// source は動画URLからの取得に使う
func NewServer(opts Options, runner *analysis.Runner, source danmaku.Source) (*Server, error) {
	ipRestriction, err := NewIPRestriction(opts.AllowedCIDRs)
	if err != nil {
		return nil, errors.Wrap(err, "invalid IP restriction config")
	}

	s := &Server{
		opts:          opts,
		runner:        runner,
		source:        newSharedSource(source),
		ipRestriction: ipRestriction,
		rateLimiter:   NewRateLimiter(opts.RateLimitEnabled, opts.RateLimitRequestsPerMinute, opts.RateLimitBurst),
	}
	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}
	return s, nil
}

// OptionsFromConfig は設定からサーバーの構成を作る
func OptionsFromConfig(cfg *config.Store) Options {
	server := cfg.Server()
	return Options{
		Addr:                       fmt.Sprintf("%s:%d", server.Host, server.Port),
		ReadTimeout:                time.Duration(server.HTTPReadTimeout) * time.Second,
		WriteTimeout:               time.Duration(server.HTTPWriteTimeout) * time.Second,
		IdleTimeout:                time.Duration(server.HTTPIdleTimeout) * time.Second,
		MaxBodyBytes:               cfg.Text().MaxBytes,
		AllowedCIDRs:               server.AllowedCIDRs,
		RateLimitEnabled:           server.RateLimitEnabled,
		RateLimitRequestsPerMinute: server.RateLimitRequestsPerMinute,
		RateLimitBurst:             server.RateLimitBurst,
	}
}

// Handler はHTTPハンドラーを返す
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// 上流への取得が発生しうるエンドポイントだけレートリミットを掛ける
	mux.Handle("POST /v1/danmaku/analyze", s.rateLimiter.Middleware(http.HandlerFunc(s.handleDanmakuAnalyze)))
	mux.Handle("GET /v1/danmaku/wordcloud.png", s.rateLimiter.Middleware(http.HandlerFunc(s.handleDanmakuWordcloud)))

	mux.HandleFunc("POST /v1/text/clean", s.handleTextClean)
	mux.HandleFunc("POST /v1/text/analyze", s.handleTextAnalyze)

	return Chain(
		mux,
		RecoveryMiddleware,
		LoggingMiddleware,
		s.ipRestriction.Middleware,
		BodyLimitMiddleware(s.opts.MaxBodyBytes),
	)
}

// Start はサーバーを起動する
// Shutdown で停止した場合は nil を返す
func (s *Server) Start() error {
	// レートリミッタークリーンアップ
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.rateLimiter.Cleanup()
			case <-done:
				return
			}
		}
	}()

	slog.Info("starting danmaku server", "addr", s.opts.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown はサーバーを停止する
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleHealth はヘルスチェック
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
