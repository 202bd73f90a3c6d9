package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/go-faster/errors"

	"github.com/yacchi/danmaku-cli/internal/analysis"
	"github.com/yacchi/danmaku-cli/internal/bilibili"
	"github.com/yacchi/danmaku-cli/internal/danmaku"
	"github.com/yacchi/danmaku-cli/internal/textclean"
)

// ErrorResponse はエラーレスポンス
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// DanmakuAnalyzeRequest は弾幕解析リクエスト
// XML が指定されていれば URL より優先する
type DanmakuAnalyzeRequest struct {
	URL      string   `json:"url,omitempty"`
	XML      string   `json:"xml,omitempty"`
	Analyses []string `json:"analyses,omitempty"`
}

// TextCleanRequest はテキスト整形リクエスト
// Rules が空なら全ルールを適用する
type TextCleanRequest struct {
	Text  string   `json:"text"`
	Rules []string `json:"rules,omitempty"`
}

// TextAnalyzeRequest はテキスト解析リクエスト
type TextAnalyzeRequest struct {
	Text     string   `json:"text"`
	Analyses []string `json:"analyses,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err, desc string) {
	writeJSON(w, status, ErrorResponse{Error: err, Description: desc})
}

// decodeJSON はボディを v に読み込み、失敗時はエラーレスポンスを書いて false を返す
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", "request body is too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return false
	}
	return true
}

// writeIngestError は取得段階のエラーをステータスコードに対応付ける
func writeIngestError(w http.ResponseWriter, err error) {
	var notFound *bilibili.IdentifierNotFoundError
	var netErr *bilibili.NetworkError
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, "identifier_not_found", err.Error())
	case isTimeout(err):
		// タイムアウトは NetworkError に包まれて届くので先に判定する
		writeError(w, http.StatusGatewayTimeout, "upstream_timeout", err.Error())
	case errors.As(err, &netErr):
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func (s *Server) ingest(ctx context.Context, pageURL, xml string) (*danmaku.IngestResult, error) {
	if xml != "" {
		return danmaku.IngestBody(ctx, xml, "request body"), nil
	}
	return danmaku.Ingest(ctx, s.source, pageURL)
}

func (s *Server) handleDanmakuAnalyze(w http.ResponseWriter, r *http.Request) {
	var req DanmakuAnalyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" && req.XML == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "url or xml is required")
		return
	}
	passes, err := analysis.ParsePasses(req.Analyses, analysis.DanmakuPasses)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	ingested, err := s.ingest(r.Context(), req.URL, req.XML)
	if err != nil {
		writeIngestError(w, err)
		return
	}

	report := s.runner.RunDanmaku(r.Context(), ingested.Corpus, passes)
	report.Warnings = ingested.WarningMessages()
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDanmakuWordcloud(w http.ResponseWriter, r *http.Request) {
	pageURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if pageURL == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "url is required")
		return
	}

	ingested, err := s.ingest(r.Context(), pageURL, "")
	if err != nil {
		writeIngestError(w, err)
		return
	}

	report := s.runner.RunDanmaku(r.Context(), ingested.Corpus, []analysis.Pass{analysis.PassWordcloud})
	if len(report.Failures) > 0 {
		writeError(w, http.StatusUnprocessableEntity, "render_failed", report.Failures[0].Err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report.Wordcloud.PNG)
}

func (s *Server) handleTextClean(w http.ResponseWriter, r *http.Request) {
	var req TextCleanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	opts := textclean.DefaultOptions()
	if len(req.Rules) > 0 {
		var err error
		if opts, err = textclean.ParseRules(req.Rules); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, textclean.Clean(req.Text, opts))
}

func (s *Server) handleTextAnalyze(w http.ResponseWriter, r *http.Request) {
	var req TextAnalyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}
	passes, err := analysis.ParsePasses(req.Analyses, analysis.TextPasses)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.runner.RunText(r.Context(), req.Text, passes))
}
