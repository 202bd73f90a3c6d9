package bilibili

import (
	"bytes"
	"compress/flate"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/yacchi/danmaku-cli/internal/cache"
)

const commentXML = `<?xml version="1.0" encoding="UTF-8"?><i><chatserver>chat.bilibili.com</chatserver>` +
	`<d p="1.5,1,25,16777215,1700000000,0,abc,1">你好世界</d></i>`

// newUpstream は動画ページと弾幕APIを模したテストサーバーを返す
func newUpstream(t *testing.T, page string, handler http.HandlerFunc) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var seen []*http.Request
	mux := http.NewServeMux()
	mux.HandleFunc("GET /video/", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r)
		_, _ = w.Write([]byte(page))
	})
	mux.HandleFunc("GET /x/v1/dm/list.so", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r)
		if handler != nil {
			handler(w, r)
			return
		}
		if got := r.URL.Query().Get("oid"); got != "123456" {
			t.Errorf("oid = %q, want %q", got, "123456")
		}
		_, _ = w.Write([]byte(commentXML))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &seen
}

func newTestClient(srv *httptest.Server, opts ...ClientOption) *Client {
	base := []ClientOption{
		WithHTTPClient(&http.Client{
			Timeout: 5 * time.Second,
			Transport: &HeaderTransport{
				UserAgent: DefaultUserAgent,
				Referer:   DefaultReferer,
			},
		}),
		WithCommentEndpoint(srv.URL + "/x/v1/dm/list.so"),
	}
	return NewClient(append(base, opts...)...)
}

func TestFetchComments(t *testing.T) {
	page := `<script>window.__INITIAL_STATE__={"aid":1,"cid":123456,"pages":[{"cid":999}]}</script>`
	srv, seen := newUpstream(t, page, nil)
	c := newTestClient(srv)

	body, err := c.FetchComments(context.Background(), srv.URL+"/video/BV1xx")
	if err != nil {
		t.Fatalf("FetchComments() error = %v", err)
	}
	if body != commentXML {
		t.Errorf("FetchComments() body = %q, want %q", body, commentXML)
	}

	if len(*seen) != 2 {
		t.Fatalf("upstream saw %d requests, want 2", len(*seen))
	}
	for _, r := range *seen {
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("%s User-Agent = %q, want browser UA", r.URL.Path, got)
		}
		if got := r.Header.Get("Referer"); got != "https://www.bilibili.com" {
			t.Errorf("%s Referer = %q, want %q", r.URL.Path, got, "https://www.bilibili.com")
		}
	}
}

func TestFetchCommentsIdentifierNotFound(t *testing.T) {
	srv, seen := newUpstream(t, `<html><body>no identifier here</body></html>`, nil)
	c := newTestClient(srv)

	_, err := c.FetchComments(context.Background(), srv.URL+"/video/BV1xx")
	var notFound *IdentifierNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("FetchComments() error = %v, want IdentifierNotFoundError", err)
	}
	if len(*seen) != 1 {
		t.Errorf("upstream saw %d requests, want 1 (no retry, no comment request)", len(*seen))
	}
}

func TestFetchCommentsNon2xx(t *testing.T) {
	srv, seen := newUpstream(t, `{"cid":123456}`, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPreconditionFailed)
	})
	c := newTestClient(srv)

	_, err := c.FetchComments(context.Background(), srv.URL+"/video/BV1xx")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("FetchComments() error = %v, want NetworkError", err)
	}
	if netErr.StatusCode != http.StatusPreconditionFailed {
		t.Errorf("StatusCode = %d, want %d", netErr.StatusCode, http.StatusPreconditionFailed)
	}
	if len(*seen) != 2 {
		t.Errorf("upstream saw %d requests, want 2 (no retry)", len(*seen))
	}
}

func TestFetchCommentsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	pageURL := srv.URL + "/video/BV1xx"
	srv.Close()

	c := NewClient(WithHTTPClient(&http.Client{Timeout: time.Second}))
	_, err := c.FetchComments(context.Background(), pageURL)

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("FetchComments() error = %v, want NetworkError", err)
	}
	if netErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for transport failure", netErr.StatusCode)
	}
}

func TestFetchCommentsDeflate(t *testing.T) {
	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, flate.BestCompression)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte(commentXML))
	_ = fw.Close()

	srv, _ := newUpstream(t, `"cid":123456`, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "deflate")
		_, _ = w.Write(compressed.Bytes())
	})
	c := newTestClient(srv)

	body, err := c.FetchComments(context.Background(), srv.URL+"/video/BV1xx")
	if err != nil {
		t.Fatalf("FetchComments() error = %v", err)
	}
	if body != commentXML {
		t.Errorf("FetchComments() body = %q, want inflated XML", body)
	}
}

func TestResolveCIDCache(t *testing.T) {
	srv, seen := newUpstream(t, `"cid":123456`, nil)
	fc, err := cache.NewFile[string](filepath.Join(t.TempDir(), "cache"), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	c := newTestClient(srv, WithCIDCache(fc))

	for i := 0; i < 2; i++ {
		cid, err := c.ResolveCID(context.Background(), srv.URL+"/video/BV1xx")
		if err != nil {
			t.Fatalf("ResolveCID() error = %v", err)
		}
		if cid != "123456" {
			t.Errorf("ResolveCID() = %q, want %q", cid, "123456")
		}
	}
	if len(*seen) != 1 {
		t.Errorf("upstream saw %d page requests, want 1 (second served from cache)", len(*seen))
	}
}

func TestExtractCID(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"first match wins", `{"cid":42,"x":{"cid":7}}`, "42", true},
		{"no digits", `{"cid":"abc"}`, "", false},
		{"spaced key not matched", `{"cid": 42}`, "", false},
		{"empty", ``, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractCID(tt.body)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ExtractCID(%q) = (%q, %v), want (%q, %v)", tt.body, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
