package bilibili

import (
	"net/http"
)

// HeaderTransport はブラウザ相当の User-Agent と Referer を付与する RoundTripper
// 呼び出し側で明示的に設定されたヘッダーは上書きしない
type HeaderTransport struct {
	Base      http.RoundTripper
	UserAgent string
	Referer   string
}

func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// RoundTripper はリクエストを変更してはならないため複製する
	req = req.Clone(req.Context())
	if t.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}
	if t.Referer != "" && req.Header.Get("Referer") == "" {
		req.Header.Set("Referer", t.Referer)
	}
	return base.RoundTrip(req)
}
