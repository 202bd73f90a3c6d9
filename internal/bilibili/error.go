package bilibili

import (
	"fmt"
	"io"
	"net/http"
)

// NetworkError は取得段階での通信エラー（トランスポート障害または非2xx応答）
// リトライは行わず、そのまま呼び出し元に返す
type NetworkError struct {
	URL        string
	StatusCode int // トランスポート障害の場合は 0
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed: status %d", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed", e.URL)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IdentifierNotFoundError はページ本文に "cid":<digits> が見つからなかったことを示す
// ページ構造の変更かURLの誤りが原因で、リトライしても解決しない
type IdentifierNotFoundError struct {
	URL string
}

func (e *IdentifierNotFoundError) Error() string {
	return fmt.Sprintf("content identifier (cid) not found in page %s", e.URL)
}

// CheckResponse はレスポンスをチェックし、2xx 以外なら NetworkError を返す
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	// 接続を再利用できるよう本文は読み捨てる
	_, _ = io.Copy(io.Discard, resp.Body)
	return &NetworkError{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
	}
}
