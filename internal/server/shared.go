package server

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/yacchi/danmaku-cli/internal/danmaku"
)

// sharedSource は同じ動画ページへの同時取得を1回の上流アクセスにまとめる
type sharedSource struct {
	src   danmaku.Source
	group singleflight.Group
}

func newSharedSource(src danmaku.Source) *sharedSource {
	return &sharedSource{src: src}
}

// FetchComments は先行する取得があればその結果を待つ
// 待っている側の ctx が先に終わればその時点で ctx.Err() を返す
func (s *sharedSource) FetchComments(ctx context.Context, pageURL string) (string, error) {
	ch := s.group.DoChan(pageURL, func() (any, error) {
		return s.src.FetchComments(context.WithoutCancel(ctx), pageURL)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
