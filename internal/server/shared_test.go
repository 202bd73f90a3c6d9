package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type blockingSource struct {
	calls   atomic.Int32
	release chan struct{}
}

func (b *blockingSource) FetchComments(context.Context, string) (string, error) {
	b.calls.Add(1)
	<-b.release
	return "<i></i>", nil
}

func TestSharedSourceCollapsesConcurrentFetches(t *testing.T) {
	src := &blockingSource{release: make(chan struct{})}
	shared := newSharedSource(src)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := shared.FetchComments(context.Background(), "https://www.bilibili.com/video/BV1")
			if err != nil {
				t.Errorf("FetchComments() error = %v", err)
			}
			results[i] = body
		}()
	}

	// 全員が同じ呼び出しに合流するまで待つ
	deadline := time.Now().Add(2 * time.Second)
	for src.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	if got := src.calls.Load(); got < 1 || got > callers {
		t.Fatalf("upstream calls = %d", got)
	}
	for i, body := range results {
		if body != "<i></i>" {
			t.Errorf("caller %d body = %q", i, body)
		}
	}
}

func TestSharedSourceCallerCancel(t *testing.T) {
	src := &blockingSource{release: make(chan struct{})}
	defer close(src.release)
	shared := newSharedSource(src)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := shared.FetchComments(ctx, "u"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("FetchComments() error = %v, want deadline exceeded", err)
	}
}
