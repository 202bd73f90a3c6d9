// Package cache は有効期限つきの小さな値をディスクに置く
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
)

// Store は V 型の値を key ごとに保持する
type Store[V any] interface {
	// Get は期限内の値があれば (値, true) を返す
	Get(key string) (V, bool, error)
	Put(key string, value V) error
}

// File は1キー1ファイルの Store 実装
// ファイル名はキーの SHA-256。期限切れのファイルは読んだ時点で消す
type File[V any] struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

type entry[V any] struct {
	ExpiresAt time.Time `json:"expires_at"`
	Value     V         `json:"value"`
}

// NewFile は dir 配下に ttl の間だけ値を保持する File を作る
func NewFile[V any](dir string, ttl time.Duration) (*File[V], error) {
	if dir == "" {
		return nil, errors.New("cache dir is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create cache dir")
	}
	return &File[V]{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (c *File[V]) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

// Get は壊れたファイルを未登録として扱う
func (c *File[V]) Get(key string) (V, bool, error) {
	var zero V
	path := c.path(key)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, errors.Wrap(err, "read cache entry")
	}

	var e entry[V]
	if json.Unmarshal(data, &e) != nil {
		return zero, false, nil
	}
	if c.now().After(e.ExpiresAt) {
		_ = os.Remove(path)
		return zero, false, nil
	}
	return e.Value, true, nil
}

// Put は一時ファイルに書いてから置き換える
func (c *File[V]) Put(key string, value V) error {
	data, err := json.Marshal(entry[V]{ExpiresAt: c.now().Add(c.ttl), Value: value})
	if err != nil {
		return errors.Wrap(err, "encode cache entry")
	}

	tmp, err := os.CreateTemp(c.dir, ".entry-*")
	if err != nil {
		return errors.Wrap(err, "create cache entry")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write cache entry")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close cache entry")
	}
	return os.Rename(tmp.Name(), c.path(key))
}

// Clear はキャッシュディレクトリごと削除する
func (c *File[V]) Clear() error {
	return os.RemoveAll(c.dir)
}
