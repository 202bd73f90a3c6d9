package config

import (
	"context"
	"strings"
	"sync"

	"github.com/yacchi/jubako"
	"github.com/yacchi/jubako/format/yaml"
	"github.com/yacchi/jubako/layer"
	"github.com/yacchi/jubako/layer/env"
	"github.com/yacchi/jubako/layer/mapdata"
	"github.com/yacchi/jubako/source/bytes"
	"github.com/yacchi/jubako/source/fs"
)

// Store は設定のレイヤー管理を行うjubakoベースの実装
type Store struct {
	mu sync.RWMutex

	store *jubako.Store[ResolvedConfig]

	// プロジェクト設定ファイルのパス
	projectConfigPath string
}

// newConfigStore は defaults → user → project → env → args の順に
// レイヤーを積んだ Store を作る。存在しない設定ファイルは空として扱う
func newConfigStore() (*Store, error) {
	userConfigPath, err := configPath()
	if err != nil {
		return nil, err
	}
	projectConfigPath, _ := findProjectConfigPath()
	if projectConfigPath == "" {
		projectConfigPath = ProjectConfigFiles[0]
	}

	store := jubako.New[ResolvedConfig]()
	adds := []func() error{
		func() error {
			return store.Add(layer.New(LayerDefaults, bytes.FromString(string(defaultConfigYAML)), yaml.New()),
				jubako.WithReadOnly(), jubako.WithNoWatch())
		},
		func() error {
			return store.Add(layer.New(LayerUser, fs.New(userConfigPath), yaml.New()), jubako.WithOptional())
		},
		func() error {
			return store.Add(layer.New(LayerProject, fs.New(projectConfigPath), yaml.New()), jubako.WithOptional())
		},
		func() error {
			return store.Add(env.NewWithAutoSchema(LayerEnv, EnvPrefix), jubako.WithReadOnly())
		},
		// 値は SetFlagsLayer / SetToLayer で後から積む
		func() error { return store.Add(mapdata.New(LayerArgs, nil)) },
	}
	for _, add := range adds {
		if err := add(); err != nil {
			return nil, err
		}
	}

	return &Store{
		store:             store,
		projectConfigPath: projectConfigPath,
	}, nil
}

// LoadAll は全レイヤーを読み込む
func (s *Store) LoadAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx)
}

// SetFlagsLayer はコマンドラインフラグからのオーバーライドを設定する
func (s *Store) SetFlagsLayer(options []jubako.SetOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Set(LayerArgs, options...)
}

// Reload は設定を再読み込みする
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Reload(ctx)
}

// Resolved は解決済み設定を返す
func (s *Store) Resolved() *ResolvedConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resolved := s.store.Get()
	return &resolved
}

// Fetch は取得設定を返す
func (s *Store) Fetch() *ResolvedFetch {
	return &s.Resolved().Fetch
}

// Analysis は解析設定を返す
func (s *Store) Analysis() *ResolvedAnalysis {
	return &s.Resolved().Analysis
}

// Sentiment は感情分析設定を返す
func (s *Store) Sentiment() *ResolvedSentiment {
	return &s.Resolved().Sentiment
}

// Wordcloud はワードクラウド設定を返す
func (s *Store) Wordcloud() *ResolvedWordcloud {
	return &s.Resolved().Wordcloud
}

// Text は汎用テキスト処理設定を返す
func (s *Store) Text() *ResolvedText {
	return &s.Resolved().Text
}

// Display は表示設定を返す
func (s *Store) Display() *ResolvedDisplay {
	return &s.Resolved().Display
}

// Cache はキャッシュ設定を返す
func (s *Store) Cache() *ResolvedCache {
	return &s.Resolved().Cache
}

// Server はサーバー設定を返す
func (s *Store) Server() *ResolvedServer {
	return &s.Resolved().Server
}

// GetProjectConfigPath はプロジェクト設定ファイルのパスを返す
func (s *Store) GetProjectConfigPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectConfigPath
}

// GetUserConfigPath はユーザー設定ファイルのパスを返す
func (s *Store) GetUserConfigPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if info := s.store.GetLayerInfo(LayerUser); info != nil {
		return info.Path()
	}
	return ""
}

// Get は指定キーの値を取得する
func (s *Store) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rv := s.store.GetAt(DotToPointer(key))
	if rv.Exists {
		return rv.Value
	}
	return nil
}

// Set はドット区切りのキーで値を設定する（ユーザーレイヤー）
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SetTo(LayerUser, DotToPointer(key), value)
}

// SetToLayer は指定レイヤーに値を設定する
func (s *Store) SetToLayer(layerName, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SetTo(layer.Name(layerName), DotToPointer(key), value)
}

// Save は更新があったレイヤーを保存する
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(ctx)
}

// WalkEntry は WalkEx で返されるエントリ情報
type WalkEntry struct {
	Path         string // ドット区切りのパス
	Value        any
	Layer        string // 値の出所となるレイヤー名
	DefaultValue any    // デフォルト値（存在しない場合は nil）
}

// WalkExFunc は WalkEx で使用するコールバック関数の型
type WalkExFunc func(entry WalkEntry) bool

// WalkEx は全設定パスをイテレートし、デフォルト値も含めたエントリ情報を返す
// fn が false を返すとイテレーションを停止する
func (s *Store) WalkEx(fn WalkExFunc) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.store.Walk(func(ctx jubako.WalkContext) bool {
		rv := ctx.Value()
		if !rv.Exists {
			return true
		}
		// /wordcloud/font_path → wordcloud.font_path
		key := strings.ReplaceAll(ctx.Path[1:], "/", ".")
		layerName := ""
		if rv.Layer != nil {
			layerName = string(rv.Layer.Name())
		}

		var defaultValue any
		for _, v := range ctx.AllValues() {
			if v.Layer != nil && string(v.Layer.Name()) == LayerDefaults {
				defaultValue = v.Value
				break
			}
		}

		return fn(WalkEntry{
			Path:         key,
			Value:        rv.Value,
			Layer:        layerName,
			DefaultValue: defaultValue,
		})
	})
}

var (
	globalStore   *Store
	globalStoreMu sync.RWMutex
)

// Load はグローバル設定ストアを初期化してロードする
// すでにロード済みの場合は既存のストアを返す
func Load(ctx context.Context) (*Store, error) {
	globalStoreMu.Lock()
	defer globalStoreMu.Unlock()

	if globalStore != nil {
		return globalStore, nil
	}

	store, err := newConfigStore()
	if err != nil {
		return nil, err
	}

	if err := store.LoadAll(ctx); err != nil {
		return nil, err
	}
	if err := store.Resolved().Validate(); err != nil {
		return nil, err
	}

	globalStore = store
	return globalStore, nil
}

// ResetConfig はグローバル設定ストアをリセットする（テスト用）
func ResetConfig() {
	globalStoreMu.Lock()
	defer globalStoreMu.Unlock()
	globalStore = nil
}
