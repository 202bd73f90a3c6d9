package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yacchi/jubako"

	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/config"
)

// fakeArgsStore は Args レイヤーへの書き込みを記録し、指定されたエラーを返す
type fakeArgsStore struct {
	flagsErr  error
	setErr    error
	reloadErr error

	options []jubako.SetOption
	set     map[string]any
	reloads int
}

func (f *fakeArgsStore) SetFlagsLayer(options []jubako.SetOption) error {
	f.options = append(f.options, options...)
	return f.flagsErr
}

func (f *fakeArgsStore) SetToLayer(layerName, key string, value any) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.set == nil {
		f.set = make(map[string]any)
	}
	f.set[layerName+":"+key] = value
	return nil
}

func (f *fakeArgsStore) Reload(context.Context) error {
	f.reloads++
	return f.reloadErr
}

func TestAnalyzeOverridesErrors(t *testing.T) {
	seed := 7
	errWrite := errors.New("layer is read-only")

	tests := []struct {
		name      string
		overrides analyzeOverrides
		store     *fakeArgsStore
	}{
		{
			name:      "flags layer",
			overrides: analyzeOverrides{FontPath: "font.ttf"},
			store:     &fakeArgsStore{flagsErr: errWrite},
		},
		{
			name:      "bins",
			overrides: analyzeOverrides{Bins: 10},
			store:     &fakeArgsStore{setErr: errWrite},
		},
		{
			name:      "seed",
			overrides: analyzeOverrides{Seed: &seed},
			store:     &fakeArgsStore{setErr: errWrite},
		},
		{
			name:      "reload",
			overrides: analyzeOverrides{Bins: 10},
			store:     &fakeArgsStore{reloadErr: errWrite},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.overrides.apply(context.Background(), tt.store)
			var cfgErr *cmdutil.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("apply() error = %v, want *cmdutil.ConfigError", err)
			}
			if !errors.Is(err, errWrite) {
				t.Errorf("apply() error = %v, want wrapping %v", err, errWrite)
			}
		})
	}
}

func TestAnalyzeOverridesSkipsReload(t *testing.T) {
	store := &fakeArgsStore{}
	overrides := analyzeOverrides{Segmenter: "simple"}
	if err := overrides.apply(context.Background(), store); err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	if len(store.options) != 1 {
		t.Errorf("len(options) = %d, want 1", len(store.options))
	}
	if store.reloads != 0 {
		t.Errorf("reloads = %d, want 0", store.reloads)
	}
}

func TestAnalyzeOverridesResolve(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldDir) })
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}

	seed := 7
	overrides := analyzeOverrides{Segmenter: "simple", Bins: 12, Seed: &seed}
	if err := overrides.apply(ctx, cfg); err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	if got := cfg.Analysis().Segmenter; got != "simple" {
		t.Errorf("Segmenter = %q, want %q", got, "simple")
	}
	if got := cfg.Analysis().HistogramBins; got != 12 {
		t.Errorf("HistogramBins = %d, want 12", got)
	}
	if got := cfg.Wordcloud().Seed; got != 7 {
		t.Errorf("Seed = %d, want 7", got)
	}
}
