package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName is the application name used for config directories
const AppName = "danmaku"

// configDir returns the config directory path (~/.config/danmaku)
// Uses XDG_CONFIG_HOME if set, otherwise falls back to ~/.config
func configDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", AppName), nil
}

// configPath returns the user config file path (~/.config/danmaku/config.yaml)
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// defaultCacheDir returns the default cache directory path
func defaultCacheDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, AppName), nil
}

// findProjectConfigPath はカレントディレクトリから上に向かって
// プロジェクト設定ファイルを探索する。見つからなければ空文字を返す
func findProjectConfigPath() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range ProjectConfigFiles {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// DotToPointer converts a dot-separated path to a JSON Pointer.
// Example: "wordcloud.font_path" -> "/wordcloud/font_path"
// A path that is already a JSON Pointer is returned unchanged.
func DotToPointer(dotPath string) string {
	if strings.HasPrefix(dotPath, "/") {
		return dotPath
	}
	return "/" + strings.ReplaceAll(dotPath, ".", "/")
}
