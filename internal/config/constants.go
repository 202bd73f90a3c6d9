package config

import (
	_ "embed"
)

// レイヤー名定数
const (
	LayerDefaults = "defaults"
	LayerUser     = "user"
	LayerProject  = "project"
	LayerEnv      = "env"
	LayerArgs     = "args"
)

// EnvPrefix は環境変数レイヤーのプレフィックス
const EnvPrefix = "DANMAKU_"

// フラグから上書きされる設定のパス
const (
	PathDisplayOutput        = "/display/output"
	PathDisplayColor         = "/display/color"
	PathServerPort           = "/server/port"
	PathAnalysisSegmenter    = "/analysis/segmenter"
	PathWordcloudFontPath    = "/wordcloud/font_path"
	PathWordcloudSeed        = "/wordcloud/seed"
	PathAnalysisHistogramBin = "/analysis/histogram_bins"
)

// ProjectConfigFiles はプロジェクト設定ファイルとして探索するファイル名
var ProjectConfigFiles = []string{".danmaku.yaml", ".danmaku.yml"}

//go:embed defaults.yaml
var defaultConfigYAML []byte
