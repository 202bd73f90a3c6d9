package export

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
)

// WriteFile は path の親ディレクトリを作成してから write の結果を書き込む
// 途中で失敗した場合は書きかけのファイルを残さない
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create output dir")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// --out-dir に書き出すファイル名
const (
	CommentsCSVName  = "danmaku.csv"
	CommentsXLSXName = "danmaku.xlsx"
	FrequencyCSVName = "word_frequency.csv"
	SentimentCSVName = "sentiment.csv"
	StatsCSVName     = "text_statistics.csv"
	WordcloudPNGName = "wordcloud.png"
	TimelineHTMLName = "timeline.html"
	SummaryTextName  = "summary.txt"
	CleanedTextName  = "cleaned_text.txt"
)
