package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-faster/errors"

	"github.com/yacchi/danmaku-cli/internal/danmaku"
	"github.com/yacchi/danmaku-cli/internal/histogram"
)

// HistogramChart は再生位置の分布を棒グラフのHTMLとして書き出す
// 各ビンのラベルは開始位置の MM:SS
func HistogramChart(w io.Writer, h histogram.Histogram, title string) error {
	labels := make([]string, len(h.Bins))
	data := make([]opts.BarData, len(h.Bins))
	for i, b := range h.Bins {
		labels[i] = danmaku.FormatClock(b.Lower)
		data[i] = opts.BarData{
			Value: b.Count,
			Name:  fmt.Sprintf("%s-%s", danmaku.FormatClock(b.Lower), danmaku.FormatClock(b.Upper)),
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d comments", h.Total())}),
		charts.WithInitializationOpts(opts.Initialization{Width: "960px", Height: "480px"}),
	)
	bar.SetXAxis(labels).AddSeries("comments", data)

	if err := bar.Render(w); err != nil {
		return errors.Wrap(err, "render chart")
	}
	return nil
}
