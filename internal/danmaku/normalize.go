package danmaku

import (
	"sort"
	"strings"
)

// Normalize は抽出結果を Record に変換し、再生位置の昇順に安定ソートする
func Normalize(raw []RawComment) Corpus {
	corpus := make(Corpus, len(raw))
	for i, rc := range raw {
		corpus[i] = Record{
			Seconds: rc.Seconds,
			Display: FormatClock(rc.Seconds),
			Text:    strings.TrimSpace(rc.Text),
		}
	}
	sort.SliceStable(corpus, func(i, j int) bool {
		return corpus[i].Seconds < corpus[j].Seconds
	})
	return corpus
}
