// Package segment は中国語テキストの分かち書きを提供する
package segment

import (
	"strings"
	"unicode"

	"github.com/go-faster/errors"
)

// Segmenter はテキストをトークン列に分割する
// 空白のみのトークンは返さない
type Segmenter interface {
	Cut(text string) []string
}

// 分かち書き器の種類
const (
	KindJieba  = "jieba"
	KindSimple = "simple"
)

// New は種類名から分かち書き器を作成する
// 返り値が Close を持つ場合、呼び出し側が解放する
func New(kind string, opts JiebaOptions) (Segmenter, error) {
	switch strings.ToLower(kind) {
	case "", KindJieba:
		return NewJieba(opts), nil
	case KindSimple:
		return SimpleSegmenter{}, nil
	default:
		return nil, errors.Errorf("unknown segmenter %q (want %s or %s)", kind, KindJieba, KindSimple)
	}
}

// Close は分かち書き器が保持するリソースを解放する
func Close(s Segmenter) {
	if c, ok := s.(interface{ Close() }); ok {
		c.Close()
	}
}

// SimpleSegmenter は辞書を使わない分かち書き器
// 漢字は1文字ずつ、それ以外の文字・数字の連続は1語とし、空白と記号は区切りとして捨てる
type SimpleSegmenter struct{}

func (SimpleSegmenter) Cut(text string) []string {
	var (
		tokens []string
		word   strings.Builder
	)
	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			word.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// dropBlank は空白のみのトークンを取り除く
func dropBlank(tokens []string) []string {
	out := tokens[:0]
	for _, t := range tokens {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}
