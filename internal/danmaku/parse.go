package danmaku

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// offsetPattern は p 属性の先頭フィールド（再生位置の秒数）の形式
var offsetPattern = regexp.MustCompile(`^[0-9.]+$`)

// Parse は弾幕リスト本文から <d> 要素を文書順に抽出する
//
// 文法:
//
//	element := "<d" attrs ">" text "</d>" | "<d" attrs "/>"
//	attrs   := { name "=" quoted-value }   属性の順序は問わない
//	p       := offset { "," field }        先頭フィールドが再生位置（秒）
//
// 要素名と属性名は大文字小文字を区別せず、本文中の文字参照は展開する。
// p 属性がない要素、先頭フィールドが非負の10進数でない要素、閉じタグのない要素は読み飛ばす。
// 要素内のタグは無視し、テキストのみを連結する。
// 1件も見つからない場合は空スライスを返す（エラーではない）。
func Parse(body string) []RawComment {
	z := html.NewTokenizer(strings.NewReader(body))

	var (
		out  []RawComment
		cur  *RawComment
		text strings.Builder
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF を含め、ここで走査終了。閉じていない要素は捨てる
			return out

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "d" {
				continue
			}
			seconds, ok := readOffset(z, hasAttr)
			if !ok {
				cur = nil
				continue
			}
			if tt == html.SelfClosingTagToken {
				out = append(out, RawComment{Seconds: seconds})
				cur = nil
				continue
			}
			cur = &RawComment{Seconds: seconds}
			text.Reset()

		case html.TextToken:
			if cur != nil {
				text.Write(z.Text())
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "d" && cur != nil {
				cur.Text = text.String()
				out = append(out, *cur)
				cur = nil
			}
		}
	}
}

// readOffset は開始タグの属性から p を探し、先頭フィールドを秒数として返す
func readOffset(z *html.Tokenizer, hasAttr bool) (float64, bool) {
	var p string
	found := false
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) == "p" {
			p = string(val)
			found = true
		}
	}
	if !found {
		return 0, false
	}

	field, _, _ := strings.Cut(p, ",")
	field = strings.TrimSpace(field)
	if !offsetPattern.MatchString(field) {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, false
	}
	return seconds, true
}
