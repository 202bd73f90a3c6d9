// Package textclean は汎用テキストの整形と文字数・語数の集計を行う
package textclean

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"golang.org/x/text/unicode/norm"
)

// RuleID は整形ルールの識別子
type RuleID string

const (
	RuleNormalize         RuleID = "normalize"
	RuleRemovePunctuation RuleID = "remove-punctuation"
	RuleRemoveDigits      RuleID = "remove-digits"
	RuleLowercase         RuleID = "lowercase"
	RuleCollapseSpaces    RuleID = "collapse-spaces"
)

// AllRules は適用順に並んだ全ルール
var AllRules = []RuleID{
	RuleNormalize,
	RuleRemovePunctuation,
	RuleRemoveDigits,
	RuleLowercase,
	RuleCollapseSpaces,
}

var (
	rePunctuation = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s]+`)
	reDigits      = regexp.MustCompile(`\p{Nd}+`)
)

// Options は有効にするルール
type Options struct {
	Normalize         bool
	RemovePunctuation bool
	RemoveDigits      bool
	Lowercase         bool
	CollapseSpaces    bool
}

// DefaultOptions はルール未指定時の既定。NFKC 正規化は明示したときだけ適用する
func DefaultOptions() Options {
	return Options{
		RemovePunctuation: true,
		RemoveDigits:      true,
		Lowercase:         true,
		CollapseSpaces:    true,
	}
}

// Enabled は rule が有効かどうかを返す
func (o Options) Enabled(rule RuleID) bool {
	switch rule {
	case RuleNormalize:
		return o.Normalize
	case RuleRemovePunctuation:
		return o.RemovePunctuation
	case RuleRemoveDigits:
		return o.RemoveDigits
	case RuleLowercase:
		return o.Lowercase
	case RuleCollapseSpaces:
		return o.CollapseSpaces
	}
	return false
}

// ParseRules はルール名の列から Options を作る
func ParseRules(names []string) (Options, error) {
	var opts Options
	for _, name := range names {
		switch RuleID(strings.TrimSpace(name)) {
		case RuleNormalize:
			opts.Normalize = true
		case RuleRemovePunctuation:
			opts.RemovePunctuation = true
		case RuleRemoveDigits:
			opts.RemoveDigits = true
		case RuleLowercase:
			opts.Lowercase = true
		case RuleCollapseSpaces:
			opts.CollapseSpaces = true
		default:
			return Options{}, errors.Errorf("unknown clean rule %q", name)
		}
	}
	return opts, nil
}

// Result は整形結果
type Result struct {
	Text string `json:"text"`
	// Rules は実際にテキストを変化させたルール（適用順）
	Rules []RuleID `json:"rules"`
}

// Clean は有効なルールを AllRules の順に適用する
func Clean(text string, opts Options) Result {
	rules := []RuleID{}
	for _, rule := range AllRules {
		if !opts.Enabled(rule) {
			continue
		}
		next := apply(rule, text)
		if next != text {
			rules = append(rules, rule)
		}
		text = next
	}
	return Result{Text: text, Rules: rules}
}

func apply(rule RuleID, text string) string {
	switch rule {
	case RuleNormalize:
		return norm.NFKC.String(text)
	case RuleRemovePunctuation:
		return rePunctuation.ReplaceAllString(text, "")
	case RuleRemoveDigits:
		return reDigits.ReplaceAllString(text, "")
	case RuleLowercase:
		return strings.ToLower(text)
	case RuleCollapseSpaces:
		return strings.Join(strings.Fields(text), " ")
	}
	return text
}

// Stats は文字数と語数
type Stats struct {
	// Characters はコードポイント数
	Characters int `json:"characters"`
	// Words は空白区切りのフィールド数
	Words int `json:"words"`
}

// Compute は text の統計を返す
func Compute(text string) Stats {
	return Stats{
		Characters: utf8.RuneCountInString(text),
		Words:      len(strings.Fields(text)),
	}
}
