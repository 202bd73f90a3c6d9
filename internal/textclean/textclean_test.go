package textclean

import (
	"reflect"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		opts      Options
		want      string
		wantRules []RuleID
	}{
		{
			name:      "no rules",
			input:     "Hello, World 123!",
			opts:      Options{},
			want:      "Hello, World 123!",
			wantRules: []RuleID{},
		},
		{
			name:      "remove punctuation keeps CJK and underscore",
			input:     "你好，世界！snake_case?",
			opts:      Options{RemovePunctuation: true},
			want:      "你好世界snake_case",
			wantRules: []RuleID{RuleRemovePunctuation},
		},
		{
			name:      "remove digits",
			input:     "第1集 2024年 ３",
			opts:      Options{RemoveDigits: true},
			want:      "第集 年 ",
			wantRules: []RuleID{RuleRemoveDigits},
		},
		{
			name:      "lowercase",
			input:     "ABC Def",
			opts:      Options{Lowercase: true},
			want:      "abc def",
			wantRules: []RuleID{RuleLowercase},
		},
		{
			name:      "collapse spaces",
			input:     "  a \t b\n\nc  ",
			opts:      Options{CollapseSpaces: true},
			want:      "a b c",
			wantRules: []RuleID{RuleCollapseSpaces},
		},
		{
			name:      "normalize fullwidth",
			input:     "ＡＢＣ１２３",
			opts:      Options{Normalize: true},
			want:      "ABC123",
			wantRules: []RuleID{RuleNormalize},
		},
		{
			name:  "all rules in order",
			input: "Hello,  World 42!  你好。",
			opts: Options{
				Normalize:         true,
				RemovePunctuation: true,
				RemoveDigits:      true,
				Lowercase:         true,
				CollapseSpaces:    true,
			},
			want:      "hello world 你好",
			wantRules: []RuleID{RuleRemovePunctuation, RuleRemoveDigits, RuleLowercase, RuleCollapseSpaces},
		},
		{
			name:      "defaults skip normalize",
			input:     "ＡＢＣ, Hello 42",
			opts:      DefaultOptions(),
			want:      "ａｂｃ hello",
			wantRules: []RuleID{RuleRemovePunctuation, RuleRemoveDigits, RuleLowercase, RuleCollapseSpaces},
		},
		{
			name:      "unchanged rule is not reported",
			input:     "already clean",
			opts:      Options{Lowercase: true, CollapseSpaces: true},
			want:      "already clean",
			wantRules: []RuleID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input, tt.opts)
			if got.Text != tt.want {
				t.Errorf("Clean().Text = %q, want %q", got.Text, tt.want)
			}
			if !reflect.DeepEqual(got.Rules, tt.wantRules) {
				t.Errorf("Clean().Rules = %v, want %v", got.Rules, tt.wantRules)
			}
		})
	}
}

func TestParseRules(t *testing.T) {
	opts, err := ParseRules([]string{"lowercase", " collapse-spaces "})
	if err != nil {
		t.Fatalf("ParseRules() error = %v", err)
	}
	want := Options{Lowercase: true, CollapseSpaces: true}
	if opts != want {
		t.Errorf("ParseRules() = %+v, want %+v", opts, want)
	}

	if _, err := ParseRules([]string{"stem"}); err == nil {
		t.Error("ParseRules(stem) expected error")
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		input string
		want  Stats
	}{
		{input: "", want: Stats{}},
		{input: "hello world", want: Stats{Characters: 11, Words: 2}},
		{input: "弹幕 好看", want: Stats{Characters: 5, Words: 2}},
		{input: "  多个   空格 \n", want: Stats{Characters: 11, Words: 2}},
	}
	for _, tt := range tests {
		if got := Compute(tt.input); got != tt.want {
			t.Errorf("Compute(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}
