package config

import (
	"reflect"
	"testing"
)

func TestParseConfigValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{" FALSE ", false},
		{"42", 42},
		{"0.65", 0.65},
		{"jieba", "jieba"},
		{"/fonts/noto.ttf", "/fonts/noto.ttf"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseConfigValue(tt.in); got != tt.want {
				t.Errorf("parseConfigValue(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNestEntries(t *testing.T) {
	got := nestEntries([]listEntry{
		{path: "wordcloud.width", value: 800},
		{path: "wordcloud.font_path", value: "/f.ttf"},
		{path: "server.rate_limit.burst", value: 10},
	})
	want := map[string]any{
		"wordcloud": map[string]any{"width": 800, "font_path": "/f.ttf"},
		"server":    map[string]any{"rate_limit": map[string]any{"burst": 10}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("nestEntries() = %#v, want %#v", got, want)
	}
}
