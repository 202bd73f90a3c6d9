package ui

import (
	"bytes"
	"testing"
)

func TestMessagesAndStyles(t *testing.T) {
	var buf bytes.Buffer
	oldOut, oldColor := Messages, colorEnabled
	t.Cleanup(func() { Messages, colorEnabled = oldOut, oldColor })
	Messages = &buf

	SetColorEnabled(false)
	Warning("%d comments skipped", 3)
	if got, want := buf.String(), "! 3 comments skipped\n"; got != want {
		t.Errorf("Warning() wrote %q, want %q", got, want)
	}
	if got := SentimentColor("positive"); got != "positive" {
		t.Errorf("SentimentColor() without color = %q", got)
	}

	SetColorEnabled(true)
	if got, want := Green("ok"), "\033[32mok\033[0m"; got != want {
		t.Errorf("Green() = %q, want %q", got, want)
	}
	if got := Bold(""); got != "" {
		t.Errorf("Bold(\"\") = %q, want empty", got)
	}
}
