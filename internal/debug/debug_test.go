package debug

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogOnlyWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer Disable()

	Disable()
	Log("hidden", "key", "value")
	if buf.Len() != 0 {
		t.Errorf("Log() wrote %q while disabled", buf.String())
	}

	Enable()
	Log("fetched comments", "count", 3)
	out := buf.String()
	if !strings.Contains(out, "fetched comments") {
		t.Errorf("Log() output = %q, want message", out)
	}
	if !strings.Contains(out, "count=3") {
		t.Errorf("Log() output = %q, want attribute count=3", out)
	}
}
