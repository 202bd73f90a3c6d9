package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/yacchi/danmaku-cli/internal/bilibili"
	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/ui"
)

func TestHandleError(t *testing.T) {
	ui.SetColorEnabled(false)

	tests := []struct {
		name string
		err  error
		want ExitCode
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "not found", err: &bilibili.IdentifierNotFoundError{URL: "https://www.bilibili.com/video/x"}, want: ExitNotFound},
		{name: "wrapped network", err: fmt.Errorf("fetch: %w", &bilibili.NetworkError{URL: "u", StatusCode: 412}), want: ExitNetwork},
		{name: "config", err: &cmdutil.ConfigError{Err: errors.New("bad yaml")}, want: ExitConfig},
		{name: "generic", err: errors.New("boom"), want: ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HandleError(tt.err); got != tt.want {
				t.Errorf("HandleError() = %d, want %d", got, tt.want)
			}
		})
	}
}
