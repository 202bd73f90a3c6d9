package main

import (
	"os"

	"github.com/yacchi/danmaku-cli/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(int(cmd.HandleError(err)))
	}
}
