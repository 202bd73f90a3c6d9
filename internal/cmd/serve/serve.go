package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/config"
	"github.com/yacchi/danmaku-cli/internal/debug"
	"github.com/yacchi/danmaku-cli/internal/server"
)

// ServeCmd は解析APIサーバーを起動する
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analysis API server",
	Long: `Start an HTTP server exposing the danmaku and text analyses.

Endpoints:
  GET  /health
  POST /v1/danmaku/analyze
  GET  /v1/danmaku/wordcloud.png?url=...
  POST /v1/text/clean
  POST /v1/text/analyze`,
	RunE: runServe,
}

var port int

func init() {
	ServeCmd.Flags().IntVar(&port, "port", 0, "Server port (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client, cfg, err := cmdutil.GetClient(cmd)
	if err != nil {
		return err
	}

	// ポートのオーバーライド（コマンドライン引数）
	if port > 0 {
		if err := cfg.SetToLayer(config.LayerArgs, config.PathServerPort, port); err != nil {
			return &cmdutil.ConfigError{Err: err}
		}
		if err := cfg.Reload(ctx); err != nil {
			return &cmdutil.ConfigError{Err: err}
		}
	}

	level := slog.LevelInfo
	if debug.IsEnabled() {
		level = slog.LevelDebug
	}
	slog.SetDefault(debug.NewLogger(os.Stderr, level))

	runner, closeRunner, err := cmdutil.GetRunner(cfg)
	if err != nil {
		return err
	}
	defer closeRunner()

	srv, err := server.NewServer(server.OptionsFromConfig(cfg), runner, client)
	if err != nil {
		return &cmdutil.ConfigError{Err: fmt.Errorf("failed to create server: %w", err)}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
