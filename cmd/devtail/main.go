package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"devtail/internal/config"
	"devtail/internal/ui"
	"devtail/internal/util/logx"
	"devtail/internal/version"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println("devtail", version.String())
		return
	}

	// Setup cancellation on SIGINT/SIGTERM; either one tears the UI down
	// immediately without confirmation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logx.Infof("starting devtail %s: %s", version.String(), cfg.String())
	if err := ui.Run(ctx, cfg); err != nil {
		// the alt screen is released by now, stderr is visible again
		logx.Errorf("devtail exited with error: %v", err)
		fmt.Fprintln(os.Stderr, "devtail:", err)
		os.Exit(1)
	}
}
