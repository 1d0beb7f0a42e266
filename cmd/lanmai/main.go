// Lanmai: keyboard remapper for Linux evdev devices
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Teliang/lanmai/internal/config"
	"github.com/Teliang/lanmai/internal/supervisor"
	"github.com/Teliang/lanmai/internal/watcher"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	devicePath := flag.String("device", "", "Additional input device to grab")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("lanmai %s (%s) built %s\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Setup logging
	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rules, err := cfg.Rules()
	if err != nil {
		logger.Error("invalid mapping config", "error", err)
		os.Exit(1)
	}

	logger.Info("lanmai starting",
		"version", version,
		"single", len(rules.Single),
		"double", len(rules.Double),
		"meta", len(rules.Meta.Table),
	)

	// Cancelled by SIGINT/SIGTERM; workers blocked in device reads are torn
	// down with the process.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down...")
		cancel()
	}()

	// Watch for hot-plugged keyboards
	w := watcher.New(logger)
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("device watcher failed", "error", err)
		}
	}()

	// Supervise one worker per keyboard
	sup := supervisor.New(rules, *devicePath, logger)
	if err := sup.Run(ctx, w.Notifications()); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("supervisor failed", "error", err)
		os.Exit(1)
	}

	logger.Info("lanmai stopped")
}
