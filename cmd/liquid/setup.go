package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-liquid/internal/config"
	"github.com/vovakirdan/tui-liquid/internal/core"
	"github.com/vovakirdan/tui-liquid/internal/platform/tui"
	"github.com/vovakirdan/tui-liquid/internal/scenario"
	"github.com/vovakirdan/tui-liquid/internal/storage"
)

var (
	appConfig config.Config
	logLevel  log.Level
	logger    *log.Logger
)

// setup loads the configuration, applies the global flags and registers
// scenario files. It runs before every subcommand.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q", flagLogLevel)
	}
	logLevel = level
	logger = newLogger(os.Stderr)

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagFPS > 0 {
		cfg.Engine.TickRate = flagFPS
	}
	if flagSize > 0 {
		cfg.Engine.Size = flagSize
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg

	for _, dir := range scenarioDirs() {
		n, err := scenario.RegisterDir(dir)
		if err != nil {
			logger.Warn("some scenario files were skipped", "dir", dir, "error", err)
		}
		if n > 0 {
			logger.Debug("registered scenario files", "dir", dir, "count", n)
		}
	}
	return nil
}

// scenarioDirs lists the directories searched for scenario files.
func scenarioDirs() []string {
	dirs := []string{"scenarios"}
	if dir, err := config.DataDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "scenarios"))
	}
	return dirs
}

func newLogger(w *os.File) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "liquid",
		Level:           logLevel,
	})
}

// fileLogger returns a logger writing to ~/.liquid/liquid.log, for use
// while the TUI owns the terminal. It falls back to discarding output.
func fileLogger() (*log.Logger, func()) {
	dir, err := config.DataDir()
	if err == nil {
		err = os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return log.New(io.Discard), func() {}
	}

	f, err := os.OpenFile(filepath.Join(dir, "liquid.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	return newLogger(f), func() { f.Close() }
}

// openStore opens the database, warning and continuing without storage on
// failure.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run database: %v\n", err)
		return nil
	}
	return store
}

// runtimeConfig sizes the view to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return tui.RuntimeFor(appConfig, width, height)
}
