package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var logFile *os.File

// setupLogging routes slog to the log file; the TUI owns the terminal.
// Without --debug a log file that cannot be opened disables logging; with
// --debug it is an error, since the user asked for the log.
func setupLogging(path string, debug bool) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	f, err := openLogFile(path)
	switch {
	case err == nil:
		closeLogging()
		logFile = f
		w = f
	case debug:
		return fmt.Errorf("open log file: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func closeLogging() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
