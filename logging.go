package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	persistentLogFile *os.File
	loggingMu         sync.Mutex
)

func defaultPersistentLogPath() string {
	logPath := os.Getenv("ATOMBOT_LOG_FILE")
	if logPath == "" {
		logPath = "atombot.log"
	}
	return logPath
}

// logLevelFromEnv maps the LOGLEVEL variable to a slog level. Unset or
// unknown values mean info.
func logLevelFromEnv() slog.Level {
	switch strings.ToUpper(strings.TrimSpace(os.Getenv("LOGLEVEL"))) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupLogger initializes the structured logger
func setupLogger() {
	loggingMu.Lock()
	defer loggingMu.Unlock()

	if persistentLogFile != nil {
		_ = persistentLogFile.Sync()
		_ = persistentLogFile.Close()
		persistentLogFile = nil
	}

	logPath := defaultPersistentLogPath()
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		logFile = nil
	}

	opts := &slog.HandlerOptions{
		Level: logLevelFromEnv(),
	}

	var out io.Writer = os.Stdout
	if logFile != nil {
		persistentLogFile = logFile
		out = io.MultiWriter(os.Stdout, logFile)
	}

	handler := slog.NewTextHandler(out, opts)
	logger := slog.New(handler).With("app", "atombot")
	slog.SetDefault(logger)

	if logFile != nil {
		slog.Info("Persistent logging enabled", "file", logPath)
	} else {
		slog.Error("Persistent logging disabled: failed to open log file", "file", logPath)
	}
}

func closeLogger() {
	loggingMu.Lock()
	defer loggingMu.Unlock()

	if persistentLogFile == nil {
		return
	}
	_ = persistentLogFile.Sync()
	_ = persistentLogFile.Close()
	persistentLogFile = nil
}
