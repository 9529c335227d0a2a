// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rombuilder

// Package logger holds the process-wide structured logger.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

var (
	mu      sync.Mutex
	logger  *slog.Logger
	summary []summaryStatement
	out     io.Writer = os.Stderr
)

// Init configures the default logger. Verbose enables debug records and json
// switches from colored text to JSON lines.
func Init(verbose bool, json bool) {
	InitWriter(out, verbose, json)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, verbose bool, json bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var l *slog.Logger
	if json {
		l = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	} else {
		l = slog.New(tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}))
	}

	mu.Lock()
	logger = l
	out = w
	summary = nil
	mu.Unlock()

	slog.SetDefault(l)
}

func current() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

type summaryStatement struct {
	level slog.Level
	msg   string
	args  []any
}

// AddSummaryWarn records a warning that Close repeats at the end of the run.
func AddSummaryWarn(msg string, args ...any) {
	addSummary(slog.LevelWarn, msg, args)
}

// AddSummaryError records an error that Close repeats at the end of the run.
func AddSummaryError(msg string, args ...any) {
	addSummary(slog.LevelError, msg, args)
}

func addSummary(level slog.Level, msg string, args []any) {
	mu.Lock()
	summary = append(summary, summaryStatement{level, msg, args})
	mu.Unlock()
}

// Close flushes the recorded summary, if any.
func Close() {
	mu.Lock()
	statements := summary
	summary = nil
	l, w := logger, out
	mu.Unlock()

	if len(statements) == 0 {
		return
	}

	line := []byte("------------\n")
	_, _ = w.Write(line)
	for _, s := range statements {
		l.Log(context.TODO(), s.level, s.msg, s.args...)
	}
	_, _ = w.Write(line)
}

func init() {
	Init(false, false)
}
