// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log mirrors the small leveled-logging abstraction the upstream
// saferwall/pe package depends on, backed by zerolog instead of a bespoke
// writer so callers get structured, levelled output for free.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Level is a logging severity, ordered least to most severe.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Logger is the minimal structured-logging sink the classfile package
// writes diagnostics through. A Logger never returns an error for a log
// call under normal operation; the return exists to match the upstream
// interface shape.
type Logger interface {
	Log(level Level, msg string, keyvals ...interface{}) error
}

// stdLogger adapts a zerolog.Logger writing to an io.Writer.
type stdLogger struct {
	zl zerolog.Logger
}

// NewStdLogger returns a Logger that writes to w using zerolog's
// human-readable console writer.
func NewStdLogger(w io.Writer) Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	return &stdLogger{zl: zl}
}

func (s *stdLogger) Log(level Level, msg string, keyvals ...interface{}) error {
	ev := s.zl.WithLevel(level.zerolog())
	for i := 0; i+1 < len(keyvals); i += 2 {
		ev = ev.Interface(toString(keyvals[i]), keyvals[i+1])
	}
	ev.Msg(msg)
	return nil
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "field"
}

// filterLogger drops log calls below a configured minimum level.
type filterLogger struct {
	next  Logger
	level Level
}

// FilterOption configures a filtered Logger.
type FilterOption func(*filterLogger)

// FilterLevel sets the minimum level a filtered Logger passes through.
func FilterLevel(level Level) FilterOption {
	return func(f *filterLogger) {
		f.level = level
	}
}

// NewFilter wraps next so that only calls at or above the configured
// level reach it.
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &filterLogger{next: next, level: LevelInfo}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filterLogger) Log(level Level, msg string, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.next.Log(level, msg, keyvals...)
}

// Helper provides leveled convenience methods (Debugf, Infof, Warnf,
// Errorf) over a Logger, the same shape classfile.Options.Logger callers
// expect.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger with formatted leveled methods.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) Debugf(format string, args ...interface{}) {
	h.logger.Log(LevelDebug, fmt.Sprintf(format, args...))
}

func (h *Helper) Infof(format string, args ...interface{}) {
	h.logger.Log(LevelInfo, fmt.Sprintf(format, args...))
}

func (h *Helper) Warnf(format string, args ...interface{}) {
	h.logger.Log(LevelWarn, fmt.Sprintf(format, args...))
}

func (h *Helper) Errorf(format string, args ...interface{}) {
	h.logger.Log(LevelError, fmt.Sprintf(format, args...))
}

// DefaultLogger returns the package's fallback logger: errors only, to
// stderr, matching the zero-value behaviour upstream callers rely on when
// Options.Logger is left nil.
func DefaultLogger() Logger {
	return NewFilter(NewStdLogger(os.Stderr), FilterLevel(LevelError))
}
