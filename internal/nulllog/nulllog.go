/*
NAME
  nulllog.go

DESCRIPTION
  nulllog.go implements a discarding logging.Logger, used as the default
  when a caller constructs pack.Config or player.Config without supplying
  one of their own.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Package nulllog provides a logging.Logger implementation that discards
// everything, for use as a safe default.
package nulllog

import "github.com/ausocean/utils/logging"

// Logger discards every log call. It implements
// github.com/ausocean/utils/logging.Logger.
type Logger struct{ level int8 }

// New returns a discarding Logger.
func New() *Logger { return &Logger{} }

// SetLevel implements logging.Logger.
func (l *Logger) SetLevel(lvl int8) { l.level = lvl }

// Log implements logging.Logger.
func (*Logger) Log(level int8, message string, params ...interface{}) {}

// Debug implements logging.Logger.
func (*Logger) Debug(message string, params ...interface{}) {}

// Info implements logging.Logger.
func (*Logger) Info(message string, params ...interface{}) {}

// Warning implements logging.Logger.
func (*Logger) Warning(message string, params ...interface{}) {}

// Error implements logging.Logger.
func (*Logger) Error(message string, params ...interface{}) {}

// Fatal implements logging.Logger.
func (*Logger) Fatal(message string, params ...interface{}) {}

var _ logging.Logger = (*Logger)(nil)
