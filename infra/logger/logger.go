// Package logger is the zerolog-backed implementation of the core logging
// contract. Output is environment-driven: APP_ENV=dev switches to the human
// console writer, LOG_LEVEL selects the threshold (info when unset, debug
// enables the per-solve detail).
package logger

import (
	"os"

	corelogger "github.com/gridarb/gridarb/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns a Logger writing to stdout, tagged with the given component.
func New(component string) Logger {
	return newZerolog(component, os.Stdout)
}
