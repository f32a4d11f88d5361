// Package logger defines the logging contract shared by the optimiser core
// and the infrastructure adapters.
package logger

// Logger exposes the severities the service emits. Per-solve detail goes
// through Debugw as structured fields, everything else is printf-style.
type Logger interface {
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
