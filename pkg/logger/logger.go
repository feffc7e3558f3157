// Package logger provides namespaced debug loggers gated by the DEBUG
// environment variable, in the style of the node "debug" package.
//
// A logger is enabled when its namespace matches one of the comma-separated
// patterns in DEBUG. Patterns may end with '*' to match a prefix, and may be
// prefixed with '-' to exclude namespaces that an earlier pattern matched.
//
//	DEBUG=*                      all loggers
//	DEBUG=provision:*            all loggers in the provision namespace
//	DEBUG=provision:*,engine:*   multiple namespaces
//	DEBUG=*,-provision:remap     everything except the remap logger
//
// Output goes to stderr and never to stdout, so debug logging cannot
// corrupt machine-readable command output.
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Logger is a namespaced debug logger. The zero value is unusable; create
// loggers with New.
type Logger struct {
	namespace string
	enabled   bool
	last      time.Time
}

// New creates a logger for the given namespace. Enablement is evaluated
// once, against the DEBUG environment variable at creation time.
func New(namespace string) *Logger {
	return &Logger{
		namespace: namespace,
		enabled:   matches(os.Getenv("DEBUG"), namespace),
	}
}

// Enabled reports whether this logger's namespace matched DEBUG.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Printf logs a formatted message if the logger is enabled.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", l.namespace, fmt.Sprintf(format, args...))
}

// Print logs the concatenation of its arguments (like fmt.Sprint) if the
// logger is enabled, followed by the time elapsed since the logger's
// previous message.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	now := time.Now()
	var elapsed time.Duration
	if !l.last.IsZero() {
		elapsed = now.Sub(l.last)
	}
	l.last = now
	fmt.Fprintf(os.Stderr, "%s %s +%s\n", l.namespace, fmt.Sprint(args...), elapsed)
}

// matches evaluates the DEBUG pattern list against a namespace. A namespace
// is enabled when at least one inclusion pattern matches and no exclusion
// pattern matches.
func matches(patterns, namespace string) bool {
	if patterns == "" {
		return false
	}
	included := false
	for _, pattern := range strings.Split(patterns, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		negate := strings.HasPrefix(pattern, "-")
		if negate {
			pattern = pattern[1:]
		}
		if !matchPattern(pattern, namespace) {
			continue
		}
		if negate {
			return false
		}
		included = true
	}
	return included
}

func matchPattern(pattern, namespace string) bool {
	if pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(namespace, prefix)
	}
	return pattern == namespace
}
