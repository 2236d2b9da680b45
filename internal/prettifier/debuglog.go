package prettifier

import (
	"fmt"
	"os"
	"time"
)

// debugEnabled gates all trace output. Set via SetDebug; off by default,
// matching the rest of the codebase's guarded fmt.Fprintf-to-stderr idiom
// rather than a structured logging package.
var debugEnabled bool

// SetDebug toggles prettifier trace logging on or off.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// debugTrace logs a fine-grained per-line decision (boundary pushes, rule
// matches). The noisiest of the three levels.
func debugTrace(format string, args ...interface{}) {
	if !debugEnabled {
		return
	}
	emit("TRACE", format, args...)
}

// debugLog logs a pipeline-level event (block installed, cache hit/miss).
func debugLog(format string, args ...interface{}) {
	if !debugEnabled {
		return
	}
	emit("LOG", format, args...)
}

// debugInfo logs a once-per-lifecycle event (detector registered, config
// loaded).
func debugInfo(format string, args ...interface{}) {
	if !debugEnabled {
		return
	}
	emit("INFO", format, args...)
}

func emit(level, format string, args ...interface{}) {
	ts := time.Now().Format(time.RFC3339Nano)
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "[%s] prettifier %s: %s\n", ts, level, msg)
}
