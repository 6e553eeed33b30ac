package errors

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	stderrLogger     *log.Logger
	stderrLoggerOnce sync.Once
)

func defaultLogger() *log.Logger {
	stderrLoggerOnce.Do(func() {
		stderrLogger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix:          "livehooks",
			ReportTimestamp: true,
		})
	})
	return stderrLogger
}

// LogHandler is an ErrorHandler that writes errors to a structured logger.
type LogHandler struct {
	// Logger receives the records. Nil uses a stderr logger.
	Logger *log.Logger
	// Verbose enables stack traces in the output.
	Verbose bool
}

func (h *LogHandler) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return defaultLogger()
}

// HandleError logs a HookError.
func (h *LogHandler) HandleError(err *HookError) {
	if err == nil {
		return
	}
	keyvals := []any{"op", err.Op, "kind", err.Kind.String(), "err", err.Err}
	if err.Hook != "" {
		keyvals = append(keyvals, "hook", err.Hook)
	}
	if h.Verbose && err.StackTrace != "" {
		keyvals = append(keyvals, "stack", err.StackTrace)
	}
	switch err.Kind {
	case KindDataFormat, KindStructure:
		h.logger().Warn("widget degraded", keyvals...)
	default:
		h.logger().Error("widget error", keyvals...)
	}
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	keyvals := []any{"op", err.Op, "value", err.Value}
	if h.Verbose && err.StackTrace != "" {
		keyvals = append(keyvals, "stack", err.StackTrace)
	}
	h.logger().Error("widget panic", keyvals...)
}
