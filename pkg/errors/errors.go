// Package errors provides structured error handling for livehooks widgets.
//
// No error raised by a widget is fatal to the page. Widgets report failures
// through [Report] and degrade locally; the configured [ErrorHandler] decides
// how they surface (the default logs them).
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindDataFormat indicates a dataset attribute that is missing or unparsable.
	KindDataFormat
	// KindResourceAcquisition indicates hardware or context allocation failed.
	KindResourceAcquisition
	// KindResourceRelease indicates a failure while releasing a resource.
	KindResourceRelease
	// KindStructure indicates a required DOM element or hook name is absent.
	KindStructure
	// KindRender indicates the renderer rejected a chart configuration.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindDataFormat:
		return "data_format"
	case KindResourceAcquisition:
		return "resource_acquisition"
	case KindResourceRelease:
		return "resource_release"
	case KindStructure:
		return "structure"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// HookError represents a structured error raised by a widget.
type HookError struct {
	// Op is the operation that failed (e.g., "audio.Capture.start").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Hook is the host hook name of the widget instance, if known.
	Hook string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *HookError) Error() string {
	if e.Hook != "" {
		return fmt.Sprintf("%s [%s] hook=%s: %v", e.Op, e.Kind, e.Hook, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "lifecycle.Attach").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ParseError represents a dataset attribute that could not be decoded.
type ParseError struct {
	// Attribute is the DOM attribute that was read (e.g., "data-trend").
	Attribute string
	// DataType is the expected type name.
	DataType string
	// Got is the raw value, truncated for logging.
	Got string
	// Err is the decoder error, nil when the attribute was absent.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("attribute %s missing, expected %s", e.Attribute, e.DataType)
	}
	return fmt.Sprintf("failed to parse %s from attribute %s: %v", e.DataType, e.Attribute, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by widgets.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *HookError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
