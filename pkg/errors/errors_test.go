package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestHookErrorString(t *testing.T) {
	err := &HookError{
		Op:   "charts.Widget.render",
		Kind: KindRender,
		Err:  stderrors.New("boom"),
	}
	want := "charts.Widget.render [render]: boom"
	if got := err.Error(); got != want {
		t.Errorf("HookError.Error() = %q, want %q", got, want)
	}
}

func TestHookErrorWithHook(t *testing.T) {
	err := &HookError{
		Op:   "dataset.Decode",
		Kind: KindDataFormat,
		Hook: "TrendChart",
		Err:  &ParseError{Attribute: "data-trend", DataType: "[]charts.trendRow"},
	}
	got := err.Error()
	if !strings.Contains(got, "hook=TrendChart") {
		t.Errorf("error string %q should contain hook name", got)
	}
	var pe *ParseError
	if !stderrors.As(err, &pe) {
		t.Fatal("expected HookError to unwrap to ParseError")
	}
	if pe.Attribute != "data-trend" {
		t.Errorf("Attribute = %q, want data-trend", pe.Attribute)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindDataFormat, "data_format"},
		{KindResourceAcquisition, "resource_acquisition"},
		{KindResourceRelease, "resource_release"},
		{KindStructure, "structure"},
		{KindRender, "render"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic"}
	if got, want := err.Error(), "panic: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "lifecycle.Attach"
	if got, want := err.Error(), "panic in lifecycle.Attach: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestParseErrorString(t *testing.T) {
	missing := &ParseError{Attribute: "data-words", DataType: "[]cloud.Word"}
	if got := missing.Error(); !strings.Contains(got, "missing") {
		t.Errorf("missing attribute error = %q, should mention missing", got)
	}
	bad := &ParseError{Attribute: "data-words", DataType: "[]cloud.Word", Err: stderrors.New("unexpected EOF")}
	if got := bad.Error(); !strings.Contains(got, "unexpected EOF") {
		t.Errorf("parse error = %q, should carry decoder error", got)
	}
}

func TestReport(t *testing.T) {
	var captured *HookError
	handler := &testHandler{onError: func(err *HookError) { captured = err }}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&HookError{Op: "test.op", Kind: KindStructure, Err: stderrors.New("no panel")})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportNil(t *testing.T) {
	called := false
	oldHandler := DefaultHandler
	SetHandler(&testHandler{onError: func(*HookError) { called = true }})
	defer SetHandler(oldHandler)

	Report(nil)
	ReportPanic(nil)
	if called {
		t.Error("nil errors should not reach the handler")
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	oldHandler := DefaultHandler
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", captured.Value, "intentional test panic")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
}

func TestRecoverWithCallback(t *testing.T) {
	oldHandler := DefaultHandler
	SetHandler(&testHandler{})
	defer SetHandler(oldHandler)

	var got any
	func() {
		defer RecoverWithCallback("test.callback", func(r any) { got = r })
		panic(42)
	}()
	if got != 42 {
		t.Errorf("callback received %v, want 42", got)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	oldHandler := DefaultHandler
	defer SetHandler(oldHandler)

	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandlerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Logger: log.New(&buf)}

	h.HandleError(&HookError{
		Op:        "nav.Attach",
		Kind:      KindStructure,
		Hook:      "MobileNav",
		Err:       stderrors.New("panel missing"),
		Timestamp: time.Now(),
	})
	out := buf.String()
	for _, want := range []string{"nav.Attach", "structure", "MobileNav", "panel missing"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q should contain %q", out, want)
		}
	}

	buf.Reset()
	h.HandlePanic(&PanicError{Op: "audio.Detach", Value: "nil map"})
	if !strings.Contains(buf.String(), "audio.Detach") {
		t.Errorf("panic log output %q should contain op", buf.String())
	}
}

type testHandler struct {
	onError func(*HookError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *HookError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
