// Package audio implements the voice recorder widget.
//
// Hardware access sits behind MediaDevices and RecorderFactory so the
// state machine runs the same against a browser bridge, a native capture
// backend or a test fake.
package audio

import (
	"context"
	"errors"
)

var (
	// ErrPermissionDenied is returned by MediaDevices when the user refused
	// microphone access.
	ErrPermissionDenied = errors.New("audio: microphone permission denied")
	// ErrNoDevice is returned by MediaDevices when no input device exists.
	ErrNoDevice = errors.New("audio: no audio input device")
)

// Constraints selects the requested media.
type Constraints struct {
	Audio bool
}

// MediaDevices grants access to capture hardware.
type MediaDevices interface {
	// GetUserMedia blocks until access is granted or refused.
	GetUserMedia(ctx context.Context, c Constraints) (Stream, error)
}

// Stream is a live hardware stream.
type Stream interface {
	Tracks() []Track
}

// Track is one hardware track of a stream. Stopping it releases the
// device.
type Track interface {
	Stop()
}

// RecorderState mirrors the recorder's own notion of whether it runs.
type RecorderState int

const (
	RecorderInactive RecorderState = iota
	RecorderRecording
)

// Recorder encodes a stream into chunks.
//
// Callbacks may fire on any goroutine; the widget moves them onto the UI
// loop itself.
type Recorder interface {
	Start()
	Stop()
	State() RecorderState
	// OnData registers the chunk callback.
	OnData(func(chunk []byte))
	// OnStop registers the callback fired once the recorder stopped, either
	// because Stop was called or because the stream ended.
	OnStop(func())
}

// RecorderFactory creates recorders bound to a stream.
type RecorderFactory interface {
	NewRecorder(s Stream, mimeType string) (Recorder, error)
}

// RecorderFactoryFunc adapts a function to RecorderFactory.
type RecorderFactoryFunc func(s Stream, mimeType string) (Recorder, error)

// NewRecorder implements RecorderFactory.
func (f RecorderFactoryFunc) NewRecorder(s Stream, mimeType string) (Recorder, error) {
	return f(s, mimeType)
}

// StopTracks stops every track of s.
func StopTracks(s Stream) {
	if s == nil {
		return
	}
	for _, t := range s.Tracks() {
		t.Stop()
	}
}
