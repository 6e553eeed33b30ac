package audio

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/go-drift/livehooks/pkg/bridge"
	"github.com/go-drift/livehooks/pkg/dom"
	"github.com/go-drift/livehooks/pkg/errors"
	"github.com/go-drift/livehooks/pkg/lifecycle"
	"github.com/go-drift/livehooks/pkg/loop"
	"github.com/go-drift/livehooks/pkg/resource"
)

// HookName is the host hook name of the recorder widget.
const HookName = "AudioRecorder"

// StreamKind is the tracker kind of hardware stream handles.
const StreamKind = "media-stream"

// State is the capture state.
type State int

const (
	Idle State = iota
	Requesting
	Recording
	Stopped
	Uploading
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requesting:
		return "requesting"
	case Recording:
		return "recording"
	case Stopped:
		return "stopped"
	case Uploading:
		return "uploading"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// UploadPayload is the payload of the audio_uploaded event.
type UploadPayload struct {
	AudioData string `json:"audio_data"`
}

// Widget toggles recording on click and uploads each finished recording.
type Widget struct {
	devices   MediaDevices
	recorders RecorderFactory

	ctx     *lifecycle.Context
	state   State
	stream  resource.Slot[Stream]
	rec     Recorder
	chunks  [][]byte
	size    uint64
	session uint64

	removeClick func()
}

// New returns a recorder widget using devices and recorders.
func New(devices MediaDevices, recorders RecorderFactory) *Widget {
	return &Widget{devices: devices, recorders: recorders}
}

// Factory returns a lifecycle factory creating widgets over devices and
// recorders.
func Factory(devices MediaDevices, recorders RecorderFactory) lifecycle.Factory {
	return func() lifecycle.Hook { return New(devices, recorders) }
}

// State returns the current capture state.
func (w *Widget) State() State { return w.state }

// Buffered returns the number of bytes buffered in the current session.
func (w *Widget) Buffered() uint64 { return w.size }

// Attach implements lifecycle.Hook.
func (w *Widget) Attach(ctx *lifecycle.Context) {
	w.ctx = ctx
	w.removeClick = ctx.Doc.AddEventListener(ctx.Node, dom.EventClick, func(*dom.Event) {
		w.Toggle()
	})
}

// Update implements lifecycle.Hook. The recorder has no server data.
func (w *Widget) Update(*lifecycle.Context) {}

// Detach implements lifecycle.Hook. A running recording is stopped and
// discarded without events; pending continuations become no-ops.
func (w *Widget) Detach(ctx *lifecycle.Context) {
	if w.removeClick != nil {
		w.removeClick()
		w.removeClick = nil
	}
	w.session++
	if w.rec != nil {
		if w.rec.State() == RecorderRecording {
			w.rec.Stop()
		}
		w.rec = nil
	}
	w.stream.Release()
	w.chunks, w.size = nil, 0
	if w.state != Idle {
		ctx.Logger.Debug("recorder detached mid-session", "state", w.state)
	}
	w.state = Idle
}

// Toggle starts recording when idle and stops it when recording. Other
// states ignore it.
func (w *Widget) Toggle() {
	switch w.state {
	case Idle:
		w.start()
	case Recording:
		w.stop()
	default:
		w.ctx.Logger.Debug("click ignored", "state", w.state)
	}
}

func (w *Widget) start() {
	w.state = Requesting
	w.session++
	session := w.session

	loop.Await(w.ctx.Context(), w.ctx.Loop, loop.Task[Stream]{
		Call: func(ctx context.Context) (Stream, error) {
			return w.devices.GetUserMedia(ctx, Constraints{Audio: true})
		},
		Resume: func(s Stream, err error) {
			w.acquired(session, s, err)
		},
		Discard: StopTracks,
	})
}

func (w *Widget) current(session uint64) bool {
	return session == w.session && !w.ctx.Detached()
}

func (w *Widget) acquired(session uint64, s Stream, err error) {
	if !w.current(session) {
		if err == nil {
			StopTracks(s)
		}
		return
	}
	if err != nil {
		w.fail(err)
		return
	}

	w.stream.Set(resource.New(StreamKind, s, StopTracks, w.ctx.Tracker))
	rec, err := w.recorders.NewRecorder(s, w.ctx.Config.Audio.MimeType)
	if err != nil {
		w.stream.Release()
		w.fail(err)
		return
	}

	w.rec = rec
	w.chunks, w.size = nil, 0
	rec.OnData(func(chunk []byte) {
		w.ctx.Loop.Dispatch(func() { w.buffer(session, chunk) })
	})
	rec.OnStop(func() {
		w.ctx.Loop.Dispatch(func() { w.recorderStopped(session) })
	})
	rec.Start()
	w.state = Recording
	w.push(bridge.EventStartRecording, struct{}{})
}

func (w *Widget) fail(err error) {
	w.state = Idle
	w.ctx.Doc.Alert(w.ctx.Config.Audio.DeniedMessage)
	errors.Report(&errors.HookError{
		Op:   "audio.start",
		Kind: errors.KindResourceAcquisition,
		Hook: w.ctx.Hook,
		Err:  err,
	})
}

// buffer appends chunk. Chunks still arrive after Stop until the recorder
// confirms it stopped. Reaching the size cap keeps the bytes up to the cap
// and stops the recording as if the user had.
func (w *Widget) buffer(session uint64, chunk []byte) {
	if !w.current(session) || (w.state != Recording && w.state != Stopped) {
		return
	}
	limit := w.ctx.Config.Audio.MaxBufferBytes()
	if room := limit - w.size; uint64(len(chunk)) > room {
		chunk = chunk[:room]
	}
	if len(chunk) > 0 {
		w.chunks = append(w.chunks, append([]byte(nil), chunk...))
		w.size += uint64(len(chunk))
	}
	if w.size >= limit && w.state == Recording {
		w.ctx.Logger.Warn("recording buffer full, stopping", "bytes", w.size)
		w.stop()
	}
}

// stop ends capture: the recorder is told to stop and the hardware is
// released right away. The upload starts once the recorder confirms.
func (w *Widget) stop() {
	w.state = Stopped
	if w.rec != nil && w.rec.State() == RecorderRecording {
		w.rec.Stop()
	}
	w.stream.Release()
	w.push(bridge.EventStopRecording, struct{}{})
}

func (w *Widget) recorderStopped(session uint64) {
	if !w.current(session) {
		return
	}
	switch w.state {
	case Recording:
		// The stream ended on its own.
		w.stop()
		w.upload()
	case Stopped:
		w.upload()
	}
}

func (w *Widget) upload() {
	w.state = Uploading
	w.rec = nil
	session := w.session
	blob := make([]byte, 0, w.size)
	for _, c := range w.chunks {
		blob = append(blob, c...)
	}
	w.chunks, w.size = nil, 0

	loop.Await(w.ctx.Context(), w.ctx.Loop, loop.Task[string]{
		Call: func(context.Context) (string, error) {
			return base64.StdEncoding.EncodeToString(blob), nil
		},
		Resume: func(data string, _ error) {
			if !w.current(session) {
				return
			}
			w.push(bridge.EventAudioUploaded, UploadPayload{AudioData: data})
			w.state = Idle
		},
	})
}

func (w *Widget) push(event string, payload any) {
	if err := w.ctx.Pusher.PushEvent(event, payload); err != nil {
		w.ctx.Logger.Warn("push failed", "event", event, "err", err)
	}
}
