package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushEncodesPayload(t *testing.T) {
	ch := NewChannel()
	rec := &Recorder{}
	ch.Listen(rec.Record)

	require.NoError(t, ch.PushEvent(EventAudioUploaded, map[string]string{"audio_data": "AAEC"}))
	require.NoError(t, ch.PushEvent(EventStartRecording, nil))

	msgs := rec.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, EventAudioUploaded, msgs[0].Event)

	var payload struct {
		AudioData string `json:"audio_data"`
	}
	require.NoError(t, msgs[0].Decode(&payload))
	assert.Equal(t, "AAEC", payload.AudioData)
	assert.JSONEq(t, `{}`, string(msgs[1].Payload))
}

func TestScopedPusherTagsMessages(t *testing.T) {
	ch := NewChannel()
	rec := &Recorder{}
	ch.Listen(rec.Record)

	p := ch.Scoped("AudioRecorder", "abc")
	require.NoError(t, p.PushEvent(EventStopRecording, struct{}{}))

	msgs := rec.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "AudioRecorder", msgs[0].Hook)
	assert.Equal(t, "abc", msgs[0].Instance)
}

func TestCancelStopsDelivery(t *testing.T) {
	ch := NewChannel()
	rec := &Recorder{}
	sub := ch.Listen(rec.Record)
	sub.Cancel()
	sub.Cancel()

	require.NoError(t, ch.PushEvent(EventStartRecording, nil))
	assert.Empty(t, rec.Messages())
}

func TestClosedChannelRejectsPush(t *testing.T) {
	ch := NewChannel()
	rec := &Recorder{}
	ch.Listen(rec.Record)
	ch.Close()

	assert.ErrorIs(t, ch.PushEvent(EventStartRecording, nil), ErrClosed)
	assert.Empty(t, rec.Messages())
}

func TestRecorderCounts(t *testing.T) {
	rec := &Recorder{}
	rec.Record(Message{Event: EventStartRecording})
	rec.Record(Message{Event: EventStopRecording})
	rec.Record(Message{Event: EventStartRecording})

	assert.Equal(t, 2, rec.Count(EventStartRecording))
	assert.Equal(t, []string{EventStartRecording, EventStopRecording, EventStartRecording}, rec.Events())
}
