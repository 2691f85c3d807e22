package tuitest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[H\x1b[1mTrending Notes\x1b[0m   \r\n\x1b[2J\x1b[HStarred\r\n\r\n")

	frames := parseFrames(raw)

	require.Len(t, frames, 2)
	assert.Equal(t, "Trending Notes", frames[0].Plain)
	assert.Equal(t, "Starred", frames[1].Plain)
	assert.Equal(t, 1, frames[1].Index)
}

func TestRecordingLookups(t *testing.T) {
	rec := &Recording{Frames: []Frame{
		{Index: 0, Plain: "Recommended For You"},
		{Index: 1, Plain: "Results for \"dbms\" (2)"},
		{Index: 2, Plain: "Recommended For You"},
	}}

	frame, ok := rec.FrameContaining("Results for")
	require.True(t, ok)
	assert.Equal(t, 1, frame.Index)

	frame, ok = rec.FrameContaining("Recommended")
	require.True(t, ok)
	assert.Equal(t, 2, frame.Index, "latest match wins")

	assert.False(t, rec.Contains("Upload Note"))
	var empty *Recording
	assert.False(t, empty.Contains("anything"))

	last, ok := rec.FinalFrame()
	require.True(t, ok)
	assert.Equal(t, 2, last.Index)
}

func TestTerminalResponderAnswersCursorQuery(t *testing.T) {
	var out bytes.Buffer
	responder := newTerminalResponder(&out)

	responder.Process([]byte("hello\x1b[6"))
	responder.Process([]byte("nworld"))

	assert.Equal(t, "\x1b[1;1R", out.String())
}

func TestTerminalResponderRepliesInOrder(t *testing.T) {
	var out bytes.Buffer
	responder := newTerminalResponder(&out)

	responder.Process([]byte("\x1b]11;?\x07\x1b[cdraw\x1b[6n"))

	assert.Equal(t, "\x1b]11;rgb:1e1e/1e1e/2e2e\x07\x1b[?62;22c\x1b[1;1R", out.String())
	assert.Equal(t, 3, responder.answered)
	assert.Empty(t, responder.pending)
}

func TestConfigExitAllowed(t *testing.T) {
	cfg := Config{AllowInterrupt: true}.withDefaults()
	assert.True(t, cfg.exitAllowed(nil))
	assert.True(t, cfg.exitAllowed(errors.New("signal: interrupt")))
	assert.False(t, Config{}.exitAllowed(errors.New("signal: interrupt")))
	assert.Equal(t, defaultWidth, cfg.Width)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
}
