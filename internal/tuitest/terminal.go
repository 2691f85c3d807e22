package tuitest

import (
	"bytes"
	"io"
)

// query is a terminal status request and the reply a real xterm would send.
type query struct {
	request []byte
	reply   []byte
}

// xtermReplies covers what bubbletea, termenv and glamour ask before drawing: cursor
// position, foreground and background colour (BEL and ST terminated) and primary device
// attributes, which termenv sends after the colour query.
var xtermReplies = []query{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:1e1e/1e1e/2e2e\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:1e1e/1e1e/2e2e\x1b\\")},
	{[]byte("\x1b[c"), []byte("\x1b[?62;22c")},
}

const (
	pendingLimit = 256
	pendingKeep  = 64
)

// terminalResponder watches program output for status queries and writes replies
// back into the pty, so programs that block on them keep drawing.
type terminalResponder struct {
	w        io.Writer
	queries  []query
	pending  []byte
	answered int
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, queries: xtermReplies, pending: make([]byte, 0, pendingLimit)}
}

// Process feeds one chunk of output. Queries split across chunks are still found.
func (tr *terminalResponder) Process(chunk []byte) {
	tr.pending = append(tr.pending, chunk...)
	for tr.answerNext() {
	}
	if len(tr.pending) > pendingLimit {
		tr.pending = append(tr.pending[:0], tr.pending[len(tr.pending)-pendingKeep:]...)
	}
}

// answerNext replies to the earliest query in the pending bytes and drops everything
// up to its end.
func (tr *terminalResponder) answerNext() bool {
	first, at := -1, len(tr.pending)
	for i, q := range tr.queries {
		idx := bytes.Index(tr.pending, q.request)
		if idx >= 0 && idx < at {
			first, at = i, idx
		}
	}
	if first < 0 {
		return false
	}
	q := tr.queries[first]
	tr.pending = tr.pending[at+len(q.request):]
	_, _ = tr.w.Write(q.reply)
	tr.answered++
	return true
}
