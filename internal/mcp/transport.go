package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// errBadFrame marks a line that arrived intact but did not decode as a
// JSON-RPC message. The serve loop drops these and keeps reading.
var errBadFrame = errors.New("malformed frame")

// StdioTransport frames JSON-RPC messages over a byte stream, one
// message per line. Reads assume a single reader; writes are serialized
// so concurrent handlers cannot interleave frames.
type StdioTransport struct {
	r       *bufio.Reader
	rc      io.Closer
	w       io.Writer
	writeMu sync.Mutex
}

// NewStdioTransport wraps a reader and writer, typically os.Stdin and
// os.Stdout. If the reader is closeable, Close closes it to unblock a
// pending read.
func NewStdioTransport(r io.Reader, w io.Writer) *StdioTransport {
	t := &StdioTransport{r: bufio.NewReader(r), w: w}
	if c, ok := r.(io.Closer); ok {
		t.rc = c
	}
	return t
}

// ReadMessage blocks until one full message arrives. Blank lines are
// skipped; lines that fail to decode return an error wrapping
// errBadFrame so the caller can keep the stream alive.
func (t *StdioTransport) ReadMessage() (*Message, error) {
	for {
		line, err := t.r.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err != nil {
				return nil, err
			}
			continue
		}

		var msg Message
		if uerr := json.Unmarshal(line, &msg); uerr != nil {
			return nil, fmt.Errorf("%w: %v", errBadFrame, uerr)
		}
		return &msg, nil
	}
}

// WriteMessage encodes one message and writes it as a single line.
func (t *StdioTransport) WriteMessage(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_, err = t.w.Write(append(data, '\n'))
	return err
}

// Close closes the read side if it can be closed, unblocking a pending
// ReadMessage.
func (t *StdioTransport) Close() error {
	if t.rc != nil {
		return t.rc.Close()
	}
	return nil
}
