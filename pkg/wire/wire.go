// Package wire holds the on-the-wire representation shared by the server and
// its consumers: the payload envelope, NUL framing and the datagram tokens.
package wire

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Payload types carried in Envelope.PayloadType.
const (
	PayloadFrame         = "frame"
	PayloadEvent         = "event"
	PayloadGameplayEvent = "gameplayEvent"
)

// Terminator ends every message on a byte stream and every datagram reply.
const Terminator byte = 0

// Datagram request and reply tokens.
const (
	RequestFrame   = "REQUEST_FRAME"
	RequestEvent   = "REQUEST_EVENT"
	Ping           = "PING"
	Pong           = "PONG"
	NoEvent        = "NO_EVENT"
	UnknownRequest = "UNKNOWN_REQUEST"
	FrameTooLarge  = "FRAME_TOO_LARGE"
)

// MaxDatagram is the largest payload a single UDP reply can carry.
const MaxDatagram = 65507

// Envelope is the self-describing wrapper around every payload.
type Envelope struct {
	PayloadType string          `json:"payloadType"`
	Payload     json.RawMessage `json:"payload"`
}

// Decode parses one message, with or without its trailing terminator.
func Decode(msg []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(bytes.TrimRight(msg, "\x00"), &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return env, nil
}

// Terminate returns msg with a single trailing terminator.
func Terminate(msg []byte) []byte {
	if n := len(msg); n > 0 && msg[n-1] == Terminator {
		return msg
	}
	out := make([]byte, len(msg)+1)
	copy(out, msg)
	return out
}

// Token renders a reply token as sent on the wire.
func Token(tok string) []byte {
	return Terminate([]byte(tok))
}

// ParseRequest extracts the request token from a datagram. Anything from the
// first terminator on is ignored.
func ParseRequest(b []byte) string {
	if i := bytes.IndexByte(b, Terminator); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// SplitMessages is a bufio.SplitFunc for a NUL-framed stream. Empty messages
// are skipped.
func SplitMessages(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && data[start] == Terminator {
		start++
	}
	if i := bytes.IndexByte(data[start:], Terminator); i >= 0 {
		return start + i + 1, data[start : start+i], nil
	}
	if atEOF {
		if start < len(data) {
			return len(data), data[start:], nil
		}
		return len(data), nil, nil
	}
	return start, nil, nil
}

// NewScanner wraps r in a scanner yielding one message per Scan. The buffer
// grows up to maxSize bytes.
func NewScanner(r io.Reader, maxSize int) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxSize)
	sc.Split(SplitMessages)
	return sc
}
