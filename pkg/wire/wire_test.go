package wire

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminate(t *testing.T) {
	assert.Equal(t, []byte("PONG\x00"), Terminate([]byte("PONG")))
	assert.Equal(t, []byte("PONG\x00"), Terminate([]byte("PONG\x00")))
	assert.Equal(t, []byte{0}, Terminate(nil))
	assert.Equal(t, []byte("NO_EVENT\x00"), Token(NoEvent))
}

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "PING", "PING"},
		{"terminated", "REQUEST_FRAME\x00", "REQUEST_FRAME"},
		{"trailing garbage", "PING\x00junk", "PING"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRequest([]byte(tt.in)))
		})
	}
}

func TestScannerSplitsOnTerminator(t *testing.T) {
	stream := `{"payloadType":"frame","payload":{}}` + "\x00\x00" +
		`{"payloadType":"gameplayEvent","payload":{"eventType":"player.fined"}}` + "\x00" +
		`{"payloadType":"event"`

	sc := NewScanner(strings.NewReader(stream), 1<<20)
	var msgs []string
	for sc.Scan() {
		msgs = append(msgs, sc.Text())
	}
	require.NoError(t, sc.Err())
	require.Len(t, msgs, 3)
	assert.Equal(t, `{"payloadType":"event"`, msgs[2])

	env, err := Decode([]byte(msgs[1]))
	require.NoError(t, err)
	assert.Equal(t, PayloadGameplayEvent, env.PayloadType)
	assert.JSONEq(t, `{"eventType":"player.fined"}`, string(env.Payload))
}

func TestDecodeAcceptsTerminator(t *testing.T) {
	env, err := Decode([]byte(`{"payloadType":"frame","payload":{"paused":true}}` + "\x00"))
	require.NoError(t, err)
	assert.Equal(t, PayloadFrame, env.PayloadType)

	_, err = Decode(bytes.Repeat([]byte("x"), 4))
	assert.Error(t, err)
}
