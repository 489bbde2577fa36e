package logging

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

func TestSetup_FileOnly_NoConsole(t *testing.T) {
	var fileBuf, console bytes.Buffer
	m := NewSlogManager()
	require.NoError(t, m.Setup(&fileBuf, "info", nil, WithConsole(&console)))
	m.Logger().Info("hello file")

	assert.Contains(t, fileBuf.String(), "hello file")
	assert.Empty(t, console.String(), "nothing should reach the console when a file is given")
}

func TestSetup_NoFile_WritesToConsole(t *testing.T) {
	var console bytes.Buffer
	m := NewSlogManager()
	require.NoError(t, m.Setup(nil, "info", nil, WithConsole(&console)))
	m.Logger().Info("hello console")

	assert.Contains(t, console.String(), "hello console")
}

func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	require.NoError(t, m.Setup(&buf, "debug", nil))

	m.Logger().Debug("debug msg")
	m.Logger().Info("info msg")

	output := buf.String()
	assert.Contains(t, output, "debug msg")
	assert.Contains(t, output, "info msg")
}

func TestSetup_InfoLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	require.NoError(t, m.Setup(&buf, "info", nil))

	m.Logger().Debug("should be filtered")
	m.Logger().Info("should appear")

	output := buf.String()
	assert.NotContains(t, output, "should be filtered")
	assert.Contains(t, output, "should appear")
}

func TestSetup_TimestampsAreRFC3339UTC(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	require.NoError(t, m.Setup(&buf, "info", nil))

	assert.Regexp(t, `time=\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z `, buf.String())
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	m := NewSlogManager()

	require.NoError(t, m.Setup(&buf1, "info", nil))
	m.Logger().Info("first")

	require.NoError(t, m.Setup(&buf2, "info", nil))
	m.Logger().Info("second")

	assert.Contains(t, buf1.String(), "first")
	assert.NotContains(t, buf1.String(), "second", "old file should not receive new logs")
	assert.Contains(t, buf2.String(), "second")
}

func TestSetup_WithContext(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	subscribers := 0
	require.NoError(t, m.Setup(&buf, "info", nil, WithContext(func() []slog.Attr {
		return []slog.Attr{slog.Int("subscribers", subscribers)}
	})))

	subscribers = 3
	m.Logger().Info("tick")

	assert.Contains(t, buf.String(), "msg=tick subscribers=3")
}

func TestSetup_WithGraylog(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	var buf bytes.Buffer
	m := NewSlogManager()
	require.NoError(t, m.Setup(&buf, "info", nil, WithGraylog(pc.LocalAddr().String())))
	t.Cleanup(func() { _ = m.Close(context.Background()) })

	m.Logger().Info("to graylog")

	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := pc.ReadFrom(make([]byte, 8192))
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestSetup_GraylogBadAddress(t *testing.T) {
	m := NewSlogManager()
	err := m.Setup(nil, "info", nil, WithGraylog("not an address"), WithConsole(&bytes.Buffer{}))
	assert.Error(t, err)
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	assert.Equal(t, slog.Default(), m.Logger())
}

func TestFlush_NilProvider(t *testing.T) {
	m := NewSlogManager()
	assert.NoError(t, m.Flush(context.Background()))
	assert.NoError(t, m.Close(context.Background()))
}

func TestFlush_WithProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	m := NewSlogManager()

	var buf bytes.Buffer
	require.NoError(t, m.Setup(&buf, "info", provider))
	m.Logger().Info("otel integrated")

	assert.Contains(t, buf.String(), "otel integrated")
	assert.NoError(t, m.Flush(context.Background()))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}
