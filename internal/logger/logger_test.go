package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroLogger_SafeLogsRedactsURLs(t *testing.T) {
	t.Setenv("SAFE_LOGS", "true")
	var buf bytes.Buffer
	log := New(&buf)

	log.Logf("fetching %s", "https://feeds.example.com/tu.pb?key=secret")

	assert.Contains(t, buf.String(), "[redacted url]")
	assert.NotContains(t, buf.String(), "secret")
}

func TestZeroLogger_DebugIsGated(t *testing.T) {
	t.Setenv("DEBUG", "")
	var buf bytes.Buffer
	log := New(&buf)

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	t.Setenv("DEBUG", "true")
	log = New(&buf)
	log.With("refresh").Debugf("visible %d", 1)
	assert.Contains(t, buf.String(), "visible 1")
	assert.Contains(t, buf.String(), "refresh")
}
