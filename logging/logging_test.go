package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"square-mapper/logging"
)

func TestRedirect(t *testing.T) {
	var buf bytes.Buffer
	reset := logging.Redirect(&buf)

	logging.Info("map saved", "name", "Map")
	reset()
	logging.Info("not captured")

	out := buf.String()
	assert.Contains(t, out, "msg=\"map saved\"")
	assert.Contains(t, out, "name=Map")
	assert.NotContains(t, out, "not captured")
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	defer logging.Redirect(&buf)()
	defer logging.SetLevel(slog.LevelInfo)

	logging.SetLevel(slog.LevelWarn)
	logging.Info("hidden")
	logging.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("chatty"))
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	defer logging.Redirect(&buf)()

	logging.With("client", "abc").Info("connected")

	assert.Contains(t, buf.String(), "msg=connected")
	assert.Contains(t, buf.String(), "client=abc")
}
