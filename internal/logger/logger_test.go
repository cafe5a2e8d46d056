package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("development environment", func(t *testing.T) {
		l := New("debug", "development")
		assert.NotNil(t, l)
		l.Debug("test debug")
	})

	t.Run("invalid log level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter("invalid", &buf)

		l.Debug("hidden")
		l.Info("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("debug", &buf).WithField("component", "analysis")

	l.Infof("classified %d hotspots", 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "analysis", entry["component"])
	assert.Equal(t, "classified 2 hotspots", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}
