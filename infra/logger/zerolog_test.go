package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologTagsComponent(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "")

	var buf bytes.Buffer
	l := newZerolog("optimiser", &buf)
	l.Infof("day %d optimised", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "optimiser", entry["component"])
	assert.Equal(t, "day 3 optimised", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestZerologDefaultLevelSuppressesDebug(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "")

	var buf bytes.Buffer
	l := newZerolog("service", &buf)
	l.Debugw("stage solved", map[string]any{"stage": "day-ahead"})
	assert.Zero(t, buf.Len())

	l.Warnf("record solve: %v", "timeout")
	assert.Contains(t, buf.String(), "record solve")
}

func TestZerologDebugLevelEmitsFields(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "debug")

	var buf bytes.Buffer
	l := newZerolog("service", &buf)
	l.Debugw("stage solved", map[string]any{"stage": "intra-day", "objective": 12.5})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "intra-day", entry["stage"])
	assert.Equal(t, 12.5, entry["objective"])
}

func TestZerologDevConsoleWriter(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("LOG_LEVEL", "")

	var buf bytes.Buffer
	l := newZerolog("main", &buf)
	l.Errorf("service close: %v", "broken pipe")

	// Console output is human-formatted, not JSON.
	out := buf.String()
	assert.Contains(t, out, "service close: broken pipe")
	assert.Error(t, json.Unmarshal(buf.Bytes(), &map[string]any{}))
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debugw("debug", nil)
	l.Infof("info")
	l.Warnf("warn")
	l.Errorf("error")
}
