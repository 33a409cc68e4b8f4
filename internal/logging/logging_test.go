package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatterFieldNames(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("info", "json", &buf)
	l.WithComponent("store").Info("opened")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "opened", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "store", entry["component"])
	assert.Contains(t, entry, "timestamp")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	l := NewWithOutput("loud", "text", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("warn", "text", &buf)
	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.WithPatient(7).Warn("shown")
	assert.Contains(t, buf.String(), "patient_id=7")
}
