package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormatWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	WithComponent(log, "dashboard").WithField("window", "week").Debug("aggregated")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dashboard", entry["component"])
	assert.Equal(t, "week", entry["window"])
	assert.Equal(t, "aggregated", entry["msg"])
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := New(Config{Level: "chatty", Output: &bytes.Buffer{}})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
