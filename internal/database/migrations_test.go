package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/propdesk/internal/logger"
)

type stubVersioner struct {
	version uint
	dirty   bool
	err     error
}

func (s stubVersioner) Version() (uint, bool, error) {
	return s.version, s.dirty, s.err
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogAppliedVersion(t *testing.T) {
	var buf bytes.Buffer
	logAppliedVersion(logger.NewWithWriter("production", &buf), stubVersioner{version: 1})

	entry := lastEntry(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Applied migrations", entry["message"])
	assert.Equal(t, float64(1), entry["version"])
	assert.Equal(t, false, entry["dirty"])
}

func TestLogAppliedVersion_ReadError(t *testing.T) {
	var buf bytes.Buffer
	logAppliedVersion(logger.NewWithWriter("production", &buf), stubVersioner{err: errors.New("no version table")})

	entry := lastEntry(t, &buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "Failed to read migration version", entry["message"])
	assert.Equal(t, "no version table", entry["error"])
	assert.NotContains(t, entry, "version")
}
