package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/lib/logger/sl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_ProdWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(EnvProd, &buf)

	log.Debug("hidden")
	log.Info("booked", sl.Err(errors.New("boom")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "booked", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestSetup_DevEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	Setup(EnvDev, &buf).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestSetup_LocalIsPretty(t *testing.T) {
	var buf bytes.Buffer
	Setup(EnvLocal, &buf).With("op", "test").Info("hello")
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, `"op": "test"`)
}
