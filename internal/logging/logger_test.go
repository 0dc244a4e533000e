package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("verbose"))
}

func TestComponentField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "info", "json")

	Component(l, "store").WithField("slug", "a").Info("scanned")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "store", entry["component"])
	assert.Equal(t, "a", entry["slug"])
	assert.Equal(t, "scanned", entry["msg"])
}

func TestComponentNilLogger(t *testing.T) {
	l := Component(nil, "x")
	require.NotNil(t, l)
	l.Info("dropped")
}
