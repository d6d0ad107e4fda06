package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew_DefaultSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("opening database", zap.String("path", "x.db"))
	logger.Info("informational")
	assert.Empty(t, buf.String())

	logger.Warn("commit failed")
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "commit failed")
}

func TestNew_VerboseEmitsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)

	logger.Debug("opening database", zap.String("path", "x.db"))
	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "names")
	assert.Contains(t, out, "x.db")
}
