package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelInfo)

	log.Info("write failed", "error", errors.New("disk full"))

	out := buf.String()
	assert.Contains(t, out, "err=\"disk full\"")
	assert.NotContains(t, out, "error=")
}

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, LevelFor(false))
	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log = NewWithWriter(&buf, LevelFor(true))
	log.Debug("shown", "band", 1)
	assert.Contains(t, buf.String(), "msg=shown band=1")
}
