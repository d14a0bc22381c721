package iotaa

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriterLogger_FormatsLine(t *testing.T) {
	var buf bytes.Buffer
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	l := &WriterLogger{W: &buf, MinLevel: LevelInfo, Now: func() time.Time { return fixed }}

	l.Log(LevelInfo, "mytask", "ready")

	assert.Equal(t, "[2024-01-02T03:04:05Z] INFO   mytask: ready\n", buf.String())
}

func TestWriterLogger_FiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, LevelWarn)

	l.Log(LevelDebug, "t", "debug detail")
	l.Log(LevelInfo, "t", "info detail")
	assert.Empty(t, buf.String())

	l.Log(LevelWarn, "t", "warn detail")
	assert.NotEmpty(t, buf.String())
}

func TestFormatSnapshot_SortsAndMarksReadiness(t *testing.T) {
	snap := map[string]bool{"z": true, "a": false}
	assert.Equal(t, "✖ a, ✔ z", formatSnapshot(snap))
}

func TestFormatSnapshot_Empty(t *testing.T) {
	assert.Equal(t, "(none)", formatSnapshot(nil))
}

func TestNopLogger_DiscardsEverything(t *testing.T) {
	var l Logger = nopLogger{}
	assert.NotPanics(t, func() { l.Log(LevelError, "t", "m") })
}
