package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		log     func(l *Logger)
		want    string
		dropped bool
	}{
		{"info at info", "info", func(l *Logger) { l.Info(StatusQry, "resolved %s", "pair") }, "[QRY] resolved pair", false},
		{"debug dropped at info", "info", func(l *Logger) { l.Debug(StatusData, "row %d", 1) }, "row 1", true},
		{"debug kept at debug", "debug", func(l *Logger) { l.Debug(StatusData, "row %d", 1) }, "[DATA] row 1", false},
		{"warn dropped at error", "error", func(l *Logger) { l.Warn(StatusWarn, "slow") }, "slow", true},
		{"error at warn", "warning", func(l *Logger) { l.Error(StatusErr, "boom") }, "[ERR] boom", false},
		{"unknown level falls back to info", "loud", func(l *Logger) { l.Info(StatusOK, "done") }, "[OK] done", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(tt.level, true, &buf)
			tt.log(l)
			l.Sync()

			if tt.dropped {
				assert.NotContains(t, buf.String(), tt.want)
				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestLoggerNoColorsForBuffers(t *testing.T) {
	var buf bytes.Buffer
	l := New("info", true, &buf)
	l.Warn(StatusWarn, "careful")

	assert.NotContains(t, buf.String(), "\033[")
	assert.Contains(t, buf.String(), "WARN")
}

func TestPlainAndSetOutput(t *testing.T) {
	var first, second bytes.Buffer
	l := New("info", false, &first)
	l.Plain("  %s", "indented")

	l.SetOutput(&second)
	l.Info(StatusNet, "moved")

	assert.Equal(t, "  indented\n", first.String())
	assert.True(t, strings.Contains(second.String(), "[NET] moved"))
}
