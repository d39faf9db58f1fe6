package app

import (
	"bytes"
	"testing"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/diag"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestZapLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger("warn", &buf)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown 3")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "shown 4")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" INFO ", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestSetLogger(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	var buf bytes.Buffer
	SetLogger(NewZapLogger("debug", &buf))
	SetLogger(nil)

	GetLogger().Debug("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestWarningLogger(t *testing.T) {
	var buf bytes.Buffer
	var sink diag.Sink = WarningLogger{Logger: NewZapLogger("info", &buf)}

	sink.Report(diag.Warning{Code: model.CodeDanglingReference, Subject: "tasks/b.md", Message: "blocked by missing task tasks/a.md"})

	assert.Contains(t, buf.String(), "[DANGLING_REFERENCE] tasks/b.md: blocked by missing task tasks/a.md")
}
