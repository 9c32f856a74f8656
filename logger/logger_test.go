package logger

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogUsableBeforeInit(t *testing.T) {
	if Log == nil {
		t.Fatal("Log should be set before InitLogger")
	}
	Log.Infow("ignored", "key", "value")
	Sync()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
		wantErr  bool
	}{
		{"", zap.InfoLevel, false},
		{"debug", zap.DebugLevel, false},
		{"WARN", zap.WarnLevel, false},
		{"loud", zap.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel(%q) error = %v", tt.input, err)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewFormatsAndFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(zapcore.AddSync(&buf), zap.WarnLevel).Sugar()

	log.Infow("hidden")
	log.Warnw("Cached mod", zap.String("mod", "UMM:BubbleBuffs"))
	_ = log.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("entries below the level should be dropped")
	}
	for _, want := range []string{"WARN", "Cached mod", `"mod": "UMM:BubbleBuffs"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
