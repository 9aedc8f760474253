package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupLoggerLevels(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{9, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		SetupLogger(tt.verbosity)
		if got := zerolog.GlobalLevel(); got != tt.want {
			t.Errorf("SetupLogger(%d): global level = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestGetLogger(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	SetupLogger(0)

	logger := GetLogger("integrate")
	// Must be usable without panicking; component field is attached lazily
	logger.Debug().Msg("probe")
}
