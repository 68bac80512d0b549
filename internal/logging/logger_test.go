package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rohmanhakim/consents/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := logging.DefaultConfig()
	cfg.Format = logging.FormatJSON
	cfg.Output = &buf

	logger := logging.New(cfg)
	logger.Info().Str("page", "3").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "3", entry["page"])
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := logging.DefaultConfig()
	cfg.Format = logging.FormatJSON
	cfg.Level = zerolog.WarnLevel
	cfg.Output = &buf

	logger := logging.New(cfg)
	logger.Info().Msg("dropped")

	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"warning", zerolog.WarnLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in, zerolog.InfoLevel))
		})
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := logging.WithContext(context.Background(), logger)
	ctx = logging.WithComponent(ctx, "pagestore")
	logging.FromContext(ctx).Info().Msg("x")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pagestore", entry["component"])
}

func TestFromContext_WithoutLoggerIsDisabled(t *testing.T) {
	logger := logging.FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}
