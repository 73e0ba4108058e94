package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grouptaskmanager/taskflow/internal/config"
)

func TestSetupLevels(t *testing.T) {
	cases := []struct {
		configured string
		enabled    slog.Level
		disabled   slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"nonsense", slog.LevelInfo, slog.LevelDebug},
	}

	for _, tc := range cases {
		log := Setup(config.ServerConfig{LogLevel: tc.configured})
		require.NotNil(t, log)
		assert.True(t, log.Enabled(context.Background(), tc.enabled),
			"level %s should enable %v", tc.configured, tc.enabled)
		assert.False(t, log.Enabled(context.Background(), tc.disabled),
			"level %s should not enable %v", tc.configured, tc.disabled)
	}
}

func TestContextRoundTrip(t *testing.T) {
	base := slog.New(slog.NewTextHandler(os.Stderr, nil))

	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithLogger(context.Background(), base)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, base, got)

	assert.Same(t, base, FromContextOrDefault(ctx, nil))

	fallback := slog.Default()
	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
}
