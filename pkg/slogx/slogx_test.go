package slogx_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/meishilabs/meishi/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelAndDefaults(t *testing.T) {
	logger := slogx.New(slogx.Config{Level: "warn", Format: "text"})
	require.NotNil(t, logger)

	ctx := context.Background()
	require.False(t, logger.Enabled(ctx, slog.LevelInfo))
	require.True(t, logger.Enabled(ctx, slog.LevelWarn))

	t.Run("unknown level falls back to info", func(t *testing.T) {
		logger := slogx.New(slogx.Config{Level: "verbose"})
		require.True(t, logger.Enabled(ctx, slog.LevelInfo))
		require.False(t, logger.Enabled(ctx, slog.LevelDebug))
	})
}

func TestFromContext(t *testing.T) {
	base := slogx.New(slogx.Config{Level: "error"})

	t.Run("falls back to default", func(t *testing.T) {
		require.Equal(t, slog.Default(), slogx.FromContext(context.Background()))
	})

	t.Run("returns stored logger", func(t *testing.T) {
		scoped := base.With("k", "v")
		ctx := slogx.WithContext(context.Background(), scoped)
		require.Equal(t, scoped, slogx.FromContext(ctx))
	})

	t.Run("request id survives the chain", func(t *testing.T) {
		ctx := slogx.WithRequestID(context.Background(), "r1")
		require.NotEqual(t, slog.Default(), slogx.FromContext(ctx))
	})
}
