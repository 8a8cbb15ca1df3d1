package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterquality/internal/platform/config"
	"waterquality/pkg/platform/sentinel"
)

func TestNew(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		client, err := New(context.Background(), config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("malformed url", func(t *testing.T) {
		_, err := New(context.Background(), config.RedisConfig{URL: "mysql://nope"})
		assert.ErrorContains(t, err, "parse redis URL")
		assert.NotErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("unreachable server", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_, err := New(ctx, config.RedisConfig{
			URL:         "redis://127.0.0.1:1/0",
			DialTimeout: 200 * time.Millisecond,
		})
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})
}
