package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestScopedValues(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, ClientIP(ctx))
	assert.False(t, IsBot(ctx))

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx = WithRequestID(ctx, "req-42")
	ctx = WithTime(ctx, fixed)
	ctx = WithClientMetadata(ctx, "203.0.113.9", "curl/8.0", true)

	assert.Equal(t, "req-42", RequestID(ctx))
	assert.Equal(t, fixed, Now(ctx))
	assert.Equal(t, "203.0.113.9", ClientIP(ctx))
	assert.Equal(t, "curl/8.0", UserAgent(ctx))
	assert.True(t, IsBot(ctx))
}
