package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"waterquality/internal/ratelimit/models"
)

// slidingWindowScript trims the window, admits cost entries if they fit and
// reports (allowed, count, oldest score). Scores are Unix microseconds.
var slidingWindowScript = redis.NewScript(`
local key    = KEYS[1]
local now    = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local cost   = tonumber(ARGV[3])
local limit  = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count + cost <= limit then
	for i = 1, cost do
		redis.call('ZADD', key, now, member .. ':' .. i)
	end
	count = count + cost
	allowed = 1
end
redis.call('PEXPIRE', key, math.ceil(window / 1000))

local oldest = now
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if first[2] then
	oldest = tonumber(first[2])
end
return {allowed, count, oldest}
`)

// RedisBucketStore implements the sliding window in a Redis sorted set so
// that limits hold across instances.
type RedisBucketStore struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRedis creates a Redis-backed bucket store.
func NewRedis(client redis.UniversalClient) *RedisBucketStore {
	return &RedisBucketStore{client: client, now: time.Now}
}

func (s *RedisBucketStore) AllowN(ctx context.Context, key string, cost int, limit int, window time.Duration) (*models.Result, error) {
	now := s.now()
	raw, err := slidingWindowScript.Run(ctx, s.client, []string{key},
		now.UnixMicro(), window.Microseconds(), cost, limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis sliding window: %w", err)
	}
	if len(raw) != 3 {
		return nil, fmt.Errorf("redis sliding window: unexpected reply length %d", len(raw))
	}

	allowed, count := raw[0] == 1, int(raw[1])
	resetAt := time.UnixMicro(raw[2]).Add(window)
	result := &models.Result{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: max(0, limit-count),
		ResetAt:   resetAt,
	}
	if !allowed {
		result.RetryAfter = retryAfter(now, resetAt)
	}
	return result, nil
}
