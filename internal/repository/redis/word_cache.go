package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DailyWordCache fronts the daily_words table. Assignments are immutable,
// so a generous TTL is safe; the TTL only bounds memory, not staleness.
type DailyWordCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDailyWordCache(client *redis.Client) *DailyWordCache {
	return &DailyWordCache{
		client: client,
		ttl:    48 * time.Hour,
	}
}

func dateKey(date string) string {
	return fmt.Sprintf("daily_word:%s", date)
}

func (c *DailyWordCache) GetWordID(ctx context.Context, date string) (uint64, bool, error) {
	val, err := c.client.Get(ctx, dateKey(date)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read daily word cache: %w", err)
	}

	wordID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt daily word cache entry: %w", err)
	}

	return wordID, true, nil
}

func (c *DailyWordCache) SetWordID(ctx context.Context, date string, wordID uint64) error {
	err := c.client.Set(ctx, dateKey(date), strconv.FormatUint(wordID, 10), c.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to write daily word cache: %w", err)
	}

	return nil
}
