package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cratescan/api/internal/model"
)

// ErrQueueItemNotFound is returned when no queue row exists for an item id.
// Not every batch is externally queued, so callers treat this as expected.
var ErrQueueItemNotFound = errors.New("queue item not found")

// QueueStore reads and rewrites scan-queue rows. The rows are created and
// deleted by the platform's scan-queue service; this store only updates them.
type QueueStore interface {
	GetByItemID(ctx context.Context, itemID string) (*model.QueueItem, error)
	Save(ctx context.Context, item *model.QueueItem) error
}

// RedisQueueStore accesses scan-queue rows stored as JSON blobs in Redis,
// keyed by the item id the queue service reserved.
type RedisQueueStore struct {
	redis *redis.Client
}

func NewRedisQueueStore(redisClient *redis.Client) *RedisQueueStore {
	return &RedisQueueStore{redis: redisClient}
}

func (s *RedisQueueStore) GetByItemID(ctx context.Context, itemID string) (*model.QueueItem, error) {
	data, err := s.redis.Get(ctx, queueItemKey(itemID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrQueueItemNotFound
		}
		return nil, err
	}

	var item model.QueueItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue item: %w", err)
	}

	return &item, nil
}

// Save rewrites the row in place. The row's TTL belongs to the queue service,
// so the existing expiry is kept.
func (s *RedisQueueStore) Save(ctx context.Context, item *model.QueueItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal queue item: %w", err)
	}
	return s.redis.Set(ctx, queueItemKey(item.ItemID), data, redis.KeepTTL).Err()
}

func queueItemKey(itemID string) string {
	return fmt.Sprintf("scanqueue:item:%s", itemID)
}
