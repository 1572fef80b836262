package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cratescan/api/internal/model"
)

// ErrBatchNotFound is returned when no batch record exists for an id.
var ErrBatchNotFound = errors.New("batch not found")

// BatchStore persists the detailed batch record. Each batch's worker is the
// only writer for its record; every Save replaces the whole record atomically.
type BatchStore interface {
	Save(ctx context.Context, job *model.BatchJob) error
	Get(ctx context.Context, batchID string) (*model.BatchJob, error)
}

const batchRetention = 7 * 24 * time.Hour

// RedisBatchStore stores batch records as JSON blobs in Redis
type RedisBatchStore struct {
	redis *redis.Client
}

func NewRedisBatchStore(redisClient *redis.Client) *RedisBatchStore {
	return &RedisBatchStore{redis: redisClient}
}

func (s *RedisBatchStore) Save(ctx context.Context, job *model.BatchJob) error {
	job.UpdatedAt = time.Now()
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}
	return s.redis.Set(ctx, batchKey(job.ID), data, batchRetention).Err()
}

func (s *RedisBatchStore) Get(ctx context.Context, batchID string) (*model.BatchJob, error) {
	data, err := s.redis.Get(ctx, batchKey(batchID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}

	var job model.BatchJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal batch: %w", err)
	}

	return &job, nil
}

func batchKey(batchID string) string {
	return fmt.Sprintf("batch:%s", batchID)
}
