package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/core"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/domain/model"
	apperrors "github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/errors"
)

const jobKeyPrefix = "masumi:job:"

// maxUpdateRetries bounds WATCH retries when a concurrent writer touches the
// same key. With the single-writer-per-job discipline this should never be
// exercised; the bound is defensive.
const maxUpdateRetries = 5

// RedisJobStore implements core.JobStore on Redis. It is the substitutable
// backing store the JobStore port was designed for: the orchestrator contract
// is unchanged, only the persistence moves out of process.
//
// Updates use WATCH-based optimistic transactions so the atomic
// precondition-checked transition semantics of the port hold even if another
// process writes the same key.
type RedisJobStore struct {
	client redis.UniversalClient
}

// NewRedisJobStore creates a RedisJobStore with the given Redis client.
func NewRedisJobStore(client redis.UniversalClient) *RedisJobStore {
	return &RedisJobStore{client: client}
}

func jobKey(id string) string {
	return jobKeyPrefix + id
}

// Create inserts a new job, failing with a conflict error if the key exists.
func (s *RedisJobStore) Create(ctx context.Context, job *model.Job) error {
	if job == nil || job.ID == "" {
		return apperrors.Validation("job id is required")
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	// SET with NX is atomic; jobs are retained for the process lifetime
	// policy, so no TTL is applied.
	ok, err := s.client.SetNX(ctx, jobKey(job.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis SET NX: %w", err)
	}
	if !ok {
		return apperrors.Conflictf("job %s already exists", job.ID)
	}
	return nil
}

// Get returns a snapshot of the job, or a not-found error.
func (s *RedisJobStore) Get(ctx context.Context, id string) (*model.Job, error) {
	data, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFoundf("job %s not found", id)
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

// Update applies mutate atomically via WATCH. A mutator rejection aborts the
// transaction and is returned unchanged, leaving the stored job as it was.
func (s *RedisJobStore) Update(ctx context.Context, id string, mutate core.JobMutator) (*model.Job, error) {
	key := jobKey(id)
	var updated *model.Job

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return apperrors.NotFoundf("job %s not found", id)
			}
			return fmt.Errorf("redis get: %w", err)
		}

		var job model.Job
		if err := json.Unmarshal(data, &job); err != nil {
			return fmt.Errorf("decode job %s: %w", id, err)
		}

		if err := mutate(&job); err != nil {
			return err
		}

		next, err := json.Marshal(&job)
		if err != nil {
			return fmt.Errorf("encode job %s: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &job
		return nil
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// Key changed under us; re-read and retry.
			continue
		}
		return nil, err
	}
	return nil, apperrors.Internal(fmt.Sprintf("job %s: update contention not resolved after %d attempts", id, maxUpdateRetries))
}
