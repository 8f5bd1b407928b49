package data

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/domain/model"
	apperrors "github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/errors"
)

func newStoredJob(t *testing.T, store *MemoryJobStore) *model.Job {
	t.Helper()
	job := model.NewJob("buyer@example.com", model.InputData{{Key: "csv_url", Value: "https://x/y.csv"}})
	job.PaymentAddr = "addr_test1..."
	job.Amount = "10000000"
	job.Unit = "lovelace"
	job.BlockchainID = "blk-1"
	require.NoError(t, store.Create(context.Background(), job))
	return job
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()
	job := newStoredJob(t, store)

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job, got)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreCreateDuplicate(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()
	job := newStoredJob(t, store)

	err := store.Create(ctx, job)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestMemoryStoreCreateRequiresID(t *testing.T) {
	store := NewMemoryJobStore()
	err := store.Create(context.Background(), &model.Job{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	store := NewMemoryJobStore()
	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMemoryStoreGetReturnsSnapshot(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()
	job := newStoredJob(t, store)

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	got.Status = model.JobStatusCompleted
	got.InputData[0].Value = "mutated"

	// The caller's mutations never leak into the store.
	fresh, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusAwaitingPayment, fresh.Status)
	assert.Equal(t, "https://x/y.csv", fresh.InputData[0].Value)
}

func TestMemoryStoreUpdateAppliesTransition(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()
	job := newStoredJob(t, store)

	updated, err := store.Update(ctx, job.ID, func(j *model.Job) error {
		return j.Transition(model.JobStatusPaymentConfirmed)
	})
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPaymentConfirmed, updated.Status)

	fresh, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPaymentConfirmed, fresh.Status)
	assert.True(t, fresh.UpdatedAt.After(job.CreatedAt) || fresh.UpdatedAt.Equal(job.CreatedAt))
}

func TestMemoryStoreUpdateRejectionKeepsPriorState(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()
	job := newStoredJob(t, store)

	boom := errors.New("stale state")
	_, err := store.Update(ctx, job.ID, func(j *model.Job) error {
		// Mutate before failing: the store must discard this copy.
		j.Status = model.JobStatusCompleted
		j.Result = json.RawMessage(`{"leak":true}`)
		return boom
	})
	require.ErrorIs(t, err, boom)

	fresh, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusAwaitingPayment, fresh.Status)
	assert.Empty(t, fresh.Result)
}

func TestMemoryStoreUpdateNotFound(t *testing.T) {
	store := NewMemoryJobStore()
	_, err := store.Update(context.Background(), "missing", func(j *model.Job) error { return nil })
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMemoryStoreInvalidTransitionRejected(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()
	job := newStoredJob(t, store)

	_, err := store.Update(ctx, job.ID, func(j *model.Job) error {
		return j.Transition(model.JobStatusCompleted)
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))

	fresh, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusAwaitingPayment, fresh.Status)
}

// Concurrent readers must always observe a consistent snapshot: either the
// pre-transition job (no result) or the post-transition job (completed with
// result), never a mix.
func TestMemoryStoreNoTornReads(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()
	job := newStoredJob(t, store)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			got, err := store.Get(ctx, job.ID)
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			completed := got.Status == model.JobStatusCompleted
			hasResult := len(got.Result) > 0
			if completed != hasResult {
				t.Errorf("torn read: status=%s result=%q", got.Status, got.Result)
				return
			}
		}
	}()

	_, err := store.Update(ctx, job.ID, func(j *model.Job) error {
		return j.Transition(model.JobStatusPaymentConfirmed)
	})
	require.NoError(t, err)
	_, err = store.Update(ctx, job.ID, func(j *model.Job) error {
		return j.Transition(model.JobStatusDispatching)
	})
	require.NoError(t, err)
	_, err = store.Update(ctx, job.ID, func(j *model.Job) error {
		return j.Complete(json.RawMessage(`{"filename":"out.csv"}`))
	})
	require.NoError(t, err)

	close(stop)
	wg.Wait()
}

func TestMemoryStoreConcurrentCreates(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()

	const n = 50
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			job := model.NewJob("buyer", model.InputData{{Key: "k", Value: "v"}})
			return store.Create(ctx, job)
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, n, store.Len())
}
