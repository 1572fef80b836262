package service

import (
	"context"
	"errors"
	"time"

	"github.com/cratescan/api/internal/model"
	"github.com/cratescan/api/internal/store"
)

// Reconciler copies a coarse projection of a batch's status onto the
// scan-queue row linked to it. The queue service owns the row; this only
// rewrites status and processedAt. Safe to call redundantly.
type Reconciler struct {
	batches store.BatchStore
	queue   store.QueueStore
}

func NewReconciler(batches store.BatchStore, queue store.QueueStore) *Reconciler {
	return &Reconciler{
		batches: batches,
		queue:   queue,
	}
}

// Sync reads the current batch status and pushes it to the linked queue row.
// Batches without a queue row are a no-op: not every batch is externally
// queued. Repeated calls with an unchanged batch write nothing.
func (r *Reconciler) Sync(ctx context.Context, batchID string) error {
	job, err := r.batches.Get(ctx, batchID)
	if err != nil {
		return err
	}
	return r.SyncJob(ctx, job)
}

// SyncJob is Sync for a caller that already holds the batch record, such as
// the worker mid-run. Skipping the re-read also keeps the queue row in sync
// when the batch store itself is failing.
func (r *Reconciler) SyncJob(ctx context.Context, job *model.BatchJob) error {
	item, err := r.queue.GetByItemID(ctx, job.ID)
	if err != nil {
		if errors.Is(err, store.ErrQueueItemNotFound) {
			return nil
		}
		return err
	}

	mapped := model.QueueStatusFor(job.Status)

	changed := false
	if item.Status != mapped {
		item.Status = mapped
		changed = true
	}
	if job.Status.IsTerminal() && item.ProcessedAt == nil {
		now := time.Now()
		item.ProcessedAt = &now
		changed = true
	}
	if !changed {
		return nil
	}

	return r.queue.Save(ctx, item)
}
