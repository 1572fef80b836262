package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cratescan/api/internal/client"
	"github.com/cratescan/api/internal/model"
	"github.com/cratescan/api/internal/service"
	"github.com/cratescan/api/internal/store"
	"github.com/cratescan/api/internal/websocket"
)

var errNoArtifact = errors.New("no usable artifact returned")

// BatchWorker executes one merch batch: the fixed stage list in order, each
// stage's failure caught at its boundary so the rest of the pipeline still
// runs. It is the only writer of the batch record for the batch's lifetime.
type BatchWorker struct {
	batches    store.BatchStore
	reconciler *service.Reconciler
	art        client.ArtGenerator
	products   client.ProductRegistrar
	hub        *websocket.Hub
	pipeline   Pipeline
	sleep      func(time.Duration)
}

// NewBatchWorker creates a batch worker over the default pipeline
func NewBatchWorker(batches store.BatchStore, reconciler *service.Reconciler, art client.ArtGenerator, products client.ProductRegistrar, hub *websocket.Hub) *BatchWorker {
	return &BatchWorker{
		batches:    batches,
		reconciler: reconciler,
		art:        art,
		products:   products,
		hub:        hub,
		pipeline:   DefaultPipeline(),
		sleep:      time.Sleep,
	}
}

// ProcessTask handles one merch batch task
func (w *BatchWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.BatchTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	batchID := payload.BatchID
	log.Printf("Starting merch batch: %s", batchID)

	job, err := w.batches.Get(ctx, batchID)
	if err != nil {
		w.fatal(ctx, batchID, payload.Input, fmt.Sprintf("unable to load batch record: %v", err))
		return err
	}
	if job.Status.IsTerminal() {
		log.Printf("Merch batch %s already terminal (%s), skipping", batchID, job.Status)
		return nil
	}

	for _, stage := range w.pipeline.Stages {
		job.CurrentStage = stage.Description
		if err := w.persist(ctx, job); err != nil {
			w.fail(ctx, job, fmt.Sprintf("unable to write batch record: %v", err))
			return err
		}

		output, stageErr := w.runStage(ctx, stage, job.Input)
		if len(output.Artifacts) > 0 || len(output.ProductIDs) > 0 {
			job.Results.Stages[stage.Name] = output
		}
		if stageErr != nil {
			job.Results.Errors = append(job.Results.Errors, model.StageError{
				Stage: stage.Name,
				Error: stageErr.Error(),
			})
			log.Printf("Merch batch %s stage %s failed: %v", batchID, stage.Name, stageErr)
		}

		job.CompletedUnits += stage.Units
		if err := w.persist(ctx, job); err != nil {
			w.fail(ctx, job, fmt.Sprintf("unable to write batch record: %v", err))
			return err
		}
	}

	now := time.Now()
	job.CompletedAt = &now
	if len(job.Results.Errors) > 0 {
		job.Status = model.BatchStatusCompletedWithErrors
		job.CurrentStage = "Finished with errors"
	} else {
		job.Status = model.BatchStatusCompleted
		job.CurrentStage = "All merchandise ready"
	}
	if err := w.persist(ctx, job); err != nil {
		w.fail(ctx, job, fmt.Sprintf("unable to write batch record: %v", err))
		return err
	}
	w.hub.BroadcastComplete(batchID, job.Status, job.Results)

	log.Printf("Merch batch %s finished: %s (%d/%d units)", batchID, job.Status, job.CompletedUnits, job.TotalUnits)
	return nil
}

// runStage executes one stage and reports its partial result. Gateway and
// registrar errors are caught here; they never propagate to the caller.
// A stage that fails at generation skips registration entirely, while a
// registration failure still keeps the generated artifacts.
func (w *BatchWorker) runStage(ctx context.Context, stage StageDef, input model.BatchInput) (model.StageOutput, error) {
	artifacts, err := w.generate(ctx, stage, input)
	if err != nil {
		return model.StageOutput{}, err
	}

	output := model.StageOutput{Artifacts: artifacts}
	if stage.Register == nil {
		return output, nil
	}

	ids, err := stage.Register(ctx, w.products, artifacts, input)
	if err != nil {
		return output, fmt.Errorf("product registration failed: %w", err)
	}
	output.ProductIDs = ids
	return output, nil
}

// generate runs the stage's gateway call under its retry policy. An error or
// an empty artifact list both count as a failed attempt. A successful retry
// is indistinguishable from a first-attempt success.
func (w *BatchWorker) generate(ctx context.Context, stage StageDef, input model.BatchInput) ([]model.Artifact, error) {
	attempts := 1
	var backoff time.Duration
	if stage.Retry != nil {
		attempts = stage.Retry.MaxAttempts
		backoff = stage.Retry.Backoff
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			w.sleep(backoff)
		}

		artifacts, err := stage.Generate(ctx, w.art, input)
		switch {
		case err != nil:
			lastErr = err
		case len(artifacts) == 0:
			lastErr = errNoArtifact
		default:
			return artifacts, nil
		}
		log.Printf("Stage %s generation attempt %d/%d failed: %v", stage.Name, attempt, attempts, lastErr)
	}

	if attempts > 1 {
		return nil, fmt.Errorf("generation failed after %d attempts: %w", attempts, lastErr)
	}
	return nil, fmt.Errorf("generation failed: %w", lastErr)
}

// persist writes the batch record, mirrors its status onto the scan-queue
// row, and pushes the update to websocket subscribers. A record that cannot
// be written terminates the batch, so the save error comes back to the caller.
func (w *BatchWorker) persist(ctx context.Context, job *model.BatchJob) error {
	if err := w.batches.Save(ctx, job); err != nil {
		return fmt.Errorf("failed to save batch %s: %w", job.ID, err)
	}
	if err := w.reconciler.SyncJob(ctx, job); err != nil {
		log.Printf("Failed to sync queue item for batch %s: %v", job.ID, err)
	}
	w.hub.BroadcastProgress(job.ID, job.CompletedUnits, job.TotalUnits, job.Status, job.CurrentStage)
	return nil
}

// fatal terminates a batch that failed outside any stage boundary. If the
// record itself cannot be read, a minimal one is rebuilt from the task
// payload so the failure stays visible to pollers.
func (w *BatchWorker) fatal(ctx context.Context, batchID string, input model.BatchInput, msg string) {
	job, err := w.batches.Get(ctx, batchID)
	if err != nil {
		job = model.NewBatchJob(batchID, input, w.pipeline.TotalUnits())
	}
	w.fail(ctx, job, msg)
}

// fail marks the in-hand record failed and makes a best-effort attempt to
// store it and mirror it. The queue row is synced even when the batch store
// is down, so pollers on the coarse record still see the failure.
func (w *BatchWorker) fail(ctx context.Context, job *model.BatchJob, msg string) {
	now := time.Now()
	job.Status = model.BatchStatusFailed
	job.CurrentStage = "Batch failed"
	job.CompletedAt = &now
	job.Results.Errors = append(job.Results.Errors, model.StageError{
		Stage: "batch",
		Error: msg,
	})

	if err := w.batches.Save(ctx, job); err != nil {
		log.Printf("Failed to mark batch %s failed: %v", job.ID, err)
	}
	if err := w.reconciler.SyncJob(ctx, job); err != nil {
		log.Printf("Failed to sync queue item for batch %s: %v", job.ID, err)
	}
	w.hub.BroadcastError(job.ID, "BATCH_FAILED", msg)
}
