package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/cratescan/api/internal/model"
	"github.com/cratescan/api/internal/store"
)

const TaskTypeMerchBatch = "merch:batch"

// ErrBatchAlreadyStarted is returned when a reserved identifier already has a
// batch record behind it. Repeating the call must not reset that record.
var ErrBatchAlreadyStarted = errors.New("batch already started")

// BatchService creates batch records and hands them to the background worker.
// Callers get the batch id straight back and poll GetStatus for progress.
type BatchService struct {
	batches     store.BatchStore
	asynqClient *asynq.Client
	totalUnits  int
}

func NewBatchService(batches store.BatchStore, asynqClient *asynq.Client, totalUnits int) *BatchService {
	return &BatchService{
		batches:     batches,
		asynqClient: asynqClient,
		totalUnits:  totalUnits,
	}
}

// Start creates a fresh batch and launches processing for it.
func (s *BatchService) Start(ctx context.Context, req *model.MerchStartRequest) (*model.MerchStartResponse, error) {
	return s.launch(ctx, uuid.New().String(), req)
}

// Attach launches processing onto an identifier the scan-queue service has
// already reserved, instead of minting a new one. An identifier that already
// carries a record is rejected: resurrecting a terminal batch would run the
// whole pipeline again.
func (s *BatchService) Attach(ctx context.Context, batchID string, req *model.MerchStartRequest) (*model.MerchStartResponse, error) {
	existing, err := s.batches.Get(ctx, batchID)
	if err == nil {
		return nil, fmt.Errorf("%w: batch %s is %s", ErrBatchAlreadyStarted, batchID, existing.Status)
	}
	if !errors.Is(err, store.ErrBatchNotFound) {
		return nil, fmt.Errorf("failed to check batch: %w", err)
	}
	return s.launch(ctx, batchID, req)
}

func (s *BatchService) launch(ctx context.Context, batchID string, req *model.MerchStartRequest) (*model.MerchStartResponse, error) {
	input := model.BatchInput{
		SourceImageURL: req.SourceImageURL,
		Artist:         req.Artist,
		Title:          req.Title,
		Description:    req.Description,
	}

	job := model.NewBatchJob(batchID, input, s.totalUnits)
	if err := s.batches.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save batch: %w", err)
	}

	task, err := NewMerchBatchTask(batchID, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// Stage retries are the worker's own concern; re-running a finished
	// batch would break terminal uniqueness, so asynq must not retry.
	_, err = s.asynqClient.Enqueue(task,
		asynq.Queue("merch"),
		asynq.MaxRetry(0),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	return &model.MerchStartResponse{
		BatchID:    job.ID,
		Status:     job.Status,
		TotalUnits: job.TotalUnits,
		CreatedAt:  job.CreatedAt,
	}, nil
}

// GetStatus returns the current batch snapshot. Read-only.
func (s *BatchService) GetStatus(ctx context.Context, batchID string) (*model.MerchStatusResponse, error) {
	job, err := s.batches.Get(ctx, batchID)
	if err != nil {
		return nil, err
	}

	return &model.MerchStatusResponse{
		BatchID:        job.ID,
		Status:         job.Status,
		TotalUnits:     job.TotalUnits,
		CompletedUnits: job.CompletedUnits,
		CurrentStage:   job.CurrentStage,
		Results:        job.Results,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
		CompletedAt:    job.CompletedAt,
	}, nil
}

// NewMerchBatchTask builds the asynq task that drives one batch.
func NewMerchBatchTask(batchID string, input model.BatchInput) (*asynq.Task, error) {
	data, err := json.Marshal(model.BatchTaskPayload{
		BatchID: batchID,
		Input:   input,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeMerchBatch, data), nil
}
