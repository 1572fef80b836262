package model

import "time"

// BatchJob is the durable record of one merch production run for a single
// scanned sleeve photo. The worker that executes the run is the only writer.
type BatchJob struct {
	ID             string       `json:"id"`
	Input          BatchInput   `json:"input"`
	Status         BatchStatus  `json:"status"`
	TotalUnits     int          `json:"totalUnits"`
	CompletedUnits int          `json:"completedUnits"`
	CurrentStage   string       `json:"currentStage,omitempty"`
	Results        BatchResults `json:"results"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
	CompletedAt    *time.Time   `json:"completedAt,omitempty"`
}

// BatchInput is the source photo plus descriptive metadata supplied at start.
// Immutable after the batch is created.
type BatchInput struct {
	SourceImageURL string `json:"sourceImageUrl"`
	Artist         string `json:"artist,omitempty"`
	Title          string `json:"title,omitempty"`
	Description    string `json:"description,omitempty"`
}

// BatchResults accumulates per-stage outputs and errors. Entries are only
// ever added, never removed.
type BatchResults struct {
	Stages map[string]StageOutput `json:"stages"`
	Errors []StageError           `json:"errors"`
}

// StageOutput holds what one stage produced: generated artifacts and the
// product ids registered from them.
type StageOutput struct {
	Artifacts  []Artifact `json:"artifacts,omitempty"`
	ProductIDs []string   `json:"productIds,omitempty"`
}

// Artifact is one derived image produced by the generation service.
type Artifact struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Style string `json:"style,omitempty"`
}

// StageError records a failure tagged with the stage it happened in.
type StageError struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// NewBatchJob creates a processing batch record for the given id and input.
func NewBatchJob(id string, input BatchInput, totalUnits int) *BatchJob {
	now := time.Now()
	return &BatchJob{
		ID:         id,
		Input:      input,
		Status:     BatchStatusProcessing,
		TotalUnits: totalUnits,
		Results: BatchResults{
			Stages: make(map[string]StageOutput),
			Errors: []StageError{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
