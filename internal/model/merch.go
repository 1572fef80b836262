package model

import "time"

// MerchStartRequest starts a merch batch for an uploaded sleeve photo
type MerchStartRequest struct {
	SourceImageURL string `json:"sourceImageUrl" validate:"required,url"`
	Artist         string `json:"artist,omitempty" validate:"omitempty,max=200"`
	Title          string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description    string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// MerchStartResponse is returned immediately; callers poll for progress
type MerchStartResponse struct {
	BatchID    string      `json:"batchId"`
	Status     BatchStatus `json:"status"`
	TotalUnits int         `json:"totalUnits"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// MerchStatusResponse is the full batch snapshot returned by the status endpoint
type MerchStatusResponse struct {
	BatchID        string       `json:"batchId"`
	Status         BatchStatus  `json:"status"`
	TotalUnits     int          `json:"totalUnits"`
	CompletedUnits int          `json:"completedUnits"`
	CurrentStage   string       `json:"currentStage,omitempty"`
	Results        BatchResults `json:"results"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
	CompletedAt    *time.Time   `json:"completedAt,omitempty"`
}

// BatchTaskPayload is the asynq task body handed to the batch worker
type BatchTaskPayload struct {
	BatchID string     `json:"batchId"`
	Input   BatchInput `json:"input"`
}
