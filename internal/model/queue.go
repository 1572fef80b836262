package model

import "time"

// QueueItem is the scan-queue row owned by the platform's queue service.
// This service never creates or deletes queue items; it only rewrites
// Status and ProcessedAt on rows whose ItemID matches a batch it controls.
type QueueItem struct {
	ID          string      `json:"id"`
	ItemID      string      `json:"itemId"`
	Status      QueueStatus `json:"status"`
	SubmittedBy string      `json:"submittedBy,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	ProcessedAt *time.Time  `json:"processedAt,omitempty"`
}
