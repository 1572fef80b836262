package model

// Batch status
type BatchStatus string

const (
	BatchStatusProcessing          BatchStatus = "processing"
	BatchStatusCompleted           BatchStatus = "completed"
	BatchStatusCompletedWithErrors BatchStatus = "completed_with_errors"
	BatchStatusFailed              BatchStatus = "failed"
)

// IsTerminal reports whether no further status transition can occur.
func (s BatchStatus) IsTerminal() bool {
	switch s {
	case BatchStatusCompleted, BatchStatusCompletedWithErrors, BatchStatusFailed:
		return true
	}
	return false
}

// Queue item status — the coarse enum the scan-queue service exposes to its
// own consumers. Deliberately narrower than BatchStatus.
type QueueStatus string

const (
	QueueStatusPending    QueueStatus = "pending"
	QueueStatusProcessing QueueStatus = "processing"
	QueueStatusCompleted  QueueStatus = "completed"
	QueueStatusFailed     QueueStatus = "failed"
)

// QueueStatusFor maps a detailed batch status onto the queue enum.
// A batch that completed with errors still counts as completed for the queue.
func QueueStatusFor(s BatchStatus) QueueStatus {
	switch s {
	case BatchStatusCompleted, BatchStatusCompletedWithErrors:
		return QueueStatusCompleted
	case BatchStatusFailed:
		return QueueStatusFailed
	default:
		return QueueStatusProcessing
	}
}

// Product kinds offered by the merch pipeline
type ProductKind string

const (
	ProductKindArtPrint  ProductKind = "art_print"
	ProductKindTShirt    ProductKind = "tshirt"
	ProductKindPoster    ProductKind = "poster"
	ProductKindMug       ProductKind = "mug"
	ProductKindPhoneCase ProductKind = "phone_case"
)
