package model

// WebSocket message types
const (
	WSMessageTypeProgress = "progress"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// WSProgressMessage represents a progress update
type WSProgressMessage struct {
	Type           string      `json:"type"`
	BatchID        string      `json:"batchId"`
	CompletedUnits int         `json:"completedUnits"`
	TotalUnits     int         `json:"totalUnits"`
	Status         BatchStatus `json:"status"`
	CurrentStage   string      `json:"currentStage,omitempty"`
}

// WSCompleteMessage represents batch completion
type WSCompleteMessage struct {
	Type    string      `json:"type"`
	BatchID string      `json:"batchId"`
	Status  BatchStatus `json:"status"`
	Results interface{} `json:"results"`
}

// WSErrorMessage represents an error
type WSErrorMessage struct {
	Type    string  `json:"type"`
	BatchID string  `json:"batchId"`
	Error   WSError `json:"error"`
}

// WSError represents error details
type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
