package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Pipeline run events
	EventRunStarted   = "replenishment.run.started"
	EventRunCompleted = "replenishment.run.completed"
	EventRunFailed    = "replenishment.run.failed"

	// Anomaly events
	EventAnomalyDetected = "replenishment.anomaly.detected"
)

// Exchange names
const (
	ExchangeProcurementEvents = "procurement.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// RunStartedEvent is published when a pipeline run begins
type RunStartedEvent struct {
	RunID        string `json:"run_id"`
	BusinessDate string `json:"business_date"`
}

// RunCompletedEvent is published when a pipeline run completes
type RunCompletedEvent struct {
	RunID        string `json:"run_id"`
	BusinessDate string `json:"business_date"`
	OrderLines   int    `json:"order_lines"`
	Warnings     int    `json:"warnings"`
	OutputFile   string `json:"output_file,omitempty"`
}

// RunFailedEvent is published when a pipeline run aborts on a fatal anomaly
type RunFailedEvent struct {
	RunID        string `json:"run_id"`
	BusinessDate string `json:"business_date"`
	ErrorCode    string `json:"error_code"`
	Message      string `json:"message"`
}

// AnomalyDetectedEvent is published for each anomaly recorded during a run
type AnomalyDetectedEvent struct {
	RunID        string `json:"run_id"`
	BusinessDate string `json:"business_date"`
	Stage        string `json:"stage"`
	SKU          string `json:"sku,omitempty"`
	Severity     string `json:"severity"`
	Message      string `json:"message"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return uuid.New().String()
}
