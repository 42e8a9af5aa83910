package schemas

import "github.com/google/uuid"

// EventType tags the messages exchanged with the job orchestration layer.
type EventType string

const (
	EventScanParse EventType = "SCAN_PARSE"
	EventParseAck  EventType = "PARSE_ACK"
)

// ParseJob is the payload of a batch trigger: which tenant's export to
// parse, where it lives, and which tool produced it.
type ParseJob struct {
	TenantID   int64    `json:"tenantId"`
	SourcePath string   `json:"filePath"`
	ToolType   ToolType `json:"toolType"`
}

// ParseJobEvent is the envelope delivered on the job topic. EventID doubles
// as the correlation id echoed back in the acknowledgement.
type ParseJobEvent struct {
	EventID string    `json:"eventId"`
	Type    EventType `json:"type"`
	Payload ParseJob  `json:"payload"`
}

// AckStatus is the terminal outcome of one triggered batch.
type AckStatus string

const (
	AckSuccess AckStatus = "SUCCESS"
	AckFailure AckStatus = "FAILURE"
)

// AckEvent is the inner acknowledgement payload, keyed by the job's event id.
type AckEvent struct {
	JobID  string    `json:"jobId"`
	Status AckStatus `json:"status"`
}

// ParseAcknowledgement is the envelope published on the acknowledgement
// topic, exactly once per triggered batch.
type ParseAcknowledgement struct {
	AcknowledgementID string    `json:"acknowledgementId"`
	Type              EventType `json:"type"`
	Payload           AckEvent  `json:"payload"`
}

// NewParseAcknowledgement builds an acknowledgement for the given job with a
// freshly generated acknowledgement id.
func NewParseAcknowledgement(jobID string, success bool) ParseAcknowledgement {
	status := AckFailure
	if success {
		status = AckSuccess
	}
	return ParseAcknowledgement{
		AcknowledgementID: uuid.NewString(),
		Type:              EventParseAck,
		Payload:           AckEvent{JobID: jobID, Status: status},
	}
}
