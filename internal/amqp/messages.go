package amqp

import (
	"encoding/json"
	"time"
)

// SummaryExportMessage asks the export worker to push an archived analysis to
// Google Sheets. It carries only the analysis ID and version; the worker
// fetches the summary rows from storage.
type SummaryExportMessage struct {
	AnalysisID int64     `json:"analysis_id"`
	Version    int64     `json:"version"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewSummaryExportMessage creates an export message for an archived analysis.
func NewSummaryExportMessage(analysisID, version int64) *SummaryExportMessage {
	return &SummaryExportMessage{
		AnalysisID: analysisID,
		Version:    version,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *SummaryExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SummaryExportMessageFromJSON creates a message from JSON bytes.
func SummaryExportMessageFromJSON(data []byte) (*SummaryExportMessage, error) {
	var msg SummaryExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
