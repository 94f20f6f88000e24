package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record kinds carried in sync messages.
const (
	KindRequest = "request"
	KindUsage   = "usage"
)

// RecordSavedMessage is the lightweight event published after a ledger
// append. It carries only the kind and row ID; the worker fetches the
// full record from storage before mirroring it out.
type RecordSavedMessage struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordSavedMessage(kind string, id int64) *RecordSavedMessage {
	return &RecordSavedMessage{
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *RecordSavedMessage) Validate() error {
	if m.Kind != KindRequest && m.Kind != KindUsage {
		return fmt.Errorf("unknown record kind %q", m.Kind)
	}
	if m.ID <= 0 {
		return fmt.Errorf("invalid record id %d", m.ID)
	}
	return nil
}

// ToJSON converts the message to JSON bytes.
func (m *RecordSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordSavedMessageFromJSON creates a message from JSON bytes.
func RecordSavedMessageFromJSON(data []byte) (*RecordSavedMessage, error) {
	var msg RecordSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
