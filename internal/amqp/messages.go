package amqp

import (
	"encoding/json"
	"time"
)

// Message kinds carried on the snapshot queue.
const (
	KindStateChanged    = "state.changed"
	KindSnapshotRequest = "snapshot.request"
)

// Message is the wire envelope for snapshot triggers. A state.changed
// message carries the entity that changed; a snapshot.request carries
// only the reason (scheduler, manual).
type Message struct {
	Kind      string    `json:"kind"`
	Entity    string    `json:"entity,omitempty"`
	EntityID  string    `json:"entityId,omitempty"`
	Action    string    `json:"action,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewStateChangedMessage announces that a plan entity was created,
// updated or deleted.
func NewStateChangedMessage(entity, entityID, action string) *Message {
	return &Message{
		Kind:      KindStateChanged,
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// NewSnapshotRequestMessage asks the worker to record a snapshot now.
func NewSnapshotRequestMessage(reason string) *Message {
	return &Message{
		Kind:      KindSnapshotRequest,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON creates a message from JSON bytes
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
