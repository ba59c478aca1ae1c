package amqp

import (
	"encoding/json"
	"time"

	"bkcopilot/internal/bus"
)

// CollectionChangedMessage relays a collection-change event to sibling
// processes. It carries only the collection name, operation and record id;
// consumers re-read the collection from the store, never the message.
type CollectionChangedMessage struct {
	Collection string    `json:"collection"`
	Op         string    `json:"op"`
	ID         string    `json:"id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewCollectionChangedMessage wraps a bus event for the wire.
func NewCollectionChangedMessage(ev bus.Event) *CollectionChangedMessage {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	return &CollectionChangedMessage{
		Collection: ev.Collection,
		Op:         string(ev.Op),
		ID:         ev.ID,
		Timestamp:  at,
	}
}

// Event converts the message back into a bus event.
func (m *CollectionChangedMessage) Event() bus.Event {
	return bus.Event{
		Collection: m.Collection,
		Op:         bus.Op(m.Op),
		ID:         m.ID,
		At:         m.Timestamp,
	}
}

// ToJSON converts the message to JSON bytes.
func (m *CollectionChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CollectionChangedMessageFromJSON creates a message from JSON bytes.
func CollectionChangedMessageFromJSON(data []byte) (*CollectionChangedMessage, error) {
	var msg CollectionChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
