package amqp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bkcopilot/internal/bus"
)

func TestCollectionChangedMessageRoundTrip(t *testing.T) {
	ev := bus.Event{
		Collection: "factures",
		Op:         bus.OpDeleted,
		ID:         "1735689600000",
		At:         time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}

	body, err := NewCollectionChangedMessage(ev).ToJSON()
	require.NoError(t, err)

	msg, err := CollectionChangedMessageFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, ev, msg.Event())
}

func TestCollectionChangedMessageStampsZeroTime(t *testing.T) {
	msg := NewCollectionChangedMessage(bus.Event{Collection: "clients", Op: bus.OpCreated})
	assert.False(t, msg.Timestamp.IsZero())
}

func TestCollectionChangedMessageRejectsGarbage(t *testing.T) {
	_, err := CollectionChangedMessageFromJSON([]byte(`{{`))
	assert.Error(t, err)
}
