package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	SessionID string `json:"session_id"`
	Count     int    `json:"count"`
}

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent("saffron.cart.updated", "sess-1", "cart", "storefront", testPayload{SessionID: "sess-1", Count: 3})

	require.NoError(t, err)
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, "saffron.cart.updated", ev.EventType)
	assert.Equal(t, "sess-1", ev.AggregateID)
	assert.Equal(t, "cart", ev.AggregateType)
	assert.Equal(t, "storefront", ev.Source)
	assert.Equal(t, 1, ev.Version)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("x", "y", "z", "s", make(chan int))
	assert.Error(t, err)
}

func TestEvent_DataRoundTrip(t *testing.T) {
	ev, err := NewEvent("saffron.cart.updated", "sess-1", "cart", "storefront", testPayload{SessionID: "sess-1", Count: 3})
	require.NoError(t, err)

	raw, err := ev.Marshal()
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(raw, &decoded))

	var payload testPayload
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, "sess-1", payload.SessionID)
	assert.Equal(t, 3, payload.Count)
}

func TestEvent_WithCorrelationID(t *testing.T) {
	ev, err := NewEvent("x", "y", "z", "s", testPayload{})
	require.NoError(t, err)

	assert.Equal(t, "corr-1", ev.WithCorrelationID("corr-1").CorrelationID)
}
