package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeComponent(t *testing.T) {
	tests := []struct {
		name      string
		eventType EventType
		expected  string
	}{
		{name: "token event", eventType: EventTokenTransferred, expected: "token"},
		{name: "property event", eventType: EventSharesPurchased, expected: "property"},
		{name: "order event", eventType: EventOrderFulfilled, expected: "order"},
		{name: "governance event", eventType: EventVoteCast, expected: "governance"},
		{name: "disaster event", eventType: EventClaimProcessed, expected: "disaster"},
		{name: "no separator falls back to full type", eventType: EventType("heartbeat"), expected: "heartbeat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.eventType.Component())
		})
	}
}

func TestNewLedgerEvent(t *testing.T) {
	actor := Account("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	event := NewLedgerEvent(EventTokenIssued, actor, at)

	assert.Equal(t, EventTokenIssued, event.Type)
	assert.Equal(t, actor, event.Actor)
	assert.Equal(t, at, event.Timestamp)

	_, err := ulid.Parse(event.EventID)
	require.NoError(t, err)

	// Fresh IDs per event
	other := NewLedgerEvent(EventTokenIssued, actor, at)
	assert.NotEqual(t, event.EventID, other.EventID)
}

func TestLedgerEventJSONOmitsEmptyFields(t *testing.T) {
	actor := Account("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	event := NewLedgerEvent(EventLedgerPaused, actor, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Contains(t, m, "event_id")
	assert.Contains(t, m, "type")
	assert.Contains(t, m, "actor")
	assert.NotContains(t, m, "counterparty")
	assert.NotContains(t, m, "amount")
	assert.NotContains(t, m, "property_id")
	assert.NotContains(t, m, "support")
}
