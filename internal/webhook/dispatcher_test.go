package webhook_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/store"
	"github.com/openbrick/brick-ledger/internal/store/schema"
	"github.com/openbrick/brick-ledger/internal/webhook"
)

// clientListStore serves a fixed webhook client list
type clientListStore struct {
	clients []schema.WebhookClient
}

func (s *clientListStore) ApplyOperation(ctx context.Context, input store.OperationInput) error {
	return nil
}

func (s *clientListStore) LoadState(ctx context.Context) (*store.StateSnapshot, error) {
	return &store.StateSnapshot{}, nil
}

func (s *clientListStore) GetChanges(ctx context.Context, filter store.ChangesFilter) ([]schema.LedgerJournal, error) {
	return nil, nil
}

func (s *clientListStore) CreateWebhookClient(ctx context.Context, client *schema.WebhookClient) error {
	s.clients = append(s.clients, *client)
	return nil
}

func (s *clientListStore) ListActiveWebhookClients(ctx context.Context) ([]schema.WebhookClient, error) {
	return s.clients, nil
}

func (s *clientListStore) DeactivateWebhookClient(ctx context.Context, id string) error {
	return nil
}

type capturedDelivery struct {
	signature string
	timestamp int64
	eventID   string
	body      []byte
}

func TestDispatcherDeliversSignedEvents(t *testing.T) {
	var mu sync.Mutex
	var deliveries []capturedDelivery

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		timestamp, _ := strconv.ParseInt(r.Header.Get("X-Webhook-Timestamp"), 10, 64)
		mu.Lock()
		deliveries = append(deliveries, capturedDelivery{
			signature: r.Header.Get("X-Webhook-Signature"),
			timestamp: timestamp,
			eventID:   r.Header.Get("X-Webhook-Event-Id"),
			body:      body,
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	secret := "dispatcher-secret"
	st := &clientListStore{clients: []schema.WebhookClient{
		{ID: "client-1", Name: "all events", URL: srv.URL, Secret: secret, Active: true},
		{
			ID:         "client-2",
			Name:       "orders only",
			URL:        srv.URL,
			Secret:     secret,
			Active:     true,
			EventTypes: mustJSON(t, []string{"order.created"}),
		},
	}}

	d := webhook.NewDispatcher(st, webhook.Config{DeliveryTimeout: time.Second, MaxRetries: 1})
	d.Start()

	event := domain.NewLedgerEvent(
		domain.EventTokenTransferred,
		domain.NormalizeAccount("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		time.Now().UTC(),
	)
	d.Dispatch(event)
	d.Stop()

	mu.Lock()
	defer mu.Unlock()
	// client-2 filters on order events, so only client-1 receives this one
	require.Len(t, deliveries, 1)

	got := deliveries[0]
	assert.Equal(t, event.EventID, got.eventID)
	assert.True(t, webhook.VerifySignature(secret, got.signature, got.timestamp, got.eventID, got.body))

	var parsed webhook.WebhookEvent
	require.NoError(t, json.Unmarshal(got.body, &parsed))
	assert.Equal(t, string(domain.EventTokenTransferred), parsed.EventType)
}

func TestDispatcherEventTypeFilter(t *testing.T) {
	var mu sync.Mutex
	count := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		count++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	st := &clientListStore{clients: []schema.WebhookClient{
		{
			ID:         "orders",
			URL:        srv.URL,
			Secret:     "s",
			Active:     true,
			EventTypes: mustJSON(t, []string{"order.created", "order.fulfilled"}),
		},
		{
			ID:         "wildcard",
			URL:        srv.URL,
			Secret:     "s",
			Active:     true,
			EventTypes: mustJSON(t, []string{"*"}),
		},
	}}

	d := webhook.NewDispatcher(st, webhook.Config{DeliveryTimeout: time.Second, MaxRetries: 1})
	d.Start()

	actor := domain.NormalizeAccount("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	d.Dispatch(domain.NewLedgerEvent(domain.EventOrderCreated, actor, time.Now().UTC()))
	d.Dispatch(domain.NewLedgerEvent(domain.EventVoteCast, actor, time.Now().UTC()))
	d.Stop()

	mu.Lock()
	defer mu.Unlock()
	// order.created matches both clients, vote_cast only the wildcard one
	assert.Equal(t, 3, count)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}
