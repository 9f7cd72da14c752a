package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/logger"
	"github.com/openbrick/brick-ledger/internal/store"
	"github.com/openbrick/brick-ledger/internal/store/schema"
)

// Config holds webhook dispatcher configuration
type Config struct {
	// DeliveryTimeout bounds a single HTTP delivery attempt
	DeliveryTimeout time.Duration
	// MaxRetries caps delivery retries per client per event
	MaxRetries uint64
	// QueueSize bounds the in-flight event queue
	QueueSize int
}

// Dispatcher fans committed ledger events out to registered webhook clients.
// Delivery is asynchronous; a full queue drops events rather than blocking
// the ledger.
type Dispatcher struct {
	cfg    Config
	store  store.Store
	client *http.Client

	queue chan domain.LedgerEvent
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewDispatcher creates a webhook dispatcher backed by the given store
func NewDispatcher(st store.Store, cfg Config) *Dispatcher {
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 5
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}

	return &Dispatcher{
		cfg:    cfg,
		store:  st,
		client: &http.Client{Timeout: cfg.DeliveryTimeout},
		queue:  make(chan domain.LedgerEvent, cfg.QueueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the delivery worker
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop drains the queue and waits for in-flight deliveries to finish
func (d *Dispatcher) Stop() {
	close(d.done)
	d.wg.Wait()
}

// Dispatch enqueues an event for delivery without blocking the caller
func (d *Dispatcher) Dispatch(event domain.LedgerEvent) {
	select {
	case d.queue <- event:
	default:
		logger.Warn("webhook queue full, dropping event",
			zap.String("event_id", event.EventID),
			zap.String("event_type", string(event.Type)),
		)
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.queue:
			d.deliver(event)
		case <-d.done:
			// drain whatever is already queued
			for {
				select {
				case event := <-d.queue:
					d.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(event domain.LedgerEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	clients, err := d.store.ListActiveWebhookClients(ctx)
	cancel()
	if err != nil {
		logger.Error(fmt.Errorf("failed to list webhook clients: %w", err),
			zap.String("event_id", event.EventID))
		return
	}

	webhookEvent := NewWebhookEvent(event)
	for _, client := range clients {
		if !clientWantsEvent(client, webhookEvent.EventType) {
			continue
		}
		d.deliverToClient(client, webhookEvent)
	}
}

// clientWantsEvent checks the client's event type filter; an empty filter
// or a wildcard entry matches everything
func clientWantsEvent(client schema.WebhookClient, eventType string) bool {
	if len(client.EventTypes) == 0 {
		return true
	}

	var types []string
	if err := json.Unmarshal(client.EventTypes, &types); err != nil {
		logger.Warn("invalid event type filter on webhook client",
			zap.String("client_id", client.ID),
			zap.Error(err),
		)
		return false
	}

	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == EventTypeWildcard || t == eventType {
			return true
		}
	}
	return false
}

func (d *Dispatcher) deliverToClient(client schema.WebhookClient, event WebhookEvent) {
	operation := func() error {
		result := d.post(client, event)
		if result.Success {
			return nil
		}
		// 4xx responses will not improve on retry
		if result.StatusCode >= 400 && result.StatusCode < 500 {
			return backoff.Permanent(fmt.Errorf("delivery rejected: %s", result.Error))
		}
		return fmt.Errorf("delivery failed: %s", result.Error)
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), d.cfg.MaxRetries)
	if err := backoff.Retry(operation, policy); err != nil {
		logger.Error(fmt.Errorf("webhook delivery exhausted retries: %w", err),
			zap.String("client_id", client.ID),
			zap.String("event_id", event.EventID),
		)
		return
	}

	logger.Debug("webhook delivered",
		zap.String("client_id", client.ID),
		zap.String("event_id", event.EventID),
	)
}

func (d *Dispatcher) post(client schema.WebhookClient, event WebhookEvent) DeliveryResult {
	payload, signature, timestamp, err := GenerateSignedPayload(client.Secret, event)
	if err != nil {
		return DeliveryResult{Error: err.Error()}
	}

	req, err := http.NewRequest(http.MethodPost, client.URL, bytes.NewReader(payload))
	if err != nil {
		return DeliveryResult{Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", signature)
	req.Header.Set("X-Webhook-Timestamp", strconv.FormatInt(timestamp, 10))
	req.Header.Set("X-Webhook-Event-Id", event.EventID)

	resp, err := d.client.Do(req)
	if err != nil {
		return DeliveryResult{Error: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return DeliveryResult{
			StatusCode: resp.StatusCode,
			Error:      fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	return DeliveryResult{Success: true, StatusCode: resp.StatusCode}
}
