package messaging

import (
	"context"

	"github.com/openbrick/brick-ledger/internal/domain"
)

// Publisher defines the interface for publishing ledger events to a
// message broker
type Publisher interface {
	// PublishEvent publishes a committed ledger event
	PublishEvent(ctx context.Context, event *domain.LedgerEvent) error
	// Close closes the connection
	Close()
}
