package schema

import (
	"time"

	"gorm.io/datatypes"
)

// LedgerJournal represents the ledger_journal table - an append-only record
// of every committed ledger operation
type LedgerJournal struct {
	// Cursor is a monotonically increasing sequence number used as an
	// anchor for change feed pagination
	Cursor int64 `gorm:"column:cursor;primaryKey;autoIncrement"`
	// EventID is the ULID assigned to the event at commit time
	EventID string `gorm:"column:event_id;not null;type:text;uniqueIndex"`
	// EventType is the dotted event type, e.g. token.transferred
	EventType string `gorm:"column:event_type;not null;type:text;index"`
	// Component is the ledger component the event belongs to
	Component string `gorm:"column:component;not null;type:text;index"`
	// Actor is the account that initiated the operation
	Actor string `gorm:"column:actor;not null;type:text;index"`
	// ChangedAt is the ledger timestamp of the operation
	ChangedAt time.Time `gorm:"column:changed_at;not null;type:timestamptz;index"`
	// Meta carries the event payload fields as JSON
	Meta datatypes.JSON `gorm:"column:meta;type:jsonb"`
}

// TableName specifies the table name for the LedgerJournal model
func (LedgerJournal) TableName() string {
	return "ledger_journal"
}
