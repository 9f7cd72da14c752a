package schema

import "time"

// KeyValueStore represents the key_value_store table used for small pieces
// of ledger state that do not warrant their own table, such as the paused
// flag and the total issued supply
type KeyValueStore struct {
	// Key is the state key
	Key string `gorm:"column:key;primaryKey;type:text"`
	// Value is the state value serialized as text
	Value string `gorm:"column:value;not null;type:text"`
	// UpdatedAt is the last write time
	UpdatedAt time.Time `gorm:"column:updated_at;not null;type:timestamptz;default:now()"`
}

// TableName specifies the table name for the KeyValueStore model
func (KeyValueStore) TableName() string {
	return "key_value_store"
}

// Well known key_value_store keys.
const (
	KeyPaused      = "ledger.paused"
	KeyTotalIssued = "ledger.total_issued"
)
