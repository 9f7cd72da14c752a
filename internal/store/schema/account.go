package schema

import "time"

// Account represents the accounts table - materialized fungible-ledger
// balances per address
type Account struct {
	// Address is the normalized hex address, primary key
	Address string `gorm:"column:address;primaryKey;type:text"`
	// Balance is the current fungible balance in smallest units
	Balance uint64 `gorm:"column:balance;not null;default:0"`
	// LastFaucetAt is the last self-service issue time, nil if never used
	LastFaucetAt *time.Time `gorm:"column:last_faucet_at;type:timestamptz"`
	// CreatedAt is when this account first appeared in the ledger
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is when this balance last changed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}
